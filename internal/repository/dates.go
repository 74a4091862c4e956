package repository

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/santulan/wellness/internal/domain"
)

func toPgDate(d domain.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: !d.IsZero()}
}

func fromPgDate(d pgtype.Date) domain.Date {
	if !d.Valid {
		return domain.Date{}
	}
	return domain.DateOf(d.Time)
}
