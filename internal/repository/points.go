package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type pointsRepo struct{}

// NewPointsRepository returns a pgx-backed PointsRepository.
func NewPointsRepository() PointsRepository {
	return &pointsRepo{}
}

func (r *pointsRepo) FindByUser(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.PointsAccount, error) {
	row := db.QueryRow(ctx, `
		SELECT id, user_id, total_points, available_points, lifetime_points,
		       current_level, points_to_next_level, updated_at
		FROM user_points WHERE user_id = $1`, userID)
	return scanPointsAccount(row)
}

// AddPoints credits with server-side arithmetic so concurrent awards never
// lose an update. First touch creates the row via the upsert.
func (r *pointsRepo) AddPoints(ctx context.Context, db DBTX, userID uuid.UUID, amount int64) (*domain.PointsAccount, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO user_points
		  (id, user_id, total_points, available_points, lifetime_points, current_level, points_to_next_level, updated_at)
		VALUES ($1, $2, $3, $3, $3, 1, 0, now())
		ON CONFLICT (user_id) DO UPDATE SET
		  total_points = user_points.total_points + EXCLUDED.total_points,
		  available_points = user_points.available_points + EXCLUDED.available_points,
		  lifetime_points = user_points.lifetime_points + EXCLUDED.lifetime_points,
		  updated_at = now()
		RETURNING id, user_id, total_points, available_points, lifetime_points,
		          current_level, points_to_next_level, updated_at`,
		uuid.New(), userID, amount)
	return scanPointsAccount(row)
}

func (r *pointsRepo) SetLevel(ctx context.Context, db DBTX, userID uuid.UUID, level int, pointsToNext int64) error {
	_, err := db.Exec(ctx, `
		UPDATE user_points
		SET current_level = $2, points_to_next_level = $3, updated_at = now()
		WHERE user_id = $1`, userID, level, pointsToNext)
	if err != nil {
		return fmt.Errorf("set level: %w", err)
	}
	return nil
}

func scanPointsAccount(row pgx.Row) (*domain.PointsAccount, error) {
	var p domain.PointsAccount
	err := row.Scan(&p.ID, &p.UserID, &p.TotalPoints, &p.AvailablePoints,
		&p.LifetimePoints, &p.CurrentLevel, &p.PointsToNextLevel, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan points account: %w", err)
	}
	return &p, nil
}
