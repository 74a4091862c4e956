package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type badgeRepo struct{}

// NewBadgeRepository returns a pgx-backed BadgeRepository.
func NewBadgeRepository() BadgeRepository {
	return &badgeRepo{}
}

func (r *badgeRepo) ListActiveUnowned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Badge, error) {
	rows, err := db.Query(ctx, `
		SELECT b.id, b.name, b.description, b.icon_name, b.unlock_criteria,
		       b.points_required, b.is_active, b.created_at
		FROM karma_badges b
		WHERE b.is_active = true
		  AND NOT EXISTS (
		    SELECT 1 FROM user_badges ub
		    WHERE ub.user_id = $1 AND ub.badge_id = b.id
		  )`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unowned badges: %w", err)
	}
	defer rows.Close()

	var out []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.IconName,
			&b.RawCriteria, &b.PointsRequired, &b.IsActive, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan badge: %w", err)
		}
		b.UnlockCriteria, err = domain.ParseUnlockCriteria(b.RawCriteria)
		if err != nil {
			return nil, fmt.Errorf("badge %s: %w", b.ID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *badgeRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Badge, error) {
	row := db.QueryRow(ctx, `
		SELECT id, name, description, icon_name, unlock_criteria, points_required, is_active, created_at
		FROM karma_badges WHERE id = $1`, id)

	var b domain.Badge
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.IconName,
		&b.RawCriteria, &b.PointsRequired, &b.IsActive, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan badge: %w", err)
	}
	b.UnlockCriteria, err = domain.ParseUnlockCriteria(b.RawCriteria)
	if err != nil {
		return nil, fmt.Errorf("badge %s: %w", b.ID, err)
	}
	return &b, nil
}

func (r *badgeRepo) InsertUserBadge(ctx context.Context, db DBTX, userID, badgeID uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO user_badges (id, user_id, badge_id, earned_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, badge_id) DO NOTHING`,
		uuid.New(), userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("insert user badge: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *badgeRepo) ListOwned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.UserBadge, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, badge_id, earned_at
		FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	defer rows.Close()

	var out []domain.UserBadge
	for rows.Next() {
		var ub domain.UserBadge
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
			return nil, fmt.Errorf("scan user badge: %w", err)
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}
