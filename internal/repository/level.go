package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type levelRepo struct{}

// NewLevelRepository returns a pgx-backed LevelRepository.
func NewLevelRepository() LevelRepository {
	return &levelRepo{}
}

func (r *levelRepo) LevelForPoints(ctx context.Context, db DBTX, totalPoints int64) (*domain.Level, error) {
	row := db.QueryRow(ctx, `
		SELECT id, level_number, level_name, points_required, perks_unlocked, icon_name
		FROM wellness_levels
		WHERE points_required <= $1
		ORDER BY level_number DESC
		LIMIT 1`, totalPoints)
	return scanLevel(row)
}

func (r *levelRepo) FindByNumber(ctx context.Context, db DBTX, number int) (*domain.Level, error) {
	row := db.QueryRow(ctx, `
		SELECT id, level_number, level_name, points_required, perks_unlocked, icon_name
		FROM wellness_levels
		WHERE level_number = $1`, number)
	return scanLevel(row)
}

func (r *levelRepo) NextAfter(ctx context.Context, db DBTX, number int) (*domain.Level, error) {
	row := db.QueryRow(ctx, `
		SELECT id, level_number, level_name, points_required, perks_unlocked, icon_name
		FROM wellness_levels
		WHERE level_number > $1
		ORDER BY level_number ASC
		LIMIT 1`, number)
	return scanLevel(row)
}

func (r *levelRepo) ListAll(ctx context.Context, db DBTX) ([]domain.Level, error) {
	rows, err := db.Query(ctx, `
		SELECT id, level_number, level_name, points_required, perks_unlocked, icon_name
		FROM wellness_levels
		ORDER BY level_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	defer rows.Close()

	var out []domain.Level
	for rows.Next() {
		var l domain.Level
		if err := rows.Scan(&l.ID, &l.LevelNumber, &l.LevelName, &l.PointsRequired,
			&l.PerksUnlocked, &l.IconName); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *levelRepo) InsertAchievement(ctx context.Context, db DBTX, userID uuid.UUID, levelNumber int) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO user_level_achievements (id, user_id, level_number, achieved_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, level_number) DO NOTHING`,
		uuid.New(), userID, levelNumber)
	if err != nil {
		return false, fmt.Errorf("insert level achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *levelRepo) ListAchievements(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.LevelAchievement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, level_number, achieved_at
		FROM user_level_achievements
		WHERE user_id = $1
		ORDER BY achieved_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list level achievements: %w", err)
	}
	defer rows.Close()

	var out []domain.LevelAchievement
	for rows.Next() {
		var a domain.LevelAchievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.LevelNumber, &a.AchievedAt); err != nil {
			return nil, fmt.Errorf("scan level achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanLevel(row pgx.Row) (*domain.Level, error) {
	var l domain.Level
	err := row.Scan(&l.ID, &l.LevelNumber, &l.LevelName, &l.PointsRequired,
		&l.PerksUnlocked, &l.IconName)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan level: %w", err)
	}
	return &l, nil
}
