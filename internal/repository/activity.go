package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type activityRepo struct{}

// NewActivityRepository returns a pgx-backed ActivityRepository.
func NewActivityRepository() ActivityRepository {
	return &activityRepo{}
}

func (r *activityRepo) FindByType(ctx context.Context, db DBTX, activityType string) (*domain.PointActivity, error) {
	row := db.QueryRow(ctx, `
		SELECT id, activity_type, activity_name, description, points_value, is_active, created_at
		FROM point_activities
		WHERE activity_type = $1 AND is_active = true`, activityType)
	return scanActivity(row)
}

func (r *activityRepo) ListActive(ctx context.Context, db DBTX) ([]domain.PointActivity, error) {
	rows, err := db.Query(ctx, `
		SELECT id, activity_type, activity_name, description, points_value, is_active, created_at
		FROM point_activities
		WHERE is_active = true
		ORDER BY activity_type`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []domain.PointActivity
	for rows.Next() {
		var a domain.PointActivity
		if err := rows.Scan(&a.ID, &a.ActivityType, &a.ActivityName, &a.Description,
			&a.PointsValue, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *activityRepo) UpsertDaily(ctx context.Context, db DBTX, userID uuid.UUID, activityType string, day domain.Date) error {
	_, err := db.Exec(ctx, `
		INSERT INTO daily_activities (id, user_id, activity_type, activity_date, activity_count)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (user_id, activity_type, activity_date)
		DO UPDATE SET activity_count = daily_activities.activity_count + 1`,
		uuid.New(), userID, activityType, toPgDate(day))
	if err != nil {
		return fmt.Errorf("upsert daily activity: %w", err)
	}
	return nil
}

func (r *activityRepo) CountsByUser(ctx context.Context, db DBTX, userID uuid.UUID) (map[string]int, int, error) {
	rows, err := db.Query(ctx, `
		SELECT activity_type, COALESCE(SUM(activity_count), 0)
		FROM daily_activities
		WHERE user_id = $1
		GROUP BY activity_type`, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	total := 0
	for rows.Next() {
		var activityType string
		var count int
		if err := rows.Scan(&activityType, &count); err != nil {
			return nil, 0, fmt.Errorf("scan activity count: %w", err)
		}
		counts[activityType] = count
		total += count
	}
	return counts, total, rows.Err()
}

func scanActivity(row pgx.Row) (*domain.PointActivity, error) {
	var a domain.PointActivity
	err := row.Scan(&a.ID, &a.ActivityType, &a.ActivityName, &a.Description,
		&a.PointsValue, &a.IsActive, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan activity: %w", err)
	}
	return &a, nil
}
