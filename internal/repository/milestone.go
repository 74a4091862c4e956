package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type milestoneRepo struct{}

// NewMilestoneRepository returns a pgx-backed MilestoneRepository.
func NewMilestoneRepository() MilestoneRepository {
	return &milestoneRepo{}
}

func (r *milestoneRepo) FindByActivityAndDays(ctx context.Context, db DBTX, activityType string, days int) (*domain.Milestone, error) {
	row := db.QueryRow(ctx, `
		SELECT id, activity_type, milestone_days, milestone_name, description, reward_points, badge_id
		FROM streak_milestones
		WHERE activity_type = $1 AND milestone_days = $2`, activityType, days)

	return scanMilestone(row)
}

func (r *milestoneRepo) List(ctx context.Context, db DBTX, activityType string) ([]domain.Milestone, error) {
	query := `
		SELECT id, activity_type, milestone_days, milestone_name, description, reward_points, badge_id
		FROM streak_milestones`
	args := []interface{}{}
	if activityType != "" {
		query += ` WHERE activity_type = $1`
		args = append(args, activityType)
	}
	query += ` ORDER BY activity_type, milestone_days`

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list milestones: %w", err)
	}
	defer rows.Close()

	var out []domain.Milestone
	for rows.Next() {
		var m domain.Milestone
		if err := rows.Scan(&m.ID, &m.ActivityType, &m.MilestoneDays, &m.MilestoneName,
			&m.Description, &m.RewardPoints, &m.BadgeID); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertAchievement relies on the unique constraint: a duplicate award
// inserts nothing, and the zero RowsAffected gates the reward credit. The
// points paid are recorded on the row so the award is self-auditing.
func (r *milestoneRepo) InsertAchievement(ctx context.Context, db DBTX, userID, streakID, milestoneID uuid.UUID, pointsAwarded int64) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO user_streak_achievements (id, user_id, streak_id, milestone_id, points_awarded, achieved_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id, streak_id, milestone_id) DO NOTHING`,
		uuid.New(), userID, streakID, milestoneID, pointsAwarded)
	if err != nil {
		return false, fmt.Errorf("insert streak achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *milestoneRepo) ListAchievements(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.StreakAchievement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, streak_id, milestone_id, points_awarded, achieved_at
		FROM user_streak_achievements
		WHERE user_id = $1
		ORDER BY achieved_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list streak achievements: %w", err)
	}
	defer rows.Close()

	var out []domain.StreakAchievement
	for rows.Next() {
		var a domain.StreakAchievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.StreakID, &a.MilestoneID, &a.PointsAwarded, &a.AchievedAt); err != nil {
			return nil, fmt.Errorf("scan streak achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanMilestone(row pgx.Row) (*domain.Milestone, error) {
	var m domain.Milestone
	err := row.Scan(&m.ID, &m.ActivityType, &m.MilestoneDays, &m.MilestoneName,
		&m.Description, &m.RewardPoints, &m.BadgeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan milestone: %w", err)
	}
	return &m, nil
}
