package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

type achievementRepo struct{}

// NewAchievementRepository returns a pgx-backed AchievementRepository.
func NewAchievementRepository() AchievementRepository {
	return &achievementRepo{}
}

// ListActive decodes unlock_criteria eagerly; a row with malformed
// criteria fails the whole listing rather than being skipped silently.
func (r *achievementRepo) ListActive(ctx context.Context, db DBTX, includeSecret bool) ([]domain.Achievement, error) {
	query := `
		SELECT id, name, description, category, tier, icon_name, unlock_criteria,
		       minimum_points, minimum_level, points_reward, bonus_multiplier,
		       is_secret, is_progressive, max_progress, is_active, created_at
		FROM achievements
		WHERE is_active = true`
	if !includeSecret {
		query += ` AND is_secret = false`
	}
	query += ` ORDER BY name`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Category, &a.Tier,
			&a.IconName, &a.RawCriteria, &a.MinimumPoints, &a.MinimumLevel,
			&a.PointsReward, &a.BonusMultiplier, &a.IsSecret, &a.IsProgressive,
			&a.MaxProgress, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.UnlockCriteria, err = domain.ParseUnlockCriteria(a.RawCriteria)
		if err != nil {
			return nil, fmt.Errorf("achievement %s: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *achievementRepo) EarnedIDs(ctx context.Context, db DBTX, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := db.Query(ctx, `
		SELECT achievement_id FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("earned achievement ids: %w", err)
	}
	defer rows.Close()

	earned := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan achievement id: %w", err)
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

func (r *achievementRepo) InsertUserAchievement(ctx context.Context, db DBTX, userID, achievementID uuid.UUID, pointsEarned int64) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO user_achievements (id, user_id, achievement_id, points_earned, unlocked_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		uuid.New(), userID, achievementID, pointsEarned)
	if err != nil {
		return false, fmt.Errorf("insert user achievement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *achievementRepo) ListEarned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.UserAchievement, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, achievement_id, points_earned, unlocked_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	defer rows.Close()

	var out []domain.UserAchievement
	for rows.Next() {
		var ua domain.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.PointsEarned, &ua.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		out = append(out, ua)
	}
	return out, rows.Err()
}

// IncrementProgress advances the counter with LEAST so progress never
// exceeds max_progress no matter how many increments race in. actionData
// from the triggering action is merged into progress_data for audit.
func (r *achievementRepo) IncrementProgress(ctx context.Context, db DBTX, userID, achievementID uuid.UUID, delta, maxProgress int, actionData []byte) (*domain.AchievementProgress, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO user_achievement_progress
		  (id, user_id, achievement_id, current_progress, max_progress, progress_data, updated_at)
		VALUES ($1, $2, $3, LEAST($4, $5), $5, COALESCE($6, '{}'::jsonb), now())
		ON CONFLICT (user_id, achievement_id) DO UPDATE SET
		  current_progress = LEAST(user_achievement_progress.current_progress + $4, $5),
		  progress_data = user_achievement_progress.progress_data || COALESCE($6, '{}'::jsonb),
		  updated_at = now()
		RETURNING id, user_id, achievement_id, current_progress, max_progress, progress_data, updated_at`,
		uuid.New(), userID, achievementID, delta, maxProgress, actionData)

	var p domain.AchievementProgress
	err := row.Scan(&p.ID, &p.UserID, &p.AchievementID, &p.CurrentProgress, &p.MaxProgress, &p.ProgressData, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("increment achievement progress: %w", err)
	}
	return &p, nil
}

func (r *achievementRepo) ListProgress(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.AchievementProgress, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, achievement_id, current_progress, max_progress, progress_data, updated_at
		FROM user_achievement_progress
		WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("list achievement progress: %w", err)
	}
	defer rows.Close()

	var out []domain.AchievementProgress
	for rows.Next() {
		var p domain.AchievementProgress
		if err := rows.Scan(&p.ID, &p.UserID, &p.AchievementID, &p.CurrentProgress, &p.MaxProgress, &p.ProgressData, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan achievement progress: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecomputeStats rebuilds the aggregate from user_achievements instead of
// nudging counters, so it self-heals after any missed update.
func (r *achievementRepo) RecomputeStats(ctx context.Context, db DBTX, userID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		INSERT INTO achievement_stats
		  (user_id, total_achievements, total_points_earned,
		   bronze_count, silver_count, gold_count, platinum_count, latest_unlock_at)
		SELECT $1,
		       COUNT(*),
		       COALESCE(SUM(ua.points_earned), 0),
		       COUNT(*) FILTER (WHERE a.tier = 'bronze'),
		       COUNT(*) FILTER (WHERE a.tier = 'silver'),
		       COUNT(*) FILTER (WHERE a.tier = 'gold'),
		       COUNT(*) FILTER (WHERE a.tier = 'platinum'),
		       MAX(ua.unlocked_at)
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ON CONFLICT (user_id) DO UPDATE SET
		  total_achievements = EXCLUDED.total_achievements,
		  total_points_earned = EXCLUDED.total_points_earned,
		  bronze_count = EXCLUDED.bronze_count,
		  silver_count = EXCLUDED.silver_count,
		  gold_count = EXCLUDED.gold_count,
		  platinum_count = EXCLUDED.platinum_count,
		  latest_unlock_at = EXCLUDED.latest_unlock_at`, userID)
	if err != nil {
		return fmt.Errorf("recompute achievement stats: %w", err)
	}
	return nil
}

func (r *achievementRepo) GetStats(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.AchievementStats, error) {
	row := db.QueryRow(ctx, `
		SELECT user_id, total_achievements, total_points_earned,
		       bronze_count, silver_count, gold_count, platinum_count, latest_unlock_at
		FROM achievement_stats
		WHERE user_id = $1`, userID)

	var s domain.AchievementStats
	err := row.Scan(&s.UserID, &s.TotalAchievements, &s.TotalPointsEarned,
		&s.BronzeCount, &s.SilverCount, &s.GoldCount, &s.PlatinumCount, &s.LatestUnlockAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return &domain.AchievementStats{UserID: userID}, nil
		}
		return nil, fmt.Errorf("scan achievement stats: %w", err)
	}
	return &s, nil
}
