package gamify

import (
	"context"

	"github.com/google/uuid"

	"github.com/santulan/wellness/internal/domain"
)

// BadgeAward is a user's badge joined with its catalog entry.
type BadgeAward struct {
	Badge    *domain.Badge `json:"badge"`
	EarnedAt string        `json:"earned_at"`
}

// Dashboard aggregates a user's whole gamification state for one read.
type Dashboard struct {
	Points       *domain.PointsAccount      `json:"points"`
	Level        *domain.LevelProgress      `json:"level"`
	Streaks      []domain.StreakView        `json:"streaks"`
	Badges       []BadgeAward               `json:"badges"`
	Achievements []domain.UserAchievement   `json:"achievements"`
	Stats        *domain.AchievementStats   `json:"achievement_stats"`
	Transactions []domain.PointTransaction  `json:"recent_transactions"`
}

// GetUserPoints returns the account, or a zeroed level-1 account for users
// who have never earned; the row itself is only created by the first
// credit.
func (e *Engine) GetUserPoints(ctx context.Context, userID uuid.UUID) (*domain.PointsAccount, error) {
	account, err := e.points.FindByUser(ctx, e.pool, userID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return &domain.PointsAccount{UserID: userID, CurrentLevel: 1}, nil
	}
	return account, nil
}

// GetUserStreaks returns all streaks with their status relative to today.
func (e *Engine) GetUserStreaks(ctx context.Context, userID uuid.UUID, today domain.Date) ([]domain.StreakView, error) {
	if today.IsZero() {
		today = domain.Today()
	}
	streaks, err := e.streaks.ListByUser(ctx, e.pool, userID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.StreakView, 0, len(streaks))
	for i := range streaks {
		views = append(views, domain.StreakView{
			Streak: streaks[i],
			Status: streaks[i].StatusOn(today),
		})
	}
	return views, nil
}

// GetStreakMilestones lists configured milestones, optionally filtered by
// activity type.
func (e *Engine) GetStreakMilestones(ctx context.Context, activityType string) ([]domain.Milestone, error) {
	return e.milestones.List(ctx, e.pool, activityType)
}

// GetStreakAchievements lists a user's milestone awards.
func (e *Engine) GetStreakAchievements(ctx context.Context, userID uuid.UUID) ([]domain.StreakAchievement, error) {
	return e.milestones.ListAchievements(ctx, e.pool, userID)
}

// GetUserLevel returns the user's ladder position with progress toward the
// next level.
func (e *Engine) GetUserLevel(ctx context.Context, userID uuid.UUID) (*domain.LevelProgress, error) {
	account, err := e.GetUserPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	return levelProgress(ctx, e.pool, e.levels, account)
}

// ListLevels returns the full ladder.
func (e *Engine) ListLevels(ctx context.Context) ([]domain.Level, error) {
	return e.levels.ListAll(ctx, e.pool)
}

// GetLevelAchievements lists the levels a user has reached.
func (e *Engine) GetLevelAchievements(ctx context.Context, userID uuid.UUID) ([]domain.LevelAchievement, error) {
	return e.levels.ListAchievements(ctx, e.pool, userID)
}

// GetUserBadges returns the user's badges with catalog details.
func (e *Engine) GetUserBadges(ctx context.Context, userID uuid.UUID) ([]BadgeAward, error) {
	owned, err := e.badges.ListOwned(ctx, e.pool, userID)
	if err != nil {
		return nil, err
	}

	awards := make([]BadgeAward, 0, len(owned))
	for _, ub := range owned {
		badge, err := e.badges.FindByID(ctx, e.pool, ub.BadgeID)
		if err != nil {
			return nil, err
		}
		if badge == nil {
			continue
		}
		awards = append(awards, BadgeAward{Badge: badge, EarnedAt: ub.EarnedAt.Format("2006-01-02T15:04:05Z07:00")})
	}
	return awards, nil
}

// GetRecentTransactions returns the latest audit rows, newest first.
func (e *Engine) GetRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]domain.PointTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return e.transactions.ListRecent(ctx, e.pool, userID, limit)
}

// ListActivities returns the active catalog of point-earning activities.
func (e *Engine) ListActivities(ctx context.Context) ([]domain.PointActivity, error) {
	return e.activities.ListActive(ctx, e.pool)
}

// ListAchievements returns the catalog visible to users; secret entries
// are excluded until earned.
func (e *Engine) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	return e.achievements.ListActive(ctx, e.pool, false)
}

// GetEarnedAchievements lists a user's unlocks.
func (e *Engine) GetEarnedAchievements(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	return e.achievements.ListEarned(ctx, e.pool, userID)
}

// GetAchievementProgress lists a user's progressive counters.
func (e *Engine) GetAchievementProgress(ctx context.Context, userID uuid.UUID) ([]domain.AchievementProgress, error) {
	return e.achievements.ListProgress(ctx, e.pool, userID)
}

// GetAchievementStats returns the per-user aggregate.
func (e *Engine) GetAchievementStats(ctx context.Context, userID uuid.UUID) (*domain.AchievementStats, error) {
	return e.achievements.GetStats(ctx, e.pool, userID)
}

// GetDashboard assembles the full gamification view in one call.
func (e *Engine) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	points, err := e.GetUserPoints(ctx, userID)
	if err != nil {
		return nil, err
	}
	level, err := levelProgress(ctx, e.pool, e.levels, points)
	if err != nil {
		return nil, err
	}
	streaks, err := e.GetUserStreaks(ctx, userID, domain.Today())
	if err != nil {
		return nil, err
	}
	badges, err := e.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := e.GetEarnedAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := e.GetAchievementStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := e.GetRecentTransactions(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Points:       points,
		Level:        level,
		Streaks:      streaks,
		Badges:       badges,
		Achievements: achievements,
		Stats:        stats,
		Transactions: txs,
	}, nil
}
