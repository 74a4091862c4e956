package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/santulan/wellness/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// ActivityRepository provides access to the point_activities catalog and
// the daily_activities log.
type ActivityRepository interface {
	// FindByType returns the active catalog entry for an activity type,
	// or nil when none exists.
	FindByType(ctx context.Context, db DBTX, activityType string) (*domain.PointActivity, error)

	// ListActive returns the full active catalog.
	ListActive(ctx context.Context, db DBTX) ([]domain.PointActivity, error)

	// UpsertDaily records one activity on a calendar day, incrementing the
	// counter on repeats.
	UpsertDaily(ctx context.Context, db DBTX, userID uuid.UUID, activityType string, day domain.Date) error

	// CountsByUser returns per-activity-type totals from daily_activities.
	CountsByUser(ctx context.Context, db DBTX, userID uuid.UUID) (map[string]int, int, error)
}

// PointsRepository provides access to user_points.
type PointsRepository interface {
	// FindByUser returns a user's points account, or nil when absent.
	FindByUser(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.PointsAccount, error)

	// AddPoints atomically credits the account with server-side arithmetic,
	// creating the row on first touch. Returns the post-update account.
	AddPoints(ctx context.Context, db DBTX, userID uuid.UUID, amount int64) (*domain.PointsAccount, error)

	// SetLevel records the outcome of a level cascade.
	SetLevel(ctx context.Context, db DBTX, userID uuid.UUID, level int, pointsToNext int64) error
}

// TransactionRepository provides access to point_transactions.
type TransactionRepository interface {
	// Insert appends an audit row.
	Insert(ctx context.Context, db DBTX, tx *domain.PointTransaction) error

	// ListRecent returns a user's latest transactions, newest first.
	ListRecent(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.PointTransaction, error)
}

// StreakRepository provides access to user_streaks.
type StreakRepository interface {
	// LockForUpdate acquires a row lock on a user's streak for one activity
	// type, or returns nil when no row exists yet.
	LockForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, activityType string) (*domain.Streak, error)

	// TryCreate inserts a fresh streak row; reports false when a concurrent
	// transaction created the (user, activity) row first.
	TryCreate(ctx context.Context, db DBTX, s *domain.Streak) (bool, error)

	// Update rewrites the counters of a locked streak row.
	Update(ctx context.Context, db DBTX, s *domain.Streak) error

	// ListByUser returns all streak rows for a user.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Streak, error)
}

// MilestoneRepository provides access to streak_milestones and
// user_streak_achievements.
type MilestoneRepository interface {
	// FindByActivityAndDays returns the milestone for an exact streak
	// length, or nil when none is configured.
	FindByActivityAndDays(ctx context.Context, db DBTX, activityType string, days int) (*domain.Milestone, error)

	// List returns milestones, optionally filtered to one activity type.
	List(ctx context.Context, db DBTX, activityType string) ([]domain.Milestone, error)

	// InsertAchievement records the milestone award and the points it paid;
	// reports false when the user already holds it.
	InsertAchievement(ctx context.Context, db DBTX, userID, streakID, milestoneID uuid.UUID, pointsAwarded int64) (bool, error)

	// ListAchievements returns a user's milestone awards, newest first.
	ListAchievements(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.StreakAchievement, error)
}

// LevelRepository provides access to wellness_levels and
// user_level_achievements.
type LevelRepository interface {
	// LevelForPoints returns the highest level whose threshold is within
	// the given total.
	LevelForPoints(ctx context.Context, db DBTX, totalPoints int64) (*domain.Level, error)

	// FindByNumber returns one level, or nil when absent.
	FindByNumber(ctx context.Context, db DBTX, number int) (*domain.Level, error)

	// NextAfter returns the level that follows the given number, or nil at
	// the top of the ladder.
	NextAfter(ctx context.Context, db DBTX, number int) (*domain.Level, error)

	// ListAll returns the ladder in ascending order.
	ListAll(ctx context.Context, db DBTX) ([]domain.Level, error)

	// InsertAchievement records that a level was reached; reports false on
	// a repeat.
	InsertAchievement(ctx context.Context, db DBTX, userID uuid.UUID, levelNumber int) (bool, error)

	// ListAchievements returns a user's level achievements, newest first.
	ListAchievements(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.LevelAchievement, error)
}

// AchievementRepository provides access to achievements,
// user_achievements, user_achievement_progress and achievement_stats.
type AchievementRepository interface {
	// ListActive returns the active catalog; secret entries are included
	// only when includeSecret is set.
	ListActive(ctx context.Context, db DBTX, includeSecret bool) ([]domain.Achievement, error)

	// EarnedIDs returns the set of achievement IDs the user holds.
	EarnedIDs(ctx context.Context, db DBTX, userID uuid.UUID) (map[uuid.UUID]bool, error)

	// InsertUserAchievement awards an achievement; reports false when the
	// user already holds it.
	InsertUserAchievement(ctx context.Context, db DBTX, userID, achievementID uuid.UUID, pointsEarned int64) (bool, error)

	// ListEarned returns a user's unlocks, newest first.
	ListEarned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.UserAchievement, error)

	// IncrementProgress advances a progressive counter, clamped to max,
	// folding actionData into the progress record. Returns the post-update
	// progress row.
	IncrementProgress(ctx context.Context, db DBTX, userID, achievementID uuid.UUID, delta, maxProgress int, actionData []byte) (*domain.AchievementProgress, error)

	// ListProgress returns a user's progress rows.
	ListProgress(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.AchievementProgress, error)

	// RecomputeStats rebuilds the achievement_stats aggregate from the
	// user's unlocks.
	RecomputeStats(ctx context.Context, db DBTX, userID uuid.UUID) error

	// GetStats returns the aggregate row, or a zeroed one when absent.
	GetStats(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.AchievementStats, error)
}

// BadgeRepository provides access to karma_badges and user_badges.
type BadgeRepository interface {
	// ListActiveUnowned returns active badges the user has not earned.
	ListActiveUnowned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Badge, error)

	// FindByID returns one badge, or nil when absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Badge, error)

	// InsertUserBadge awards a badge; reports false when already owned.
	InsertUserBadge(ctx context.Context, db DBTX, userID, badgeID uuid.UUID) (bool, error)

	// ListOwned returns a user's badges with award timestamps.
	ListOwned(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.UserBadge, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the same transaction as the
	// state change it describes.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns pending events for the poller, oldest first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)

	// MarkPublished stamps events as delivered.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// AuthUserRepository provides access to auth_users.
type AuthUserRepository interface {
	// FindByEmail returns an auth user by email, or nil when absent.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error)

	// Create inserts a new auth user.
	Create(ctx context.Context, db DBTX, user *domain.AuthUser) error
}
