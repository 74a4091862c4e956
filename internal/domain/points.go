package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PointActivity is a row from the point_activities catalog. Every primary
// award resolves its amount from here; awards never take a caller-supplied
// amount.
type PointActivity struct {
	ID           uuid.UUID `json:"id"`
	ActivityType string    `json:"activity_type"`
	ActivityName string    `json:"activity_name"`
	Description  string    `json:"description,omitempty"`
	PointsValue  int64     `json:"points_value"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// PointsAccount is a user's row in user_points. Totals are mutated only by
// server-side arithmetic, never by read-modify-write from Go.
type PointsAccount struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	TotalPoints       int64     `json:"total_points"`
	AvailablePoints   int64     `json:"available_points"`
	LifetimePoints    int64     `json:"lifetime_points"`
	CurrentLevel      int       `json:"current_level"`
	PointsToNextLevel int64     `json:"points_to_next_level"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TransactionType distinguishes credits from debits in the transaction log.
type TransactionType string

const (
	TxEarned TransactionType = "earned"
	TxSpent  TransactionType = "spent"
)

// PointTransaction is an append-only audit row. ActivityID is nil for
// bonus credits (streak milestones, achievement rewards) that have no
// catalog entry.
type PointTransaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	ActivityID  *uuid.UUID      `json:"activity_id,omitempty"`
	Amount      int64           `json:"amount"`
	Type        TransactionType `json:"transaction_type"`
	Description string          `json:"description"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Level is a row from the wellness_levels ladder.
type Level struct {
	ID             uuid.UUID `json:"id"`
	LevelNumber    int       `json:"level_number"`
	LevelName      string    `json:"level_name"`
	PointsRequired int64     `json:"points_required"`
	PerksUnlocked  []string  `json:"perks_unlocked,omitempty"`
	IconName       string    `json:"icon_name,omitempty"`
}

// LevelUp describes a level transition produced by the cascade.
type LevelUp struct {
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

// LevelProgress is the read-side view of a user's position on the ladder.
type LevelProgress struct {
	CurrentLevel    *Level  `json:"current_level"`
	NextLevel       *Level  `json:"next_level,omitempty"`
	TotalPoints     int64   `json:"total_points"`
	PointsToNext    int64   `json:"points_to_next"`
	ProgressPercent float64 `json:"progress_percent"`
}

// LevelAchievement records that a user reached a level, once.
type LevelAchievement struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	LevelNumber int       `json:"level_number"`
	AchievedAt  time.Time `json:"achieved_at"`
}

// MilestoneAward reports a streak milestone credited during an award.
type MilestoneAward struct {
	Milestone     *Milestone `json:"milestone"`
	PointsAwarded int64      `json:"points_awarded"`
	BadgeAwarded  *uuid.UUID `json:"badge_awarded,omitempty"`
}

// AwardResult is the outcome of a single AwardPoints call. An unknown or
// inactive activity type yields the zero value with no error.
type AwardResult struct {
	PointsEarned      int64           `json:"points_earned"`
	NewTotal          int64           `json:"new_total"`
	LevelUp           bool            `json:"level_up"`
	NewLevel          *int            `json:"new_level,omitempty"`
	BadgesEarned      []*Badge        `json:"badges_earned,omitempty"`
	StreakInfo        *Streak         `json:"streak_info,omitempty"`
	MilestoneAchieved *MilestoneAward `json:"milestone_achieved,omitempty"`
}
