package domain

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
)

// Achievement is a row from the achievements catalog.
type Achievement struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Tier            string          `json:"tier,omitempty"`
	IconName        string          `json:"icon_name,omitempty"`
	UnlockCriteria  UnlockCriteria  `json:"-"`
	RawCriteria     json.RawMessage `json:"unlock_criteria,omitempty"`
	MinimumPoints   int64           `json:"minimum_points"`
	MinimumLevel    int             `json:"minimum_level"`
	PointsReward    int64           `json:"points_reward"`
	BonusMultiplier float64         `json:"bonus_multiplier"`
	IsSecret        bool            `json:"is_secret"`
	IsProgressive   bool            `json:"is_progressive"`
	MaxProgress     int             `json:"max_progress"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// BonusPoints is the credit paid on unlock: points_reward scaled by the
// bonus multiplier and floored to a whole point. A zero multiplier means
// no multiplier was configured and counts as 1.
func (a *Achievement) BonusPoints() int64 {
	mult := a.BonusMultiplier
	if mult == 0 {
		mult = 1
	}
	return int64(math.Floor(float64(a.PointsReward) * mult))
}

// UserAchievement records an unlocked achievement, once per user.
type UserAchievement struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	PointsEarned  int64     `json:"points_earned"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// AchievementProgress tracks a user's progress toward a progressive
// achievement. CurrentProgress is monotone and clamped to MaxProgress;
// ProgressData accumulates the action payloads that advanced it.
type AchievementProgress struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	AchievementID   uuid.UUID       `json:"achievement_id"`
	CurrentProgress int             `json:"current_progress"`
	MaxProgress     int             `json:"max_progress"`
	ProgressData    json.RawMessage `json:"progress_data,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// AchievementStats is the per-user aggregate kept in achievement_stats.
type AchievementStats struct {
	UserID            uuid.UUID  `json:"user_id"`
	TotalAchievements int        `json:"total_achievements"`
	TotalPointsEarned int64      `json:"total_points_earned"`
	BronzeCount       int        `json:"bronze_count"`
	SilverCount       int        `json:"silver_count"`
	GoldCount         int        `json:"gold_count"`
	PlatinumCount     int        `json:"platinum_count"`
	LatestUnlockAt    *time.Time `json:"latest_unlock_at,omitempty"`
}
