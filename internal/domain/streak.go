package domain

import (
	"time"

	"github.com/google/uuid"
)

// Streak is a user's consecutive-day counter for one activity type.
// Invariant: CurrentStreak <= LongestStreak, and CurrentStreak is never
// reset below 1 once the streak row exists.
type Streak struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	ActivityType     string    `json:"activity_type"`
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	LastActivityDate Date      `json:"last_activity_date"`
	StreakStartDate  Date      `json:"streak_start_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StreakStatus classifies a streak relative to a reference date on reads.
type StreakStatus string

const (
	// StreakStatusActive means the activity was performed today.
	StreakStatusActive StreakStatus = "active"
	// StreakStatusAtRisk means the last activity was yesterday; the streak
	// survives only if the user acts today.
	StreakStatusAtRisk StreakStatus = "at_risk"
	// StreakStatusBroken means the gap is two days or more; the next
	// activity resets the counter to 1.
	StreakStatusBroken StreakStatus = "broken"
)

// StatusOn classifies the streak relative to the given date.
func (s *Streak) StatusOn(today Date) StreakStatus {
	switch s.LastActivityDate.DaysUntil(today) {
	case 0:
		return StreakStatusActive
	case 1:
		return StreakStatusAtRisk
	default:
		return StreakStatusBroken
	}
}

// StreakView is a streak decorated with its status for API responses.
type StreakView struct {
	Streak
	Status StreakStatus `json:"status"`
}

// Milestone is a row from streak_milestones: reaching MilestoneDays
// consecutive days of ActivityType pays RewardPoints once, and optionally
// awards a badge.
type Milestone struct {
	ID            uuid.UUID  `json:"id"`
	ActivityType  string     `json:"activity_type"`
	MilestoneDays int        `json:"milestone_days"`
	MilestoneName string     `json:"milestone_name"`
	Description   string     `json:"description,omitempty"`
	RewardPoints  int64      `json:"reward_points"`
	BadgeID       *uuid.UUID `json:"badge_id,omitempty"`
}

// StreakAchievement records that a user hit a milestone on a streak, once,
// and the points that award paid.
type StreakAchievement struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	StreakID      uuid.UUID `json:"streak_id"`
	MilestoneID   uuid.UUID `json:"milestone_id"`
	PointsAwarded int64     `json:"points_awarded"`
	AchievedAt    time.Time `json:"achieved_at"`
}

// DailyActivity is a row in daily_activities; unique per
// (user_id, activity_type, activity_date), count incremented on repeats.
type DailyActivity struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	ActivityType  string    `json:"activity_type"`
	ActivityDate  Date      `json:"activity_date"`
	ActivityCount int       `json:"activity_count"`
}
