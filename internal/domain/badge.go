package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Badge is a row from the karma_badges catalog.
type Badge struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	IconName       string          `json:"icon_name,omitempty"`
	UnlockCriteria UnlockCriteria  `json:"-"`
	RawCriteria    json.RawMessage `json:"unlock_criteria,omitempty"`
	PointsRequired int64           `json:"points_required"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UserBadge records an awarded badge, once per user.
type UserBadge struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// UserStats is the point-in-time snapshot badge evaluation runs against.
// It is assembled inside the award transaction so every badge in one award
// sees the same state.
type UserStats struct {
	TotalPoints     int64          `json:"total_points"`
	LifetimePoints  int64          `json:"lifetime_points"`
	CurrentLevel    int            `json:"current_level"`
	ActivityCounts  map[string]int `json:"activity_counts"`
	TotalActivities int            `json:"total_activities"`
}
