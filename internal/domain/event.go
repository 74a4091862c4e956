package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventUserRegistered      EventType = "wellness.user.registered"
	EventPointsAwarded       EventType = "wellness.points.awarded"
	EventLevelUp             EventType = "wellness.level.up"
	EventStreakMilestone     EventType = "wellness.streak.milestone"
	EventBadgeEarned         EventType = "wellness.badge.earned"
	EventAchievementUnlocked EventType = "wellness.achievement.unlocked"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateUser         AggregateType = "user"
	AggregateGamification AggregateType = "gamification"
)

// OutboxDraft is the payload written to the event_outbox table inside the
// same transaction as the state change it describes.
type OutboxDraft struct {
	SeqID         int64           `json:"-"`
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
