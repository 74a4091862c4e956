package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

func newGamificationEvent(userID uuid.UUID, eventType EventType, payload interface{}) OutboxDraft {
	body, _ := json.Marshal(payload)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateGamification,
		AggregateID:   userID.String(),
		EventType:     eventType,
		PartitionKey:  userID.String(),
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}

// NewPointsAwardedEvent records a point credit.
func NewPointsAwardedEvent(tx *PointTransaction, newTotal int64) OutboxDraft {
	return newGamificationEvent(tx.UserID, EventPointsAwarded, map[string]interface{}{
		"transaction_id": tx.ID,
		"user_id":        tx.UserID,
		"amount":         tx.Amount,
		"description":    tx.Description,
		"new_total":      newTotal,
	})
}

// NewLevelUpEvent records a level transition.
func NewLevelUpEvent(userID uuid.UUID, up LevelUp, totalPoints int64) OutboxDraft {
	return newGamificationEvent(userID, EventLevelUp, map[string]interface{}{
		"user_id":      userID,
		"old_level":    up.OldLevel,
		"new_level":    up.NewLevel,
		"total_points": totalPoints,
	})
}

// NewStreakMilestoneEvent records a one-time streak milestone award.
func NewStreakMilestoneEvent(userID uuid.UUID, m Milestone, streakDays int) OutboxDraft {
	return newGamificationEvent(userID, EventStreakMilestone, map[string]interface{}{
		"user_id":        userID,
		"milestone_id":   m.ID,
		"milestone_name": m.MilestoneName,
		"activity_type":  m.ActivityType,
		"streak_days":    streakDays,
		"reward_points":  m.RewardPoints,
	})
}

// NewBadgeEarnedEvent records a badge award.
func NewBadgeEarnedEvent(userID uuid.UUID, badge *Badge) OutboxDraft {
	return newGamificationEvent(userID, EventBadgeEarned, map[string]interface{}{
		"user_id":    userID,
		"badge_id":   badge.ID,
		"badge_name": badge.Name,
	})
}

// NewAchievementUnlockedEvent records an achievement unlock.
func NewAchievementUnlockedEvent(userID uuid.UUID, ach *Achievement, pointsEarned int64) OutboxDraft {
	return newGamificationEvent(userID, EventAchievementUnlocked, map[string]interface{}{
		"user_id":          userID,
		"achievement_id":   ach.ID,
		"achievement_name": ach.Name,
		"points_earned":    pointsEarned,
	})
}

// NewUserRegisteredEvent records a user signup.
func NewUserRegisteredEvent(userID uuid.UUID, email string) OutboxDraft {
	body, _ := json.Marshal(map[string]string{
		"user_id": userID.String(),
		"email":   email,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateUser,
		AggregateID:   userID.String(),
		EventType:     EventUserRegistered,
		PartitionKey:  userID.String(),
		Payload:       body,
		OccurredAt:    time.Now(),
	}
}
