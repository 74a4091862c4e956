package gamify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

// AwardPoints is the primary entry point: one activity performed by one
// user on one calendar day. The whole sequence — catalog lookup, point
// credit, level cascade, daily log, streak update, milestone check, badge
// evaluation, outbox events — runs in a single transaction; a failure
// anywhere rolls back everything.
//
// An unknown or inactive activity type returns the zero-value result with
// no error and no writes: callers fire-and-forget activity reports, and a
// stale client naming a retired activity is not an incident.
func (e *Engine) AwardPoints(ctx context.Context, userID uuid.UUID, activityType string, day domain.Date, metadata json.RawMessage) (*domain.AwardResult, error) {
	if err := domain.ValidateActivityType(activityType); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if day.IsZero() {
		day = domain.Today()
	}

	result := &domain.AwardResult{}

	err := e.withTx(ctx, func(tx pgx.Tx) error {
		activity, err := e.activities.FindByType(ctx, tx, activityType)
		if err != nil {
			return err
		}
		if activity == nil {
			e.logger.Warn("unknown activity type", "activity_type", activityType, "user_id", userID)
			return nil
		}

		outcome, err := e.credit(ctx, tx, userID, activity.PointsValue,
			activity.ActivityName, &activity.ID, metadata)
		if err != nil {
			return err
		}
		result.PointsEarned = activity.PointsValue
		result.NewTotal = outcome.Account.TotalPoints
		if outcome.LevelUp != nil {
			result.LevelUp = true
			newLevel := outcome.LevelUp.NewLevel
			result.NewLevel = &newLevel
		}

		if err := e.activities.UpsertDaily(ctx, tx, userID, activityType, day); err != nil {
			return err
		}

		streak, err := e.updateStreak(ctx, tx, userID, activityType, day)
		if err != nil {
			return err
		}
		result.StreakInfo = streak

		milestone, err := e.checkStreakMilestones(ctx, tx, userID, streak, result)
		if err != nil {
			return err
		}
		result.MilestoneAchieved = milestone

		return e.evaluateBadges(ctx, tx, userID, activityType, result)
	})
	if err != nil {
		return nil, err
	}

	e.logger.Info("points awarded",
		"user_id", userID,
		"activity_type", activityType,
		"points", result.PointsEarned,
		"new_total", result.NewTotal,
		"streak", streakDays(result.StreakInfo),
	)
	return result, nil
}

func streakDays(s *domain.Streak) int {
	if s == nil {
		return 0
	}
	return s.CurrentStreak
}
