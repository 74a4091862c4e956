package gamify

import (
	"context"

	"github.com/google/uuid"

	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/internal/repository"
)

// snapshot is the state criteria evaluation runs against. It is assembled
// once per evaluation inside the owning transaction, so every criterion in
// one pass sees identical state and evaluation order cannot matter.
type snapshot struct {
	Stats   *domain.UserStats
	Streaks map[string]*domain.Streak
}

func (e *Engine) loadSnapshot(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*snapshot, error) {
	account, err := e.points.FindByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.UserStats{ActivityCounts: map[string]int{}, CurrentLevel: 1}
	if account != nil {
		stats.TotalPoints = account.TotalPoints
		stats.LifetimePoints = account.LifetimePoints
		stats.CurrentLevel = account.CurrentLevel
	}

	counts, total, err := e.activities.CountsByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	stats.ActivityCounts = counts
	stats.TotalActivities = total

	streaks, err := e.streaks.ListByUser(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*domain.Streak, len(streaks))
	for i := range streaks {
		byType[streaks[i].ActivityType] = &streaks[i]
	}

	return &snapshot{Stats: stats, Streaks: byType}, nil
}

// criteriaMet dispatches on the criteria variant. actionType is the
// activity the user just performed: activity criteria require it to match,
// so a pass triggered by one activity can never satisfy an achievement
// attributed to another. Community and learning criteria are recognized
// but always unmet until those features report actions to the engine.
func criteriaMet(c domain.UnlockCriteria, snap *snapshot, actionType string) bool {
	switch v := c.(type) {
	case *domain.ActivityCriteria:
		return v.Action == actionType && snap.Stats.ActivityCounts[v.Action] >= v.Count
	case *domain.StreakCriteria:
		s, ok := snap.Streaks[v.Activity]
		return ok && s.CurrentStreak >= v.Days
	case *domain.PointsCriteria:
		return snap.Stats.LifetimePoints >= v.Minimum
	case *domain.PointsEarnedCriteria:
		return snap.Stats.LifetimePoints >= v.Amount
	case *domain.LevelReachedCriteria:
		return snap.Stats.CurrentLevel >= v.Level
	case *domain.ActivityCountCriteria:
		return snap.Stats.ActivityCounts[v.Activity] >= v.Count
	case *domain.TotalActivitiesCriteria:
		return snap.Stats.TotalActivities >= v.Count
	case *domain.FirstActivityCriteria:
		return snap.Stats.TotalActivities >= v.Count
	default:
		return false
	}
}

// progressCounts reports whether the just-performed action advances a
// progressive achievement's counter. Criteria tied to one activity only
// move on that activity; aggregate criteria move on any action.
func progressCounts(c domain.UnlockCriteria, actionType string) bool {
	switch v := c.(type) {
	case *domain.ActivityCriteria:
		return v.Action == actionType
	case *domain.ActivityCountCriteria:
		return v.Activity == actionType
	case *domain.StreakCriteria:
		return v.Activity == actionType
	case *domain.CommunityCriteria, *domain.LearningCriteria:
		return false
	default:
		return true
	}
}
