package gamify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

// DecideStreak applies one activity date to a streak and reports whether
// the row changed. The decision is calendar-day arithmetic only:
//
//   - same day as the last activity: no change (repeat activities on one
//     day never inflate the counter)
//   - exactly the next day: counter increments, longest trails it
//   - any larger gap: counter resets to 1 and the streak restarts
//
// The longest counter is never reduced.
func DecideStreak(s *domain.Streak, day domain.Date) bool {
	switch s.LastActivityDate.DaysUntil(day) {
	case 0:
		return false
	case 1:
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestStreak {
			s.LongestStreak = s.CurrentStreak
		}
	default:
		s.CurrentStreak = 1
		s.StreakStartDate = day
	}
	s.LastActivityDate = day
	return true
}

// NewStreak is the day-one row: both counters at 1.
func NewStreak(userID uuid.UUID, activityType string, day domain.Date) *domain.Streak {
	return &domain.Streak{
		ID:               uuid.New(),
		UserID:           userID,
		ActivityType:     activityType,
		CurrentStreak:    1,
		LongestStreak:    1,
		LastActivityDate: day,
		StreakStartDate:  day,
	}
}

// updateStreak locks the streak row for the rest of the transaction, so
// two concurrent awards for the same (user, activity) serialize here and
// the second one sees the first one's write. When no row exists yet the
// insert itself can race; the loser re-locks the winner's row and applies
// the day to it, so N concurrent first awards still yield one streak of 1.
func (e *Engine) updateStreak(ctx context.Context, tx pgx.Tx, userID uuid.UUID, activityType string, day domain.Date) (*domain.Streak, error) {
	s, err := e.streaks.LockForUpdate(ctx, tx, userID, activityType)
	if err != nil {
		return nil, err
	}

	if s == nil {
		fresh := NewStreak(userID, activityType, day)
		created, err := e.streaks.TryCreate(ctx, tx, fresh)
		if err != nil {
			return nil, err
		}
		if created {
			return fresh, nil
		}
		s, err = e.streaks.LockForUpdate(ctx, tx, userID, activityType)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, fmt.Errorf("streak row for user %s activity %s lost after insert conflict", userID, activityType)
		}
	}

	if DecideStreak(s, day) {
		if err := e.streaks.Update(ctx, tx, s); err != nil {
			return nil, err
		}
	}
	return s, nil
}
