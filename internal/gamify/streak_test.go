package gamify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santulan/wellness/internal/domain"
)

func date(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDecideStreak(t *testing.T) {
	userID := uuid.New()

	t.Run("consecutive days increment", func(t *testing.T) {
		s := NewStreak(userID, "meditation", date(t, "2025-09-18"))
		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 1, s.LongestStreak)

		changed := DecideStreak(s, date(t, "2025-09-19"))
		assert.True(t, changed)
		assert.Equal(t, 2, s.CurrentStreak)
		assert.Equal(t, 2, s.LongestStreak)

		changed = DecideStreak(s, date(t, "2025-09-20"))
		assert.True(t, changed)
		assert.Equal(t, 3, s.CurrentStreak)
		assert.Equal(t, 3, s.LongestStreak)
		assert.Equal(t, date(t, "2025-09-20"), s.LastActivityDate)
		assert.Equal(t, date(t, "2025-09-18"), s.StreakStartDate)
	})

	t.Run("same day is a no-op", func(t *testing.T) {
		s := NewStreak(userID, "meditation", date(t, "2025-09-18"))
		DecideStreak(s, date(t, "2025-09-19"))

		changed := DecideStreak(s, date(t, "2025-09-19"))
		assert.False(t, changed)
		assert.Equal(t, 2, s.CurrentStreak)

		// Repeats on one day never inflate the counter.
		for i := 0; i < 5; i++ {
			DecideStreak(s, date(t, "2025-09-19"))
		}
		assert.Equal(t, 2, s.CurrentStreak)
	})

	t.Run("gap resets to one, longest survives", func(t *testing.T) {
		s := NewStreak(userID, "journaling", date(t, "2025-09-01"))
		for _, day := range []string{"2025-09-02", "2025-09-03", "2025-09-04", "2025-09-05"} {
			DecideStreak(s, date(t, day))
		}
		require.Equal(t, 5, s.CurrentStreak)
		require.Equal(t, 5, s.LongestStreak)

		changed := DecideStreak(s, date(t, "2025-09-08"))
		assert.True(t, changed)
		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 5, s.LongestStreak)
		assert.Equal(t, date(t, "2025-09-08"), s.StreakStartDate)
	})

	t.Run("current never exceeds longest", func(t *testing.T) {
		s := NewStreak(userID, "mood_checkin", date(t, "2025-01-01"))
		days := []string{
			"2025-01-02", "2025-01-03", // run of 3
			"2025-01-10",               // reset
			"2025-01-11", "2025-01-12", "2025-01-13", "2025-01-14", // run of 5
			"2025-02-01", // reset
		}
		for _, day := range days {
			DecideStreak(s, date(t, day))
			assert.LessOrEqual(t, s.CurrentStreak, s.LongestStreak)
			assert.GreaterOrEqual(t, s.CurrentStreak, 1)
		}
		assert.Equal(t, 1, s.CurrentStreak)
		assert.Equal(t, 5, s.LongestStreak)
	})

	t.Run("month boundary is consecutive", func(t *testing.T) {
		s := NewStreak(userID, "meditation", date(t, "2025-08-31"))
		DecideStreak(s, date(t, "2025-09-01"))
		assert.Equal(t, 2, s.CurrentStreak)
	})
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, float64(0), progressPercent(100, 100, 300))
	assert.Equal(t, float64(50), progressPercent(200, 100, 300))
	assert.Equal(t, float64(100), progressPercent(300, 100, 300))
	// degenerate ladder rows clamp rather than divide by zero
	assert.Equal(t, float64(100), progressPercent(500, 300, 300))
}
