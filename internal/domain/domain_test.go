package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Date ---

func TestDateArithmetic(t *testing.T) {
	d, err := ParseDate("2025-09-18")
	require.NoError(t, err)

	assert.Equal(t, "2025-09-18", d.String())
	assert.Equal(t, "2025-09-19", d.AddDays(1).String())
	assert.Equal(t, "2025-09-17", d.AddDays(-1).String())
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.AddDays(1).Before(d))
}

func TestDateMonthBoundary(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.AddDays(1).String())

	leap, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", leap.AddDays(1).String())
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	early := time.Date(2025, 9, 18, 0, 1, 0, 0, time.UTC)
	late := time.Date(2025, 9, 18, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, DateOf(early), DateOf(late))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-12-31")
	require.NoError(t, err)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-12-31"`, string(raw))

	var back Date
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, d, back)
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}

// --- Streak status ---

func TestStreakStatusOn(t *testing.T) {
	today, _ := ParseDate("2025-09-20")

	s := &Streak{LastActivityDate: today}
	assert.Equal(t, StreakStatusActive, s.StatusOn(today))

	s.LastActivityDate = today.AddDays(-1)
	assert.Equal(t, StreakStatusAtRisk, s.StatusOn(today))

	s.LastActivityDate = today.AddDays(-2)
	assert.Equal(t, StreakStatusBroken, s.StatusOn(today))
}

// --- Unlock criteria ---

func TestParseUnlockCriteria(t *testing.T) {
	t.Run("activity", func(t *testing.T) {
		c, err := ParseUnlockCriteria(json.RawMessage(`{"type":"activity","action":"mood_checkin","count":1}`))
		require.NoError(t, err)
		ac, ok := c.(*ActivityCriteria)
		require.True(t, ok)
		assert.Equal(t, "mood_checkin", ac.Action)
		assert.Equal(t, 1, ac.Count)
	})

	t.Run("streak", func(t *testing.T) {
		c, err := ParseUnlockCriteria(json.RawMessage(`{"type":"streak","activity":"meditation","days":7}`))
		require.NoError(t, err)
		sc, ok := c.(*StreakCriteria)
		require.True(t, ok)
		assert.Equal(t, "meditation", sc.Activity)
		assert.Equal(t, 7, sc.Days)
	})

	t.Run("points_earned", func(t *testing.T) {
		c, err := ParseUnlockCriteria(json.RawMessage(`{"type":"points_earned","amount":100}`))
		require.NoError(t, err)
		pc, ok := c.(*PointsEarnedCriteria)
		require.True(t, ok)
		assert.Equal(t, int64(100), pc.Amount)
	})

	t.Run("unknown type is an error", func(t *testing.T) {
		_, err := ParseUnlockCriteria(json.RawMessage(`{"type":"zodiac_sign"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "zodiac_sign")
	})

	t.Run("empty is an error", func(t *testing.T) {
		_, err := ParseUnlockCriteria(nil)
		assert.Error(t, err)
	})
}

func TestMarshalUnlockCriteriaRoundTrip(t *testing.T) {
	variants := []UnlockCriteria{
		&ActivityCriteria{Action: "gratitude_entry", Count: 3},
		&StreakCriteria{Activity: "meditation", Days: 21},
		&PointsCriteria{Minimum: 500},
		&PointsEarnedCriteria{Amount: 100},
		&LevelReachedCriteria{Level: 5},
		&ActivityCountCriteria{Activity: "mood_checkin", Count: 30},
		&TotalActivitiesCriteria{Count: 50},
		&FirstActivityCriteria{Count: 1},
		&CommunityCriteria{},
		&LearningCriteria{},
	}

	for _, v := range variants {
		t.Run(v.CriteriaType(), func(t *testing.T) {
			raw, err := MarshalUnlockCriteria(v)
			require.NoError(t, err)

			back, err := ParseUnlockCriteria(raw)
			require.NoError(t, err)
			assert.Equal(t, v.CriteriaType(), back.CriteriaType())
		})
	}
}

// --- Achievement bonus ---

func TestAchievementBonusPoints(t *testing.T) {
	t.Run("multiplier floors to integer", func(t *testing.T) {
		a := &Achievement{PointsReward: 100, BonusMultiplier: 1.5}
		assert.Equal(t, int64(150), a.BonusPoints())

		a = &Achievement{PointsReward: 33, BonusMultiplier: 1.5}
		assert.Equal(t, int64(49), a.BonusPoints()) // 49.5 floored
	})

	t.Run("zero multiplier counts as one", func(t *testing.T) {
		a := &Achievement{PointsReward: 75}
		assert.Equal(t, int64(75), a.BonusPoints())
	})
}

// --- Validators ---

func TestValidateActivityType(t *testing.T) {
	assert.NoError(t, ValidateActivityType("mood_checkin"))
	assert.NoError(t, ValidateActivityType("meditation"))
	assert.Error(t, ValidateActivityType(""))
	assert.Error(t, ValidateActivityType("Mood Checkin"))
	assert.Error(t, ValidateActivityType("drop;table"))
}

func TestValidatePositiveAmount(t *testing.T) {
	assert.NoError(t, ValidatePositiveAmount(1))
	assert.Error(t, ValidatePositiveAmount(0))
	assert.Error(t, ValidatePositiveAmount(-10))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
}

// --- AppError ---

func TestAppErrorFormatting(t *testing.T) {
	err := ErrNotFound("badge", "b1")
	assert.Equal(t, 404, err.Status)
	assert.Contains(t, err.Error(), "badge b1 not found")

	wrapped := ErrInternal("query failed", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
}
