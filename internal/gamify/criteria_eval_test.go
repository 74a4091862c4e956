package gamify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/santulan/wellness/internal/domain"
)

func testSnapshot() *snapshot {
	return &snapshot{
		Stats: &domain.UserStats{
			TotalPoints:    450,
			LifetimePoints: 600,
			CurrentLevel:   3,
			ActivityCounts: map[string]int{
				"mood_checkin": 12,
				"meditation":   4,
			},
			TotalActivities: 16,
		},
		Streaks: map[string]*domain.Streak{
			"meditation": {ActivityType: "meditation", CurrentStreak: 7, LongestStreak: 9},
		},
	}
}

func TestCriteriaMet(t *testing.T) {
	snap := testSnapshot()

	cases := []struct {
		name       string
		criteria   domain.UnlockCriteria
		actionType string
		want       bool
	}{
		{"activity count reached", &domain.ActivityCriteria{Action: "mood_checkin", Count: 10}, "mood_checkin", true},
		{"activity count short", &domain.ActivityCriteria{Action: "meditation", Count: 5}, "meditation", false},
		{"activity not the action performed", &domain.ActivityCriteria{Action: "mood_checkin", Count: 10}, "meditation", false},
		{"activity never performed", &domain.ActivityCriteria{Action: "gratitude_entry", Count: 1}, "gratitude_entry", false},
		{"streak reached", &domain.StreakCriteria{Activity: "meditation", Days: 7}, "meditation", true},
		{"streak reached via other action", &domain.StreakCriteria{Activity: "meditation", Days: 7}, "mood_checkin", true},
		{"streak short", &domain.StreakCriteria{Activity: "meditation", Days: 8}, "meditation", false},
		{"streak missing activity", &domain.StreakCriteria{Activity: "journaling", Days: 1}, "journaling", false},
		{"points threshold uses lifetime", &domain.PointsCriteria{Minimum: 600}, "meditation", true},
		{"points threshold above lifetime", &domain.PointsCriteria{Minimum: 601}, "meditation", false},
		{"points earned", &domain.PointsEarnedCriteria{Amount: 500}, "meditation", true},
		{"level reached", &domain.LevelReachedCriteria{Level: 3}, "meditation", true},
		{"level not reached", &domain.LevelReachedCriteria{Level: 4}, "meditation", false},
		{"activity_count variant", &domain.ActivityCountCriteria{Activity: "meditation", Count: 4}, "mood_checkin", true},
		{"total activities", &domain.TotalActivitiesCriteria{Count: 16}, "meditation", true},
		{"total activities short", &domain.TotalActivitiesCriteria{Count: 17}, "meditation", false},
		{"first activity", &domain.FirstActivityCriteria{Count: 1}, "meditation", true},
		{"community always unmet", &domain.CommunityCriteria{}, "meditation", false},
		{"learning always unmet", &domain.LearningCriteria{}, "meditation", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, criteriaMet(tc.criteria, snap, tc.actionType))
		})
	}
}

func TestCriteriaMetOrderIndependent(t *testing.T) {
	snap := testSnapshot()
	all := []domain.UnlockCriteria{
		&domain.ActivityCriteria{Action: "mood_checkin", Count: 10},
		&domain.StreakCriteria{Activity: "meditation", Days: 7},
		&domain.PointsCriteria{Minimum: 600},
	}

	// Evaluating in any order against one snapshot yields the same verdicts.
	forward := make([]bool, len(all))
	for i, c := range all {
		forward[i] = criteriaMet(c, snap, "mood_checkin")
	}
	for i := len(all) - 1; i >= 0; i-- {
		assert.Equal(t, forward[i], criteriaMet(all[i], snap, "mood_checkin"))
	}
}

func TestProgressCounts(t *testing.T) {
	cases := []struct {
		name       string
		criteria   domain.UnlockCriteria
		actionType string
		want       bool
	}{
		{"activity matches", &domain.ActivityCriteria{Action: "journaling", Count: 50}, "journaling", true},
		{"activity mismatch", &domain.ActivityCriteria{Action: "journaling", Count: 50}, "mood_checkin", false},
		{"activity_count matches", &domain.ActivityCountCriteria{Activity: "breathing", Count: 25}, "breathing", true},
		{"activity_count mismatch", &domain.ActivityCountCriteria{Activity: "breathing", Count: 25}, "meditation", false},
		{"streak matches", &domain.StreakCriteria{Activity: "meditation", Days: 30}, "meditation", true},
		{"streak mismatch", &domain.StreakCriteria{Activity: "meditation", Days: 30}, "sleep_log", false},
		{"aggregate counts any action", &domain.TotalActivitiesCriteria{Count: 100}, "water_intake", true},
		{"community never counts", &domain.CommunityCriteria{}, "meditation", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, progressCounts(tc.criteria, tc.actionType))
		})
	}
}
