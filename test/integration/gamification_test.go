//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/test/integration/testutil"
)

type awardResponse struct {
	PointsEarned int64 `json:"points_earned"`
	NewTotal     int64 `json:"new_total"`
	LevelUp      bool  `json:"level_up"`
	NewLevel     *int  `json:"new_level"`
	StreakInfo   *struct {
		CurrentStreak int `json:"current_streak"`
		LongestStreak int `json:"longest_streak"`
	} `json:"streak_info"`
	MilestoneAchieved *struct {
		PointsAwarded int64 `json:"points_awarded"`
	} `json:"milestone_achieved"`
}

func award(t *testing.T, env *testutil.TestEnv, token, activityType, date string) awardResponse {
	t.Helper()
	body := map[string]string{"activity_type": activityType}
	if date != "" {
		body["date"] = date
	}
	resp := env.POST("/gamification/activities", body, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result awardResponse
	env.DecodeJSON(resp, &result)
	return result
}

func TestAwardPoints_CreditsCatalogValue(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("award@test.com")

	result := award(t, env, token, "meditation", "2025-09-18")
	assert.Equal(t, int64(20), result.PointsEarned)
	assert.Equal(t, int64(20), result.NewTotal)
	require.NotNil(t, result.StreakInfo)
	assert.Equal(t, 1, result.StreakInfo.CurrentStreak)

	// After the award, the achievement pass pays the 25-point
	// first-activity bonus in its own transaction.
	var total, lifetime int64
	err := env.Pool.QueryRow(context.Background(),
		"SELECT total_points, lifetime_points FROM user_points WHERE user_id = $1", userID).
		Scan(&total, &lifetime)
	require.NoError(t, err)
	assert.Equal(t, int64(45), total)
	assert.Equal(t, int64(45), lifetime)
}

func TestAwardPoints_UnknownActivityIsZeroResult(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("unknown@test.com")

	result := award(t, env, token, "underwater_basket_weaving", "2025-09-18")
	assert.Equal(t, int64(0), result.PointsEarned)
	assert.Equal(t, int64(0), result.NewTotal)
	assert.Nil(t, result.StreakInfo)

	// no writes at all
	var count int
	err := env.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM point_transactions WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestAwardPoints_InvalidActivityTypeRejected(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterUser("invalid@test.com")

	resp := env.POST("/gamification/activities", map[string]string{
		"activity_type": "DROP TABLE;",
	}, token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreak_SameDayRepeatsDoNotInflate(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterUser("sameday@test.com")

	award(t, env, token, "mood_checkin", "2025-09-18")
	result := award(t, env, token, "mood_checkin", "2025-09-18")

	assert.Equal(t, 1, result.StreakInfo.CurrentStreak)
	// points still accrue per activity: 10 + 25 first-activity bonus + 10
	assert.Equal(t, int64(45), result.NewTotal)
}

func TestStreak_ConsecutiveDaysAndReset(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterUser("streak@test.com")

	award(t, env, token, "journaling", "2025-09-18")
	r := award(t, env, token, "journaling", "2025-09-19")
	assert.Equal(t, 2, r.StreakInfo.CurrentStreak)

	r = award(t, env, token, "journaling", "2025-09-20")
	assert.Equal(t, 3, r.StreakInfo.CurrentStreak)
	assert.Equal(t, 3, r.StreakInfo.LongestStreak)

	// two-day gap resets current, longest survives
	r = award(t, env, token, "journaling", "2025-09-23")
	assert.Equal(t, 1, r.StreakInfo.CurrentStreak)
	assert.Equal(t, 3, r.StreakInfo.LongestStreak)
}

func TestStreakMilestone_PaidExactlyOnce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("milestone@test.com")

	var r awardResponse
	for day := 16; day <= 18; day++ {
		r = award(t, env, token, "meditation", fmt.Sprintf("2025-09-%02d", day))
	}

	// day 3 hits the three-day meditation milestone: 3x20, the 25-point
	// first-activity achievement bonus from day 1, plus the 25 reward
	require.NotNil(t, r.MilestoneAchieved)
	assert.Equal(t, int64(25), r.MilestoneAchieved.PointsAwarded)
	assert.Equal(t, int64(110), r.NewTotal)

	var count int
	var recorded int64
	err := env.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*), COALESCE(MAX(points_awarded), 0) FROM user_streak_achievements WHERE user_id = $1", userID).
		Scan(&count, &recorded)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, int64(25), recorded)
}

func TestSevenDayStreak_AwardsMilestoneBadge(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("badge@test.com")

	for day := 10; day <= 16; day++ {
		award(t, env, token, "meditation", fmt.Sprintf("2025-09-%02d", day))
	}

	var badgeCount int
	err := env.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM user_badges ub
		JOIN karma_badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1 AND b.name = 'Week of Calm'`, userID).Scan(&badgeCount)
	require.NoError(t, err)
	assert.Equal(t, 1, badgeCount)
}

func TestFirstActivity_UnlocksAchievementWithBonus(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("first@test.com")

	award(t, env, token, "mood_checkin", "2025-09-18")

	var bonus int64
	err := env.Pool.QueryRow(context.Background(), `
		SELECT ua.points_earned FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 AND a.name = 'Hello, Wellness'`, userID).Scan(&bonus)
	require.NoError(t, err)
	assert.Equal(t, int64(25), bonus)

	// the bonus credit landed on the account too
	var total int64
	err = env.Pool.QueryRow(context.Background(),
		"SELECT total_points FROM user_points WHERE user_id = $1", userID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, int64(35), total)
}

func TestLevelUp_RecordedOnce(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("level@test.com")

	// 10 meditations across distinct days clears the 100-point threshold
	// (20 each, plus milestone and achievement bonuses along the way).
	for day := 1; day <= 10; day++ {
		award(t, env, token, "meditation", fmt.Sprintf("2025-09-%02d", day))
	}

	var level int
	err := env.Pool.QueryRow(context.Background(),
		"SELECT current_level FROM user_points WHERE user_id = $1", userID).Scan(&level)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, level, 2)

	var dup int
	err = env.Pool.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM (
			SELECT level_number FROM user_level_achievements
			WHERE user_id = $1 GROUP BY level_number HAVING COUNT(*) > 1
		) d`, userID).Scan(&dup)
	require.NoError(t, err)
	assert.Equal(t, 0, dup)
}

func TestConcurrentAwards_OneStreakManyTransactions(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("race@test.com")

	const n = 8
	body, err := json.Marshal(map[string]string{
		"activity_type": "water_intake",
		"date":          "2025-09-18",
	})
	require.NoError(t, err)

	statuses := make(chan int, n)
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := http.NewRequest("POST", env.Server.URL+"/gamification/activities", bytes.NewReader(body))
			if err != nil {
				errs <- err
				return
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := env.Server.Client().Do(req)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent award: %v", err)
	}
	for status := range statuses {
		assert.Equal(t, http.StatusOK, status)
	}

	// one streak row at 1, never inflated by the race
	var current, longest int
	err = env.Pool.QueryRow(context.Background(),
		"SELECT current_streak, longest_streak FROM user_streaks WHERE user_id = $1 AND activity_type = 'water_intake'",
		userID).Scan(&current, &longest)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)

	// every award produced its own audit row
	var txCount int
	err = env.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM point_transactions WHERE user_id = $1 AND activity_id IS NOT NULL", userID).
		Scan(&txCount)
	require.NoError(t, err)
	assert.Equal(t, n, txCount)
}

func TestOutbox_EventsWrittenWithAward(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, userID := env.RegisterUser("outbox@test.com")

	award(t, env, token, "meditation", "2025-09-18")

	var count int
	err := env.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM event_outbox WHERE aggregate_id = $1 AND event_type = $2",
		userID.String(), string(domain.EventPointsAwarded)).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDashboard_AggregatesState(t *testing.T) {
	env := testutil.NewTestEnv(t)
	token, _ := env.RegisterUser("dashboard@test.com")

	award(t, env, token, "meditation", "2025-09-18")

	resp := env.GET("/gamification/dashboard", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dash struct {
		Points *struct {
			TotalPoints int64 `json:"total_points"`
		} `json:"points"`
		Level *struct {
			ProgressPercent float64 `json:"progress_percent"`
		} `json:"level"`
		Streaks []struct {
			Status string `json:"status"`
		} `json:"streaks"`
	}
	env.DecodeJSON(resp, &dash)
	require.NotNil(t, dash.Points)
	assert.Greater(t, dash.Points.TotalPoints, int64(0))
	require.NotNil(t, dash.Level)
	require.Len(t, dash.Streaks, 1)
}

func TestGamification_RequiresAuth(t *testing.T) {
	env := testutil.NewTestEnv(t)

	resp := env.GET("/gamification/points", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
