package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/santulan/wellness/internal/auth"
	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/internal/gamify"
	"github.com/santulan/wellness/internal/guard"
)

// GamificationHandler exposes the engine over HTTP. All routes operate on
// the authenticated user; there is no path parameter to award points to
// somebody else.
type GamificationHandler struct {
	engine  *gamify.Engine
	limiter *guard.RateLimiter
}

// NewGamificationHandler creates a GamificationHandler.
func NewGamificationHandler(engine *gamify.Engine, limiter *guard.RateLimiter) *GamificationHandler {
	return &GamificationHandler{engine: engine, limiter: limiter}
}

type awardRequest struct {
	ActivityType string          `json:"activity_type"`
	Date         string          `json:"date,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// AwardPoints handles POST /gamification/activities.
func (h *GamificationHandler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	if res := h.limiter.Check(r.Context(), userID.String()); !res.Allowed {
		RespondError(w, domain.ErrRateLimited(res.Reason))
		return
	}

	var req awardRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	var day domain.Date
	if req.Date != "" {
		parsed, err := domain.ParseDate(req.Date)
		if err != nil {
			RespondError(w, domain.ErrValidation("date must be YYYY-MM-DD"))
			return
		}
		day = parsed
	}

	result, err := h.engine.AwardPoints(r.Context(), userID, req.ActivityType, day, req.Metadata)
	if err != nil {
		RespondError(w, err)
		return
	}

	// Achievements evaluate in their own transaction after the award.
	if _, err := h.engine.CheckAchievementProgress(r.Context(), userID, req.ActivityType, req.Metadata); err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}

func (h *GamificationHandler) GetPoints(w http.ResponseWriter, r *http.Request) {
	account, err := h.engine.GetUserPoints(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, account)
}

func (h *GamificationHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	txs, err := h.engine.GetRecentTransactions(r.Context(), auth.UserIDFromContext(r.Context()), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, txs)
}

func (h *GamificationHandler) GetStreaks(w http.ResponseWriter, r *http.Request) {
	views, err := h.engine.GetUserStreaks(r.Context(), auth.UserIDFromContext(r.Context()), domain.Today())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, views)
}

func (h *GamificationHandler) GetStreakMilestones(w http.ResponseWriter, r *http.Request) {
	milestones, err := h.engine.GetStreakMilestones(r.Context(), r.URL.Query().Get("activity_type"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, milestones)
}

func (h *GamificationHandler) GetStreakAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.engine.GetStreakAchievements(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, achievements)
}

func (h *GamificationHandler) GetLevel(w http.ResponseWriter, r *http.Request) {
	progress, err := h.engine.GetUserLevel(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, progress)
}

func (h *GamificationHandler) ListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.engine.ListLevels(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, levels)
}

func (h *GamificationHandler) GetLevelAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := h.engine.GetLevelAchievements(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, achievements)
}

func (h *GamificationHandler) GetBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.engine.GetUserBadges(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, badges)
}

func (h *GamificationHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.engine.ListActivities(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, activities)
}

func (h *GamificationHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.engine.ListAchievements(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, catalog)
}

func (h *GamificationHandler) GetEarnedAchievements(w http.ResponseWriter, r *http.Request) {
	earned, err := h.engine.GetEarnedAchievements(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, earned)
}

func (h *GamificationHandler) GetAchievementProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.engine.GetAchievementProgress(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, progress)
}

func (h *GamificationHandler) GetAchievementStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.GetAchievementStats(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, stats)
}

func (h *GamificationHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.engine.GetDashboard(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, dashboard)
}
