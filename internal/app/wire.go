package app

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/santulan/wellness/internal/auth"
	"github.com/santulan/wellness/internal/gamify"
	"github.com/santulan/wellness/internal/guard"
	"github.com/santulan/wellness/internal/handler"
	"github.com/santulan/wellness/internal/service"
)

// RouterDeps holds all dependencies needed by NewRouter.
type RouterDeps struct {
	Pool       *pgxpool.Pool
	JWTMgr     *auth.JWTManager
	Logger     *slog.Logger
	CORSOrigin string
}

// NewRouter assembles the chi.Router with all routes and middleware.
func NewRouter(deps RouterDeps) chi.Router {
	pool := deps.Pool
	jwtMgr := deps.JWTMgr
	logger := deps.Logger

	engine := gamify.NewEngine(pool, logger)
	authSvc := service.NewAuthService(pool, jwtMgr, logger)

	// One award per second sustained is generous for a human tapping
	// through a wellness app.
	awardLimiter := guard.NewRateLimiter(60, time.Minute)

	authHandler := handler.NewAuthHandler(authSvc)
	gamificationHandler := handler.NewGamificationHandler(engine, awardLimiter)

	r := chi.NewRouter()

	corsOrigin := deps.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS(corsOrigin))
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Auth routes (no auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// User-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.AuthenticateUser(jwtMgr))

		r.Route("/gamification", func(r chi.Router) {
			r.Post("/activities", gamificationHandler.AwardPoints)
			r.Get("/dashboard", gamificationHandler.GetDashboard)

			r.Get("/points", gamificationHandler.GetPoints)
			r.Get("/transactions", gamificationHandler.GetTransactions)

			r.Get("/streaks", gamificationHandler.GetStreaks)
			r.Get("/streaks/milestones", gamificationHandler.GetStreakMilestones)
			r.Get("/streaks/achievements", gamificationHandler.GetStreakAchievements)

			r.Get("/level", gamificationHandler.GetLevel)
			r.Get("/levels", gamificationHandler.ListLevels)
			r.Get("/levels/achievements", gamificationHandler.GetLevelAchievements)

			r.Get("/badges", gamificationHandler.GetBadges)

			r.Route("/achievements", func(r chi.Router) {
				r.Get("/", gamificationHandler.ListAchievements)
				r.Get("/earned", gamificationHandler.GetEarnedAchievements)
				r.Get("/progress", gamificationHandler.GetAchievementProgress)
				r.Get("/stats", gamificationHandler.GetAchievementStats)
			})
		})
	})

	// Admin-authenticated routes (read-only catalog views)
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.AuthenticateAdmin(jwtMgr))

		r.Get("/activities", gamificationHandler.ListActivities)
		r.Get("/levels", gamificationHandler.ListLevels)
		r.Get("/milestones", gamificationHandler.GetStreakMilestones)
	})

	return r
}
