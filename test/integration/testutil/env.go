//go:build integration

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/santulan/wellness/internal/app"
	"github.com/santulan/wellness/internal/auth"
	"github.com/santulan/wellness/internal/infra"
)

// TestEnv is a live API over a real database. Requires DATABASE_URL (or
// the PG* defaults) pointing at a disposable test database.
type TestEnv struct {
	T      *testing.T
	Pool   *pgxpool.Pool
	Server *httptest.Server
	JWTMgr *auth.JWTManager
}

// NewTestEnv boots the router against the test database and cleans user
// state. Reference data (levels, activities, badges, milestones,
// achievements) is left in place.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg, err := infra.LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := infra.NewPostgresPool(ctx, cfg)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}

	jwtMgr := auth.NewJWTManager("integration-test-secret-32-chars!!!!", time.Hour, time.Hour)
	router := app.NewRouter(app.RouterDeps{Pool: pool, JWTMgr: jwtMgr, Logger: logger})
	server := httptest.NewServer(router)

	env := &TestEnv{T: t, Pool: pool, Server: server, JWTMgr: jwtMgr}
	env.CleanUserData()

	t.Cleanup(func() {
		server.Close()
		pool.Close()
	})
	return env
}

// CleanUserData truncates per-user state, keeping reference data.
func (env *TestEnv) CleanUserData() {
	env.T.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tables := []string{
		"event_outbox",
		"achievement_stats",
		"user_achievement_progress",
		"user_achievements",
		"user_level_achievements",
		"user_streak_achievements",
		"user_badges",
		"user_streaks",
		"daily_activities",
		"point_transactions",
		"user_points",
		"auth_users",
	}
	for _, table := range tables {
		if _, err := env.Pool.Exec(ctx, "TRUNCATE "+table+" CASCADE"); err != nil {
			env.T.Fatalf("truncate %s: %v", table, err)
		}
	}
}

// RegisterUser creates a user through the API and returns its token and ID.
func (env *TestEnv) RegisterUser(email string) (string, uuid.UUID) {
	env.T.Helper()

	resp := env.POST("/auth/register", map[string]string{
		"email":    email,
		"password": "testing-password",
	}, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		env.T.Fatalf("register %s: status %d", email, resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		env.T.Fatalf("decode register response: %v", err)
	}
	return result.Token, result.User.ID
}

// POST sends a JSON request; token is attached as Bearer when non-empty.
func (env *TestEnv) POST(path string, body interface{}, token string) *http.Response {
	env.T.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		env.T.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest("POST", env.Server.URL+path, bytes.NewReader(payload))
	if err != nil {
		env.T.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.Server.Client().Do(req)
	if err != nil {
		env.T.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// GET sends a request; token is attached as Bearer when non-empty.
func (env *TestEnv) GET(path, token string) *http.Response {
	env.T.Helper()

	req, err := http.NewRequest("GET", env.Server.URL+path, nil)
	if err != nil {
		env.T.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.Server.Client().Do(req)
	if err != nil {
		env.T.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// DecodeJSON reads and decodes a JSON response body into dst.
func (env *TestEnv) DecodeJSON(resp *http.Response, dst interface{}) {
	env.T.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		env.T.Fatalf("decode response: %v", err)
	}
}
