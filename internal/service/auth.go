package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/santulan/wellness/internal/auth"
	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/internal/repository"
)

// AuthService handles registration and login. It exists only to put a
// user ID behind a token; everything interesting happens in the engine.
type AuthService struct {
	pool   *pgxpool.Pool
	users  repository.AuthUserRepository
	outbox repository.OutboxRepository
	jwtMgr *auth.JWTManager
	logger *slog.Logger
}

// NewAuthService wires an AuthService.
func NewAuthService(pool *pgxpool.Pool, jwtMgr *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		pool:   pool,
		users:  repository.NewAuthUserRepository(),
		outbox: repository.NewOutboxRepository(),
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

// AuthResult is a token plus the user it belongs to.
type AuthResult struct {
	Token string           `json:"token"`
	User  *domain.AuthUser `json:"user"`
}

// Register creates a user and returns a signed token.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	if err := domain.ValidateEmail(email); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if len(password) < 8 {
		return nil, domain.ErrValidation("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.AuthUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.users.Create(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewUserRegisteredEvent(user.ID, user.Email)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmUser, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, s.pool, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized("invalid credentials")
	}

	token, err := s.jwtMgr.GenerateToken(auth.RealmUser, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
