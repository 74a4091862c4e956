package gamify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/internal/repository"
)

// Engine runs all gamification state changes. Every mutating operation
// owns exactly one database transaction; repositories receive the
// transaction handle explicitly and never open their own.
type Engine struct {
	pool   *pgxpool.Pool
	logger *slog.Logger

	activities   repository.ActivityRepository
	points       repository.PointsRepository
	transactions repository.TransactionRepository
	streaks      repository.StreakRepository
	milestones   repository.MilestoneRepository
	levels       repository.LevelRepository
	achievements repository.AchievementRepository
	badges       repository.BadgeRepository
	outbox       repository.OutboxRepository
}

// NewEngine wires an Engine over the given pool.
func NewEngine(pool *pgxpool.Pool, logger *slog.Logger) *Engine {
	return &Engine{
		pool:         pool,
		logger:       logger,
		activities:   repository.NewActivityRepository(),
		points:       repository.NewPointsRepository(),
		transactions: repository.NewTransactionRepository(),
		streaks:      repository.NewStreakRepository(),
		milestones:   repository.NewMilestoneRepository(),
		levels:       repository.NewLevelRepository(),
		achievements: repository.NewAchievementRepository(),
		badges:       repository.NewBadgeRepository(),
		outbox:       repository.NewOutboxRepository(),
	}
}

// creditOutcome is the result of one credit: the audit row, the account
// after the atomic update, and the level transition if the credit crossed
// a threshold.
type creditOutcome struct {
	Tx      *domain.PointTransaction
	Account *domain.PointsAccount
	LevelUp *domain.LevelUp
}

// credit is the single primitive through which every point mutation flows:
// primary awards, streak milestone rewards and achievement bonuses alike.
// It validates the amount, applies server-side arithmetic, appends the
// audit row, runs the level cascade and stages outbox events. The cascade
// is bounded: a level-up credits nothing further, so credit never
// re-enters itself.
func (e *Engine) credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int64, description string, activityID *uuid.UUID, metadata json.RawMessage) (*creditOutcome, error) {
	if err := domain.ValidatePositiveAmount(amount); err != nil {
		return nil, domain.ErrDataIntegrity(err.Error())
	}

	account, err := e.points.AddPoints(ctx, tx, userID, amount)
	if err != nil {
		return nil, fmt.Errorf("add points: %w", err)
	}

	txRow := &domain.PointTransaction{
		ID:          uuid.New(),
		UserID:      userID,
		ActivityID:  activityID,
		Amount:      amount,
		Type:        domain.TxEarned,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   time.Now(),
	}
	if err := e.transactions.Insert(ctx, tx, txRow); err != nil {
		return nil, err
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewPointsAwardedEvent(txRow, account.TotalPoints)); err != nil {
		return nil, err
	}

	levelUp, err := e.cascadeLevel(ctx, tx, userID, account)
	if err != nil {
		return nil, err
	}

	return &creditOutcome{Tx: txRow, Account: account, LevelUp: levelUp}, nil
}

// withTx runs fn inside one pool transaction, rolling back on any error.
func (e *Engine) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
