package gamify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
	"github.com/santulan/wellness/internal/repository"
)

// cascadeLevel realigns current_level with the ladder after a credit.
// Levels only move up; thresholds are inclusive, so a total exactly at
// points_required reaches the level.
func (e *Engine) cascadeLevel(ctx context.Context, tx pgx.Tx, userID uuid.UUID, account *domain.PointsAccount) (*domain.LevelUp, error) {
	target, err := e.levels.LevelForPoints(ctx, tx, account.TotalPoints)
	if err != nil {
		return nil, err
	}
	if target == nil || target.LevelNumber <= account.CurrentLevel {
		return nil, nil
	}

	next, err := e.levels.NextAfter(ctx, tx, target.LevelNumber)
	if err != nil {
		return nil, err
	}
	pointsToNext := int64(0)
	if next != nil {
		pointsToNext = next.PointsRequired - account.TotalPoints
	}

	if err := e.points.SetLevel(ctx, tx, userID, target.LevelNumber, pointsToNext); err != nil {
		return nil, err
	}
	// The unique constraint makes re-reaching a level after data repair a
	// no-op rather than a duplicate achievement.
	if _, err := e.levels.InsertAchievement(ctx, tx, userID, target.LevelNumber); err != nil {
		return nil, err
	}

	up := domain.LevelUp{OldLevel: account.CurrentLevel, NewLevel: target.LevelNumber}
	if err := e.outbox.Insert(ctx, tx, domain.NewLevelUpEvent(userID, up, account.TotalPoints)); err != nil {
		return nil, err
	}

	account.CurrentLevel = target.LevelNumber
	account.PointsToNextLevel = pointsToNext

	e.logger.Info("level up",
		"user_id", userID, "old_level", up.OldLevel, "new_level", up.NewLevel)
	return &up, nil
}

// levelProgress computes the read-side ladder position.
func levelProgress(ctx context.Context, db repository.DBTX, levels repository.LevelRepository, account *domain.PointsAccount) (*domain.LevelProgress, error) {
	current, err := levels.FindByNumber(ctx, db, account.CurrentLevel)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("level %d missing from ladder", account.CurrentLevel)
	}

	next, err := levels.NextAfter(ctx, db, current.LevelNumber)
	if err != nil {
		return nil, err
	}

	progress := &domain.LevelProgress{
		CurrentLevel: current,
		NextLevel:    next,
		TotalPoints:  account.TotalPoints,
	}
	if next == nil {
		progress.ProgressPercent = 100
		return progress, nil
	}

	progress.PointsToNext = next.PointsRequired - account.TotalPoints
	progress.ProgressPercent = progressPercent(account.TotalPoints, current.PointsRequired, next.PointsRequired)
	return progress, nil
}

// progressPercent maps the total onto [0,100] between two thresholds.
func progressPercent(total, currentRequired, nextRequired int64) float64 {
	span := nextRequired - currentRequired
	if span <= 0 {
		return 100
	}
	pct := float64(total-currentRequired) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
