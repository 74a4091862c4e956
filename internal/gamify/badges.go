package gamify

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

// evaluateBadges awards every active badge the user newly qualifies for.
// It runs against one snapshot taken inside the award transaction: either
// all qualifying badges land with the award, or the rollback takes them
// all back. A badge needs both its criteria and its lifetime-points floor.
func (e *Engine) evaluateBadges(ctx context.Context, tx pgx.Tx, userID uuid.UUID, actionType string, result *domain.AwardResult) error {
	snap, err := e.loadSnapshot(ctx, tx, userID)
	if err != nil {
		return err
	}

	candidates, err := e.badges.ListActiveUnowned(ctx, tx, userID)
	if err != nil {
		return err
	}

	for i := range candidates {
		badge := &candidates[i]
		if badge.PointsRequired > snap.Stats.LifetimePoints {
			continue
		}
		if !criteriaMet(badge.UnlockCriteria, snap, actionType) {
			continue
		}

		awarded, err := e.badges.InsertUserBadge(ctx, tx, userID, badge.ID)
		if err != nil {
			return err
		}
		if !awarded {
			continue
		}

		result.BadgesEarned = append(result.BadgesEarned, badge)
		if err := e.outbox.Insert(ctx, tx, domain.NewBadgeEarnedEvent(userID, badge)); err != nil {
			return err
		}
		e.logger.Info("badge earned", "user_id", userID, "badge", badge.Name)
	}
	return nil
}
