package gamify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

// achievementVerdict is the outcome of evaluating one achievement against
// one pass.
type achievementVerdict int

const (
	verdictSkip achievementVerdict = iota
	verdictUnlock
	verdictProgress
)

// decideAchievement classifies an achievement for the action just
// performed. Criteria fully met unlock immediately; otherwise a
// progressive achievement advances its counter, but only when the action
// is one its criteria count. Gating thresholds are checked before either.
func decideAchievement(ach *domain.Achievement, snap *snapshot, actionType string) achievementVerdict {
	if snap.Stats.LifetimePoints < ach.MinimumPoints || snap.Stats.CurrentLevel < ach.MinimumLevel {
		return verdictSkip
	}
	if criteriaMet(ach.UnlockCriteria, snap, actionType) {
		return verdictUnlock
	}
	if ach.IsProgressive && progressCounts(ach.UnlockCriteria, actionType) {
		return verdictProgress
	}
	return verdictSkip
}

// CheckAchievementProgress evaluates the whole achievement catalog for a
// user after an action and returns the IDs unlocked by this pass. It owns
// its transaction, separate from any award: evaluation is triggered after
// the fact and works purely off the persisted state, so replaying it is
// always safe.
//
// actionType and actionData identify the action that triggered the pass;
// actionData is folded into the progress row for progressive achievements.
// Secret achievements are evaluated like any other and only hidden on
// reads.
func (e *Engine) CheckAchievementProgress(ctx context.Context, userID uuid.UUID, actionType string, actionData json.RawMessage) ([]uuid.UUID, error) {
	var unlocked []uuid.UUID

	err := e.withTx(ctx, func(tx pgx.Tx) error {
		snap, err := e.loadSnapshot(ctx, tx, userID)
		if err != nil {
			return err
		}

		earned, err := e.achievements.EarnedIDs(ctx, tx, userID)
		if err != nil {
			return err
		}

		catalog, err := e.achievements.ListActive(ctx, tx, true)
		if err != nil {
			return err
		}

		for i := range catalog {
			ach := &catalog[i]
			if earned[ach.ID] {
				continue
			}

			switch decideAchievement(ach, snap, actionType) {
			case verdictUnlock:
			case verdictProgress:
				progress, err := e.achievements.IncrementProgress(ctx, tx, userID, ach.ID, 1, ach.MaxProgress, actionData)
				if err != nil {
					return err
				}
				if progress.CurrentProgress < ach.MaxProgress {
					continue
				}
			default:
				continue
			}

			id, err := e.unlockAchievement(ctx, tx, userID, ach)
			if err != nil {
				return err
			}
			if id != nil {
				unlocked = append(unlocked, *id)
			}
		}

		if len(unlocked) > 0 {
			return e.achievements.RecomputeStats(ctx, tx, userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(unlocked) > 0 {
		e.logger.Info("achievements unlocked",
			"user_id", userID, "action_type", actionType, "count", len(unlocked))
	}
	return unlocked, nil
}

// unlockAchievement awards once; the idempotent insert is the gate for the
// bonus credit, so a concurrent pass can never double-pay.
func (e *Engine) unlockAchievement(ctx context.Context, tx pgx.Tx, userID uuid.UUID, ach *domain.Achievement) (*uuid.UUID, error) {
	bonus := ach.BonusPoints()

	inserted, err := e.achievements.InsertUserAchievement(ctx, tx, userID, ach.ID, bonus)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}

	if bonus > 0 {
		if _, err := e.credit(ctx, tx, userID, bonus,
			fmt.Sprintf("Achievement unlocked: %s", ach.Name), nil, nil); err != nil {
			return nil, err
		}
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewAchievementUnlockedEvent(userID, ach, bonus)); err != nil {
		return nil, err
	}

	e.logger.Info("achievement unlocked",
		"user_id", userID, "achievement", ach.Name, "bonus_points", bonus)
	return &ach.ID, nil
}
