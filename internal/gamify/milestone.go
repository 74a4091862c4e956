package gamify

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/santulan/wellness/internal/domain"
)

// checkStreakMilestones pays the reward for the milestone matching the
// streak's exact current length, at most once per (user, streak,
// milestone). The insert into user_streak_achievements is the gate: if it
// inserts nothing the user was already paid, and no credit happens. The
// milestone credit is terminal — it flows through credit (so it can level
// the user up) but never re-enters streak or milestone evaluation.
func (e *Engine) checkStreakMilestones(ctx context.Context, tx pgx.Tx, userID uuid.UUID, streak *domain.Streak, result *domain.AwardResult) (*domain.MilestoneAward, error) {
	milestone, err := e.milestones.FindByActivityAndDays(ctx, tx, streak.ActivityType, streak.CurrentStreak)
	if err != nil {
		return nil, err
	}
	if milestone == nil {
		return nil, nil
	}

	inserted, err := e.milestones.InsertAchievement(ctx, tx, userID, streak.ID, milestone.ID, milestone.RewardPoints)
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}

	award := &domain.MilestoneAward{Milestone: milestone}

	if milestone.RewardPoints > 0 {
		outcome, err := e.credit(ctx, tx, userID, milestone.RewardPoints,
			fmt.Sprintf("Streak milestone: %s", milestone.MilestoneName), nil, nil)
		if err != nil {
			return nil, err
		}
		award.PointsAwarded = milestone.RewardPoints
		result.NewTotal = outcome.Account.TotalPoints
		if outcome.LevelUp != nil {
			result.LevelUp = true
			newLevel := outcome.LevelUp.NewLevel
			result.NewLevel = &newLevel
		}
	}

	if milestone.BadgeID != nil {
		awarded, err := e.badges.InsertUserBadge(ctx, tx, userID, *milestone.BadgeID)
		if err != nil {
			return nil, err
		}
		if awarded {
			award.BadgeAwarded = milestone.BadgeID
			if badge, err := e.badges.FindByID(ctx, tx, *milestone.BadgeID); err != nil {
				return nil, err
			} else if badge != nil {
				result.BadgesEarned = append(result.BadgesEarned, badge)
				if err := e.outbox.Insert(ctx, tx, domain.NewBadgeEarnedEvent(userID, badge)); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := e.outbox.Insert(ctx, tx, domain.NewStreakMilestoneEvent(userID, *milestone, streak.CurrentStreak)); err != nil {
		return nil, err
	}

	e.logger.Info("streak milestone awarded",
		"user_id", userID,
		"milestone", milestone.MilestoneName,
		"streak_days", streak.CurrentStreak,
		"reward_points", milestone.RewardPoints,
	)
	return award, nil
}
