package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/santulan/wellness/internal/domain"
)

type streakRepo struct{}

// NewStreakRepository returns a pgx-backed StreakRepository.
func NewStreakRepository() StreakRepository {
	return &streakRepo{}
}

// LockForUpdate holds the row lock until the surrounding transaction ends,
// serializing concurrent streak updates for the same (user, activity) pair.
func (r *streakRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, activityType string) (*domain.Streak, error) {
	row := tx.QueryRow(ctx, `
		SELECT id, user_id, activity_type, current_streak, longest_streak,
		       last_activity_date, streak_start_date, created_at, updated_at
		FROM user_streaks
		WHERE user_id = $1 AND activity_type = $2
		FOR UPDATE`, userID, activityType)
	return scanStreak(row)
}

// TryCreate races politely: when two first awards collide, the second
// insert waits for the first to commit and then inserts nothing.
func (r *streakRepo) TryCreate(ctx context.Context, db DBTX, s *domain.Streak) (bool, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO user_streaks
		  (id, user_id, activity_type, current_streak, longest_streak,
		   last_activity_date, streak_start_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (user_id, activity_type) DO NOTHING`,
		s.ID, s.UserID, s.ActivityType, s.CurrentStreak, s.LongestStreak,
		toPgDate(s.LastActivityDate), toPgDate(s.StreakStartDate))
	if err != nil {
		return false, fmt.Errorf("insert streak: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *streakRepo) Update(ctx context.Context, db DBTX, s *domain.Streak) error {
	_, err := db.Exec(ctx, `
		UPDATE user_streaks
		SET current_streak = $2, longest_streak = $3,
		    last_activity_date = $4, streak_start_date = $5, updated_at = now()
		WHERE id = $1`,
		s.ID, s.CurrentStreak, s.LongestStreak,
		toPgDate(s.LastActivityDate), toPgDate(s.StreakStartDate))
	if err != nil {
		return fmt.Errorf("update streak: %w", err)
	}
	return nil
}

func (r *streakRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Streak, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, activity_type, current_streak, longest_streak,
		       last_activity_date, streak_start_date, created_at, updated_at
		FROM user_streaks
		WHERE user_id = $1
		ORDER BY activity_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}
	defer rows.Close()

	var out []domain.Streak
	for rows.Next() {
		var s domain.Streak
		var last, start pgtype.Date
		if err := rows.Scan(&s.ID, &s.UserID, &s.ActivityType, &s.CurrentStreak,
			&s.LongestStreak, &last, &start, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan streak: %w", err)
		}
		s.LastActivityDate = fromPgDate(last)
		s.StreakStartDate = fromPgDate(start)
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStreak(row pgx.Row) (*domain.Streak, error) {
	var s domain.Streak
	var last, start pgtype.Date
	err := row.Scan(&s.ID, &s.UserID, &s.ActivityType, &s.CurrentStreak,
		&s.LongestStreak, &last, &start, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan streak: %w", err)
	}
	s.LastActivityDate = fromPgDate(last)
	s.StreakStartDate = fromPgDate(start)
	return &s, nil
}
