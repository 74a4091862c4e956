package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/santulan/wellness/internal/domain"
)

type transactionRepo struct{}

// NewTransactionRepository returns a pgx-backed TransactionRepository.
func NewTransactionRepository() TransactionRepository {
	return &transactionRepo{}
}

func (r *transactionRepo) Insert(ctx context.Context, db DBTX, tx *domain.PointTransaction) error {
	_, err := db.Exec(ctx, `
		INSERT INTO point_transactions
		  (id, user_id, activity_id, amount, transaction_type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.UserID, tx.ActivityID, tx.Amount, string(tx.Type),
		tx.Description, tx.Metadata, tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert point transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) ListRecent(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.PointTransaction, error) {
	rows, err := db.Query(ctx, `
		SELECT id, user_id, activity_id, amount, transaction_type, description, metadata, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.PointTransaction
	for rows.Next() {
		var t domain.PointTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.ActivityID, &t.Amount, &t.Type,
			&t.Description, &t.Metadata, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
