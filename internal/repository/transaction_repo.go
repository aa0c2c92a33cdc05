package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alepanderf/minibank/internal/models"
)

// TransactionRepository defines read access to the append-only transaction
// log. Writes happen only through AccountRepository.Fund so a balance change
// can never be recorded without its transaction row.
type TransactionRepository interface {
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error)
}

type transactionRepo struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepo{pool: pool}
}

// ListByAccount retrieves all transactions for an account, newest first.
func (r *transactionRepo) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount_cents, description, status, processed_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY processed_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Type,
			&txn.Amount,
			&txn.Description,
			&txn.Status,
			&txn.ProcessedAt,
		); err != nil {
			return nil, err
		}
		txns = append(txns, &txn)
	}
	return txns, rows.Err()
}

// Compile-time check to ensure transactionRepo implements TransactionRepository.
var _ TransactionRepository = (*transactionRepo)(nil)
