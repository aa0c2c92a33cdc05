package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alepanderf/minibank/internal/models"
	"github.com/alepanderf/minibank/internal/pkg/money"
)

// ErrDuplicateAccountNumber is returned when an insert loses the race on the
// account_number unique index. Callers re-draw and retry.
var ErrDuplicateAccountNumber = errors.New("account number already exists")

// ErrDuplicateAccountType is returned when the user already holds an account
// of the requested type.
var ErrDuplicateAccountType = errors.New("account type already exists for user")

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByUserAndType(ctx context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error)
	NumberExists(ctx context.Context, accountNumber string) (bool, error)
	// Fund appends the transaction and applies its amount to the account
	// balance as one atomic unit: either both are visible or neither is.
	// Returns the balance after the deposit.
	Fund(ctx context.Context, accountID uuid.UUID, txn *models.Transaction) (money.Cents, error)
}

type accountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepo{pool: pool}
}

// Create inserts a new account. Unique-index violations on the account
// number and on (user, type) are mapped to sentinel errors so the service
// layer can retry or surface a conflict.
func (r *accountRepo) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, user_id, account_number, account_type, balance_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		account.ID,
		account.UserID,
		account.AccountNumber,
		account.AccountType,
		account.Balance,
		account.Status,
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		if pgErr.ConstraintName == "accounts_account_number_key" {
			return ErrDuplicateAccountNumber
		}
		return ErrDuplicateAccountType
	}
	return err
}

// GetByID retrieves an account by its UUID.
func (r *accountRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `
		SELECT id, user_id, account_number, account_type, balance_cents, status, created_at, updated_at
		FROM accounts WHERE id = $1`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByUserAndType retrieves the user's account of the given type, if any.
func (r *accountRepo) GetByUserAndType(ctx context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error) {
	query := `
		SELECT id, user_id, account_number, account_type, balance_cents, status, created_at, updated_at
		FROM accounts WHERE user_id = $1 AND account_type = $2`

	return r.scanAccount(r.pool.QueryRow(ctx, query, userID, accountType))
}

// ListByUser retrieves all accounts for a user.
func (r *accountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	query := `
		SELECT id, user_id, account_number, account_type, balance_cents, status, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// NumberExists reports whether an account number is already taken.
func (r *accountRepo) NumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`,
		accountNumber,
	).Scan(&exists)
	return exists, err
}

// Fund inserts the transaction and increments the balance in one database
// transaction. The UPDATE re-reads the balance under the row lock, so
// concurrent deposits serialize and the balance stays equal to the sum of
// its transactions.
func (r *accountRepo) Fund(ctx context.Context, accountID uuid.UUID, txn *models.Transaction) (money.Cents, error) {
	var newBalance money.Cents
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO transactions (id, account_id, type, amount_cents, description, status)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING processed_at`,
			txn.ID, accountID, txn.Type, txn.Amount, txn.Description, txn.Status,
		).Scan(&txn.ProcessedAt); err != nil {
			return err
		}

		return tx.QueryRow(ctx,
			`UPDATE accounts
			 SET balance_cents = balance_cents + $2, updated_at = now()
			 WHERE id = $1
			 RETURNING balance_cents`,
			accountID, txn.Amount,
		).Scan(&newBalance)
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (r *accountRepo) scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.AccountType,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Compile-time check to ensure accountRepo implements AccountRepository.
var _ AccountRepository = (*accountRepo)(nil)
