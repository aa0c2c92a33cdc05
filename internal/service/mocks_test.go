package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alepanderf/minibank/internal/models"
	"github.com/alepanderf/minibank/internal/pkg/money"
	"github.com/alepanderf/minibank/internal/repository"
)

// In-memory repository implementations backed by maps. They mirror the
// Postgres repositories' contracts, including nil-on-absent reads and the
// duplicate sentinel errors.

type memUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

// racingUserRepo simulates a signup losing the insert race: the existence
// pre-check sees nothing, so a duplicate surfaces only at Create.
type racingUserRepo struct {
	*memUserRepo
}

func (r *racingUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, nil
}

type memSessionRepo struct {
	sessions map[string]*models.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, session *models.Session) error {
	session.CreatedAt = time.Now()
	copied := *session
	r.sessions[session.Token] = &copied
	return nil
}

func (r *memSessionRepo) GetByToken(_ context.Context, token string) (*models.Session, error) {
	session, ok := r.sessions[token]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *memSessionRepo) DeleteByToken(_ context.Context, token string) (bool, error) {
	if _, ok := r.sessions[token]; !ok {
		return false, nil
	}
	delete(r.sessions, token)
	return true, nil
}

func (r *memSessionRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for token, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, token)
		}
	}
	return nil
}

func (r *memSessionRepo) Replace(ctx context.Context, session *models.Session) error {
	if err := r.DeleteByUser(ctx, session.UserID); err != nil {
		return err
	}
	return r.Create(ctx, session)
}

func (r *memSessionRepo) countForUser(userID uuid.UUID) int {
	n := 0
	for _, session := range r.sessions {
		if session.UserID == userID {
			n++
		}
	}
	return n
}

type memAccountRepo struct {
	accounts map[uuid.UUID]*models.Account
	txns     []*models.Transaction
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[uuid.UUID]*models.Account)}
}

func (r *memAccountRepo) Create(_ context.Context, account *models.Account) error {
	for _, existing := range r.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return repository.ErrDuplicateAccountNumber
		}
		if existing.UserID == account.UserID && existing.AccountType == account.AccountType {
			return repository.ErrDuplicateAccountType
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (r *memAccountRepo) GetByUserAndType(_ context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error) {
	for _, account := range r.accounts {
		if account.UserID == userID && account.AccountType == accountType {
			copied := *account
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memAccountRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, account := range r.accounts {
		if account.UserID == userID {
			copied := *account
			accounts = append(accounts, &copied)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

func (r *memAccountRepo) NumberExists(_ context.Context, accountNumber string) (bool, error) {
	for _, account := range r.accounts {
		if account.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccountRepo) Fund(_ context.Context, accountID uuid.UUID, txn *models.Transaction) (money.Cents, error) {
	account := r.accounts[accountID]
	txn.ProcessedAt = time.Now()
	copied := *txn
	r.txns = append(r.txns, &copied)
	account.Balance += txn.Amount
	return account.Balance, nil
}

type memTransactionRepo struct {
	accounts *memAccountRepo
}

func (r *memTransactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	// Newest first, matching the Postgres ordering.
	for i := len(r.accounts.txns) - 1; i >= 0; i-- {
		if r.accounts.txns[i].AccountID == accountID {
			copied := *r.accounts.txns[i]
			txns = append(txns, &copied)
		}
	}
	return txns, nil
}

// Compile-time checks that the mocks satisfy the repository interfaces.
var (
	_ repository.UserRepository        = (*memUserRepo)(nil)
	_ repository.SessionRepository     = (*memSessionRepo)(nil)
	_ repository.AccountRepository     = (*memAccountRepo)(nil)
	_ repository.TransactionRepository = (*memTransactionRepo)(nil)
)
