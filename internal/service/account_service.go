package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"html"
	"math/big"

	"github.com/google/uuid"

	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/pkg/money"
	"github.com/alepanderf/minibank/internal/pkg/ulid"
	"github.com/alepanderf/minibank/internal/repository"
	"github.com/alepanderf/minibank/internal/validation"
)

// maxNumberDraws bounds the retry loop for account number generation. The
// 10-digit space makes collisions rare; hitting the bound signals a fault.
const maxNumberDraws = 10

// FundResult is the outcome of a successful deposit.
type FundResult struct {
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  money.Cents         `json:"newBalance"`
}

// TransactionDetail is a transaction annotated with its account's type for
// display. The description is HTML-escaped before it leaves the service.
type TransactionDetail struct {
	models.Transaction
	AccountType models.AccountType `json:"accountType"`
}

// AccountService manages accounts and funding.
type AccountService interface {
	// CreateAccount opens a checking or savings account with a generated
	// 10-digit account number, zero balance, and active status. A user may
	// hold at most one account per type.
	CreateAccount(ctx context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error)

	// GetAccounts lists the caller's accounts.
	GetAccounts(ctx context.Context, userID uuid.UUID) ([]*models.Account, error)

	// FundAccount validates the amount and instrument, then records a
	// completed deposit and the matching balance increase atomically.
	FundAccount(ctx context.Context, userID, accountID uuid.UUID, amount money.Cents, source models.FundingSource) (*FundResult, error)

	// GetTransactions lists the account's transactions, newest first, each
	// annotated with the account type.
	GetTransactions(ctx context.Context, userID, accountID uuid.UUID) ([]*TransactionDetail, error)
}

type accountService struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accounts repository.AccountRepository, transactions repository.TransactionRepository) AccountService {
	return &accountService{
		accounts:     accounts,
		transactions: transactions,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error) {
	if !accountType.Valid() {
		return nil, apierrors.NewValidationError("accountType", "account type must be checking or savings")
	}

	existing, err := s.accounts.GetByUserAndType(ctx, userID, accountType)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, apierrors.NewConflictError(fmt.Sprintf("you already have a %s account", accountType))
	}

	for i := 0; i < maxNumberDraws; i++ {
		number, err := generateAccountNumber()
		if err != nil {
			return nil, err
		}
		taken, err := s.accounts.NumberExists(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to check account number: %w", err)
		}
		if taken {
			continue
		}

		account := &models.Account{
			UserID:        userID,
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       0,
			Status:        models.AccountStatusActive,
		}
		err = s.accounts.Create(ctx, account)
		switch {
		case err == nil:
			return account, nil
		case errors.Is(err, repository.ErrDuplicateAccountNumber):
			// Lost the race on the unique index; draw again.
			continue
		case errors.Is(err, repository.ErrDuplicateAccountType):
			return nil, apierrors.NewConflictError(fmt.Sprintf("you already have a %s account", accountType))
		default:
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to generate a unique account number after %d attempts", maxNumberDraws)
}

func (s *accountService) GetAccounts(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) FundAccount(ctx context.Context, userID, accountID uuid.UUID, amount money.Cents, source models.FundingSource) (*FundResult, error) {
	if amount < money.MinDeposit {
		return nil, apierrors.NewValidationError("amount", "amount must be at least 0.01")
	}

	var description string
	switch source.Type {
	case models.FundingSourceCard:
		if _, verr := validation.Card(source.AccountNumber); verr != nil {
			return nil, verr
		}
		description = "Deposit from card"
	case models.FundingSourceBank:
		if _, verr := validation.RoutingNumber(source.RoutingNumber); verr != nil {
			return nil, verr
		}
		description = "Deposit from bank transfer"
	default:
		return nil, apierrors.NewValidationError("fundingSource", "funding source type must be card or bank")
	}

	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Status != models.AccountStatusActive {
		return nil, apierrors.ErrBadRequest.WithMessage("account is not active")
	}

	txn := &models.Transaction{
		ID:          ulid.New(),
		AccountID:   accountID,
		Type:        models.TransactionTypeDeposit,
		Amount:      amount,
		Description: description,
		Status:      models.TransactionStatusCompleted,
	}
	newBalance, err := s.accounts.Fund(ctx, accountID, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to fund account: %w", err)
	}

	return &FundResult{Transaction: txn, NewBalance: newBalance}, nil
}

func (s *accountService) GetTransactions(ctx context.Context, userID, accountID uuid.UUID) ([]*TransactionDetail, error) {
	account, err := s.ownedAccount(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	txns, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	details := make([]*TransactionDetail, 0, len(txns))
	for _, txn := range txns {
		detail := &TransactionDetail{Transaction: *txn, AccountType: account.AccountType}
		// Stored descriptions may contain arbitrary text; escape before
		// they leave this boundary so they never render as markup.
		detail.Description = html.EscapeString(detail.Description)
		details = append(details, detail)
	}
	return details, nil
}

// ownedAccount loads an account and confirms the caller owns it. Absent and
// not-owned look identical to the caller.
func (s *accountService) ownedAccount(ctx context.Context, userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account == nil || account.UserID != userID {
		return nil, apierrors.NewNotFoundError("account")
	}
	return account, nil
}

// generateAccountNumber draws a uniformly random 10-digit, zero-padded
// account number.
func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return fmt.Sprintf("%010d", n.Int64()), nil
}

// Compile-time check to ensure accountService implements AccountService.
var _ AccountService = (*accountService)(nil)
