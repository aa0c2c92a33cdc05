package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/alepanderf/minibank/internal/pkg/money"
)

// AccountType identifies the kind of account a user holds.
// A user may hold at most one account per type.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// Valid returns true if the account type is recognized.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t AccountType) String() string {
	return string(t)
}

// AccountStatus identifies whether an account accepts deposits.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusFrozen AccountStatus = "frozen"
	AccountStatusClosed AccountStatus = "closed"
)

// Account is a named bucket of funds owned by one user.
type Account struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	UserID        uuid.UUID     `json:"user_id" db:"user_id"`
	AccountNumber string        `json:"account_number" db:"account_number"`
	AccountType   AccountType   `json:"account_type" db:"account_type"`
	Balance       money.Cents   `json:"balance" db:"balance_cents"`
	Status        AccountStatus `json:"status" db:"status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// TransactionType identifies a balance-affecting event kind.
type TransactionType string

const (
	TransactionTypeDeposit TransactionType = "deposit"
)

// TransactionStatus identifies the settlement state of a transaction.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
)

// Transaction is an immutable record of a balance-affecting event.
// Balance changes are paired 1:1 with a transaction row.
type Transaction struct {
	ID          string            `json:"id" db:"id"`
	AccountID   uuid.UUID         `json:"account_id" db:"account_id"`
	Type        TransactionType   `json:"type" db:"type"`
	Amount      money.Cents       `json:"amount" db:"amount_cents"`
	Description string            `json:"description" db:"description"`
	Status      TransactionStatus `json:"status" db:"status"`
	ProcessedAt time.Time         `json:"processed_at" db:"processed_at"`
}

// FundingSourceType discriminates the funding instrument union.
type FundingSourceType string

const (
	FundingSourceCard FundingSourceType = "card"
	FundingSourceBank FundingSourceType = "bank"
)

// FundingSource is the instrument used to fund an account: a card number, or
// a bank account plus routing number. Type selects which fields apply.
type FundingSource struct {
	Type          FundingSourceType `json:"type"`
	AccountNumber string            `json:"accountNumber"`
	RoutingNumber string            `json:"routingNumber,omitempty"`
}
