package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/alepanderf/minibank/internal/models"
	"github.com/alepanderf/minibank/internal/pkg/money"
	"github.com/alepanderf/minibank/internal/service"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, req service.SignupRequest) (*models.User, *models.Session, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)
	session, _ := args.Get(1).(*models.Session)
	return user, session, args.Error(2)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(0).(*models.User)
	session, _ := args.Get(1).(*models.Session)
	return user, session, args.Error(2)
}

func (m *mockAuthService) Logout(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Issue(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	args := m.Called(ctx, userID)
	session, _ := args.Get(0).(*models.Session)
	return session, args.Error(1)
}

func (m *mockSessionService) Validate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockSessionService) Revoke(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, userID uuid.UUID, accountType models.AccountType) (*models.Account, error) {
	args := m.Called(ctx, userID, accountType)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *mockAccountService) GetAccounts(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	args := m.Called(ctx, userID)
	accounts, _ := args.Get(0).([]*models.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountService) FundAccount(ctx context.Context, userID, accountID uuid.UUID, amount money.Cents, source models.FundingSource) (*service.FundResult, error) {
	args := m.Called(ctx, userID, accountID, amount, source)
	result, _ := args.Get(0).(*service.FundResult)
	return result, args.Error(1)
}

func (m *mockAccountService) GetTransactions(ctx context.Context, userID, accountID uuid.UUID) ([]*service.TransactionDetail, error) {
	args := m.Called(ctx, userID, accountID)
	txns, _ := args.Get(0).([]*service.TransactionDetail)
	return txns, args.Error(1)
}

// Compile-time checks that the mocks satisfy the service interfaces.
var (
	_ service.AuthService    = (*mockAuthService)(nil)
	_ service.SessionService = (*mockSessionService)(nil)
	_ service.AccountService = (*mockAccountService)(nil)
)
