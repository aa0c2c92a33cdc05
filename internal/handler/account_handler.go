package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/alepanderf/minibank/internal/middleware"
	"github.com/alepanderf/minibank/internal/models"
	apierrors "github.com/alepanderf/minibank/internal/pkg/errors"
	"github.com/alepanderf/minibank/internal/pkg/money"
	"github.com/alepanderf/minibank/internal/pkg/response"
	"github.com/alepanderf/minibank/internal/service"
)

// AccountHandler handles account and funding requests. All routes assume
// RequireAuth has already put the user in the request context.
type AccountHandler struct {
	accounts service.AccountService
	validate *validator.Validate
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		validate: newValidator(),
	}
}

// Routes returns a chi router with account routes.
func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/{id}/fund", h.Fund)
	r.Get("/{id}/transactions", h.Transactions)

	return r
}

type createAccountRequest struct {
	AccountType models.AccountType `json:"accountType" validate:"required"`
}

// Create handles POST /v1/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w)
		return
	}

	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, requiredFieldError(err))
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), user.ID, req.AccountType)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.Created(w, account)
}

// List handles GET /v1/accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w)
		return
	}

	accounts, err := h.accounts.GetAccounts(r.Context(), user.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	response.OK(w, accounts)
}

type fundRequest struct {
	Amount        money.Cents          `json:"amount"`
	FundingSource models.FundingSource `json:"fundingSource"`
}

// Fund handles POST /v1/accounts/{id}/fund
func (h *AccountHandler) Fund(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.NewValidationError("id", "invalid account id"))
		return
	}

	var req fundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("invalid request body"))
		return
	}

	result, err := h.accounts.FundAccount(r.Context(), user.ID, accountID, req.Amount, req.FundingSource)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, result)
}

// Transactions handles GET /v1/accounts/{id}/transactions
func (h *AccountHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		response.Unauthorized(w)
		return
	}

	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, apierrors.NewValidationError("id", "invalid account id"))
		return
	}

	txns, err := h.accounts.GetTransactions(r.Context(), user.ID, accountID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if txns == nil {
		txns = []*service.TransactionDetail{}
	}
	response.OK(w, txns)
}
