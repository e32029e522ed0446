package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashledger/internal/adapter/http/dto"
	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	ListAccountIDs(ctx context.Context) ([]string, error)
	GetBalance(ctx context.Context, accountID string) (int64, error)
	GetTransactions(ctx context.Context, input usecase.GetTransactionsInput) ([]*domain.LedgerEntry, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create creates a new account.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// List lists every account id.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.accountUC.ListAccountIDs(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: ids,
		Total:    len(ids),
	})
}

// GetBalance returns the current balance of an account.
func (h *AccountHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	balance, err := h.accountUC.GetBalance(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{AccountID: id, Balance: balance})
}

// GetTransactions returns the account history after maturing cashback due at ?timestamp=.
func (h *AccountHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ts, err := parseInt64Query(r, "timestamp")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	entries, err := h.accountUC.GetTransactions(r.Context(), usecase.GetTransactionsInput{
		Timestamp: ts,
		AccountID: id,
	})
	if err != nil {
		writeDomainError(w, r, "failed to get transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsResponse{
		AccountID:    id,
		Transactions: dto.TransactionsFromDomain(entries),
	})
}
