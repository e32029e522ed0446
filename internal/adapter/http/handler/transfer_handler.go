package handler

import (
	"context"
	"net/http"

	"github.com/iho/cashledger/internal/adapter/http/dto"
	"github.com/iho/cashledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Deposit(ctx context.Context, input usecase.DepositInput) (int64, error)
	Transfer(ctx context.Context, input usecase.TransferInput) (int64, error)
}

// TransferHandler handles deposits and transfers.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Deposit credits an account.
func (h *TransferHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	balance, err := h.transferUC.Deposit(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to deposit", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositResponse{
		AccountID: req.AccountID,
		Amount:    req.Amount,
		Balance:   balance,
	})
}

// Transfer moves funds between two accounts.
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	balance, err := h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to transfer", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransferResponse{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Balance:       balance,
	})
}
