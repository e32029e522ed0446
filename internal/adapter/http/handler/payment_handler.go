package handler

import (
	"context"
	"net/http"

	"github.com/iho/cashledger/internal/adapter/http/dto"
	"github.com/iho/cashledger/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	Pay(ctx context.Context, input usecase.PayInput) (*usecase.PayResult, error)
}

// PaymentHandler handles payments.
type PaymentHandler struct {
	paymentUC PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

// Pay debits an account and schedules its cashback.
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req dto.PayRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	res, err := h.paymentUC.Pay(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to pay", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromUseCase(req.AccountID, req.Amount, res))
}
