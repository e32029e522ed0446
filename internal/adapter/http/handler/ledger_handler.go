package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/cashledger/internal/adapter/http/dto"
	"github.com/iho/cashledger/internal/usecase"
)

// ConsistencyService defines the behavior needed for the ledger totals check.
type ConsistencyService interface {
	CheckConsistency(ctx context.Context) (*usecase.LedgerTotals, error)
}

// ReconciliationService defines the behavior needed by LedgerHandler.
type ReconciliationService interface {
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC         ConsistencyService
	reconciliationUC ReconciliationService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC ConsistencyService, reconciliationUC ReconciliationService) *LedgerHandler {
	return &LedgerHandler{
		ledgerUC:         ledgerUC,
		reconciliationUC: reconciliationUC,
	}
}

// CheckConsistency compares the sum of balances with the sum of settled entries.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	totals, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil && !errors.Is(err, usecase.ErrInconsistentLedger) {
		writeDomainError(w, r, "failed to check consistency", err)
		return
	}

	body := map[string]any{
		"status":        "consistent",
		"consistent":    true,
		"total_balance": totals.TotalBalance,
		"total_entries": totals.TotalEntries,
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusConflict
		body["status"] = "inconsistent"
		body["consistent"] = false
		body["message"] = err.Error()
	}

	writeJSON(w, status, body)
}

// Reconciliation reports per-account balance discrepancies and the ledger totals check.
// An inconsistent ledger answers 409 with the full report.
func (h *LedgerHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliationUC.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to reconcile ledger", err)
		return
	}

	status := http.StatusOK
	if !report.LedgerConsistent || len(report.Discrepancies) > 0 {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ReconciliationFromUseCase(report))
}
