package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ReconciliationUseCase handles balance reconciliation operations
type ReconciliationUseCase struct {
	ledgerRepo LedgerRepository
	ledger     *LedgerUseCase
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(ledgerRepo LedgerRepository) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledgerRepo: ledgerRepo,
		ledger:     NewLedgerUseCase(ledgerRepo),
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID         string
	RecordedBalance   int64
	CalculatedBalance int64
	Difference        int64
	IsReconciled      bool
}

// ReconcileAllAccounts compares every stored balance with the sum of its settled entries.
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	summaries, err := uc.ledgerRepo.AccountSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account summaries: %w", err)
	}

	results := make([]*ReconciliationResult, 0, len(summaries))
	for _, s := range summaries {
		results = append(results, &ReconciliationResult{
			AccountID:         s.AccountID,
			RecordedBalance:   s.RecordedBalance,
			CalculatedBalance: s.EntryBalance,
			Difference:        s.RecordedBalance - s.EntryBalance,
			IsReconciled:      s.RecordedBalance == s.EntryBalance,
		})
	}

	return results, nil
}

// CheckLedgerConsistency verifies that total balances match total settled entries
func (uc *ReconciliationUseCase) CheckLedgerConsistency(ctx context.Context) error {
	_, err := uc.ledger.CheckConsistency(ctx)
	return err
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts         int
	ReconciledAccounts    int
	Discrepancies         []*ReconciliationResult
	LedgerConsistent      bool
	PendingCashbackCount  int64
	PendingCashbackAmount int64
	CheckedAt             time.Time
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	summaries, err := uc.ledgerRepo.AccountSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account summaries: %w", err)
	}

	ledgerErr := uc.CheckLedgerConsistency(ctx)
	if ledgerErr != nil && !errors.Is(ledgerErr, ErrInconsistentLedger) {
		return nil, ledgerErr
	}

	report := &ReconciliationReport{
		TotalAccounts:    len(summaries),
		Discrepancies:    make([]*ReconciliationResult, 0),
		LedgerConsistent: ledgerErr == nil,
		CheckedAt:        time.Now().UTC(),
	}

	for _, s := range summaries {
		report.PendingCashbackCount += s.PendingCashbackCount
		report.PendingCashbackAmount += s.PendingCashbackAmount

		if s.RecordedBalance == s.EntryBalance {
			report.ReconciledAccounts++
			continue
		}
		report.Discrepancies = append(report.Discrepancies, &ReconciliationResult{
			AccountID:         s.AccountID,
			RecordedBalance:   s.RecordedBalance,
			CalculatedBalance: s.EntryBalance,
			Difference:        s.RecordedBalance - s.EntryBalance,
			IsReconciled:      false,
		})
	}

	return report, nil
}
