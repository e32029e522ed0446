package usecase

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInconsistentLedger is returned when stored balances disagree with the entry history.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not match entries")
)

// LedgerTotals compares the sum of stored balances with the sum of settled
// entry effects. Pending cashbacks contribute nothing until credited.
type LedgerTotals struct {
	TotalBalance int64
	TotalEntries int64
}

// Consistent reports whether both sums agree.
func (t LedgerTotals) Consistent() bool {
	return t.TotalBalance == t.TotalEntries
}

// Difference is TotalBalance minus TotalEntries.
func (t LedgerTotals) Difference() int64 {
	return t.TotalBalance - t.TotalEntries
}

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency returns the ledger totals. When they disagree the totals
// come back together with an error wrapping ErrInconsistentLedger.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*LedgerTotals, error) {
	totalBalance, totalEntries, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger totals: %w", err)
	}

	totals := &LedgerTotals{TotalBalance: totalBalance, TotalEntries: totalEntries}
	if !totals.Consistent() {
		return totals, fmt.Errorf(
			"%w: balances=%d entries=%d difference=%d",
			ErrInconsistentLedger, totalBalance, totalEntries, totals.Difference(),
		)
	}

	return totals, nil
}
