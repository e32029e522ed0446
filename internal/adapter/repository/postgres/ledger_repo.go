package postgres

import (
	"context"

	"github.com/iho/cashledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cashledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// CheckConsistency sums all account balances and all settled entry effects.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	result, err := r.queries.CheckLedgerConsistency(ctx)
	if err != nil {
		return 0, 0, mapError(err)
	}

	return result.TotalAccountBalance, result.TotalEntryAmount, nil
}

// AccountSummaries compares each account's balance with its entry history.
func (r *LedgerRepository) AccountSummaries(ctx context.Context) ([]usecase.AccountSummary, error) {
	rows, err := r.queries.GetAccountSummaries(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	summaries := make([]usecase.AccountSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, usecase.AccountSummary{
			AccountID:             row.AccountID,
			RecordedBalance:       row.RecordedBalance,
			EntryBalance:          row.EntryBalance,
			PendingCashbackCount:  row.PendingCashbackCount,
			PendingCashbackAmount: row.PendingCashbackAmount,
		})
	}

	return summaries, nil
}
