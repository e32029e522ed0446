package memory

import (
	"context"
	"sort"

	"github.com/iho/cashledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	store *Store
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

// CheckConsistency sums committed balances and settled entry effects.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	st := r.store.snapshot()

	var totalBalance, totalEntries int64
	for _, a := range st.accounts {
		totalBalance += a.Balance
	}
	for i := range st.entries {
		totalEntries += st.entries[i].SignedAmount()
	}
	return totalBalance, totalEntries, nil
}

// AccountSummaries returns per-account balances and entry sums ordered by account id.
func (r *LedgerRepository) AccountSummaries(ctx context.Context) ([]usecase.AccountSummary, error) {
	st := r.store.snapshot()

	byID := make(map[string]*usecase.AccountSummary, len(st.accounts))
	for id, a := range st.accounts {
		byID[id] = &usecase.AccountSummary{AccountID: id, RecordedBalance: a.Balance}
	}
	for i := range st.entries {
		e := &st.entries[i]
		s, ok := byID[e.AccountID]
		if !ok {
			continue
		}
		s.EntryBalance += e.SignedAmount()
		if e.IsPending() {
			s.PendingCashbackCount++
			s.PendingCashbackAmount += e.Amount
		}
	}

	summaries := make([]usecase.AccountSummary, 0, len(byID))
	for _, s := range byID {
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].AccountID < summaries[j].AccountID })
	return summaries, nil
}
