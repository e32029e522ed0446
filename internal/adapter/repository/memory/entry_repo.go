package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	store *Store
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(store *Store) *EntryRepository {
	return &EntryRepository{store: store}
}

// Create appends an entry. Transaction ids are the 1-based position in the log.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	st, err := workingState(tx)
	if err != nil {
		return err
	}
	if _, ok := st.accounts[entry.AccountID]; !ok {
		return domain.ErrAccountNotFound
	}
	entry.TransactionID = int64(len(st.entries)) + 1
	st.entries = append(st.entries, *entry)
	return nil
}

// ListByAccount returns an account's entries in insertion order. A nil tx reads
// the committed snapshot.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.LedgerEntry, error) {
	st := r.store.snapshot()
	if tx != nil {
		var err error
		if st, err = workingState(tx); err != nil {
			return nil, err
		}
	}

	entries := make([]*domain.LedgerEntry, 0)
	for i := range st.entries {
		if st.entries[i].AccountID == accountID {
			e := st.entries[i]
			entries = append(entries, &e)
		}
	}
	return entries, nil
}

// LockDueCashbacks returns pending cashbacks due at now. The transaction already
// holds the single writer slot, so no row locks are needed.
func (r *EntryRepository) LockDueCashbacks(ctx context.Context, tx usecase.Transaction, now int64) ([]*domain.LedgerEntry, error) {
	st, err := workingState(tx)
	if err != nil {
		return nil, err
	}

	var due []*domain.LedgerEntry
	for i := range st.entries {
		if st.entries[i].IsDue(now) {
			e := st.entries[i]
			due = append(due, &e)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].AccountID != due[j].AccountID {
			return due[i].AccountID < due[j].AccountID
		}
		return due[i].TransactionID < due[j].TransactionID
	})

	return due, nil
}

// MarkCashbackDeposited flips a pending cashback to deposited.
func (r *EntryRepository) MarkCashbackDeposited(ctx context.Context, tx usecase.Transaction, transactionID int64) error {
	st, err := workingState(tx)
	if err != nil {
		return err
	}
	if transactionID < 1 || transactionID > int64(len(st.entries)) {
		return fmt.Errorf("cashback %d not found", transactionID)
	}

	entry := &st.entries[transactionID-1]
	if !entry.IsPending() {
		return fmt.Errorf("cashback %d is not pending", transactionID)
	}
	entry.Deposited = true
	return nil
}
