package postgres

import (
	"context"
	"fmt"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cashledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(db generated.DBTX) *EntryRepository {
	return &EntryRepository{
		queries: generated.New(db),
	}
}

// Create appends an entry and stores the assigned transaction id on it.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	id, err := queriesFor(tx).CreateLedgerTransaction(ctx, generated.CreateLedgerTransactionParams{
		AccountID:  entry.AccountID,
		Timestamp:  entry.Timestamp,
		Operation:  string(entry.Operation),
		Amount:     entry.Amount,
		PaymentRef: entry.PaymentRef,
		Deposited:  entry.Deposited,
	})
	if err != nil {
		return mapError(err)
	}

	entry.TransactionID = id
	return nil
}

// ListByAccount returns the account's entries in insertion order. A nil tx
// reads committed data outside any transaction.
func (r *EntryRepository) ListByAccount(ctx context.Context, tx usecase.Transaction, accountID string) ([]*domain.LedgerEntry, error) {
	queries := r.queries
	if tx != nil {
		queries = queriesFor(tx)
	}

	rows, err := queries.ListLedgerTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToEntries(rows), nil
}

// LockDueCashbacks locks every pending cashback that matured at or before now.
func (r *EntryRepository) LockDueCashbacks(ctx context.Context, tx usecase.Transaction, now int64) ([]*domain.LedgerEntry, error) {
	rows, err := queriesFor(tx).LockDueCashbacks(ctx, now)
	if err != nil {
		return nil, mapError(err)
	}

	return rowsToEntries(rows), nil
}

// MarkCashbackDeposited flips a locked pending cashback to deposited.
func (r *EntryRepository) MarkCashbackDeposited(ctx context.Context, tx usecase.Transaction, transactionID int64) error {
	updated, err := queriesFor(tx).MarkCashbackDeposited(ctx, transactionID)
	if err != nil {
		return mapError(err)
	}
	if updated == 0 {
		return fmt.Errorf("cashback %d is not pending", transactionID)
	}

	return nil
}

func rowsToEntries(rows []generated.LedgerTransaction) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &domain.LedgerEntry{
			TransactionID: row.TransactionID,
			AccountID:     row.AccountID,
			Timestamp:     row.Timestamp,
			Operation:     domain.Operation(row.Operation),
			Amount:        row.Amount,
			PaymentRef:    row.PaymentRef,
			Deposited:     row.Deposited,
		})
	}

	return entries
}
