package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iho/cashledger/internal/domain"
)

func newRepos() (*Store, *TxManager, *AccountRepository, *EntryRepository) {
	store := NewStore()
	return store, NewTxManager(store), NewAccountRepository(store), NewEntryRepository(store)
}

func TestCommitPublishesWorkingState(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, entries := newRepos()

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))
	require.NoError(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "a1", Operation: domain.OperationCreated, Deposited: true}))

	_, err = accounts.GetByID(ctx, "a1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound, "uncommitted account must not be visible")

	require.NoError(t, tx.Commit(ctx))
	require.NoError(t, tx.Rollback(ctx), "rollback after commit is a no-op")

	acc, err := accounts.GetByID(ctx, "a1")
	require.NoError(t, err)
	require.Equal(t, int64(0), acc.Balance)

	ids, err := accounts.ListIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a1"}, ids)
}

func TestRollbackDiscardsWorkingState(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, _ := newRepos()

	tx, err := txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))
	require.NoError(t, tx.Rollback(ctx))

	_, err = accounts.GetByID(ctx, "a1")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	// the writer slot must be free again
	tx, err = txm.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}

func TestBeginTimesOutWhileWriterBusy(t *testing.T) {
	_, txm, _, _ := newRepos()

	tx, err := txm.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = txm.Begin(ctx)
	require.ErrorIs(t, err, domain.ErrTransient)
}

func TestAccountRepository_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, _ := newRepos()

	tx, _ := txm.Begin(ctx)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()
	require.ErrorIs(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 5)), domain.ErrAccountAlreadyExists)
}

func TestAccountRepository_BalanceUpdates(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, _ := newRepos()

	tx, _ := txm.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))

	require.NoError(t, accounts.UpdateBalance(ctx, tx, "a1", 100))
	balance, err := accounts.AddToBalance(ctx, tx, "a1", 2)
	require.NoError(t, err)
	require.Equal(t, int64(102), balance)

	require.ErrorIs(t, accounts.UpdateBalance(ctx, tx, "a1", -1), domain.ErrInsufficientFunds)
	require.ErrorIs(t, accounts.UpdateBalance(ctx, tx, "missing", 1), domain.ErrAccountNotFound)
	_, err = accounts.AddToBalance(ctx, tx, "missing", 1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestEntryRepository_DueCashbacks(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, entries := newRepos()

	tx, _ := txm.Begin(ctx)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("b", 0)))
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a", 0)))
	require.NoError(t, entries.Create(ctx, tx, domain.NewPendingCashback("b", "payment1", 0, 100)))
	require.NoError(t, entries.Create(ctx, tx, domain.NewPendingCashback("a", "payment2", 5, 100)))
	require.NoError(t, entries.Create(ctx, tx, domain.NewPendingCashback("a", "payment3", 10, 100)))
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()

	due, err := entries.LockDueCashbacks(ctx, tx, domain.CashbackDelay-1)
	require.NoError(t, err)
	require.Empty(t, due)

	due, err = entries.LockDueCashbacks(ctx, tx, domain.CashbackDelay+5)
	require.NoError(t, err)
	require.Len(t, due, 2)
	require.Equal(t, "a", due[0].AccountID)
	require.Equal(t, "b", due[1].AccountID)

	require.NoError(t, entries.MarkCashbackDeposited(ctx, tx, due[0].TransactionID))
	require.Error(t, entries.MarkCashbackDeposited(ctx, tx, due[0].TransactionID), "second flip must fail")

	due, err = entries.LockDueCashbacks(ctx, tx, domain.CashbackDelay+5)
	require.NoError(t, err)
	require.Len(t, due, 1)
}

func TestEntryRepository_ListByAccountInsertionOrder(t *testing.T) {
	ctx := context.Background()
	_, txm, accounts, entries := newRepos()

	tx, _ := txm.Begin(ctx)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a2", 0)))
	ops := []domain.Operation{domain.OperationCreated, domain.OperationDeposited, domain.OperationTransferredOut}
	for _, op := range ops {
		require.NoError(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "a1", Operation: op, Deposited: true}))
		require.NoError(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "a2", Operation: op, Deposited: true}))
	}
	require.ErrorIs(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "nope"}), domain.ErrAccountNotFound)
	require.NoError(t, tx.Commit(ctx))

	list, err := entries.ListByAccount(ctx, nil, "a1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, e := range list {
		require.Equal(t, ops[i], e.Operation)
		if i > 0 {
			require.Greater(t, e.TransactionID, list[i-1].TransactionID)
		}
	}
}

func TestSequenceRepository_RollbackDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	_, txm, _, _ := newRepos()
	seq := NewSequenceRepository()

	tx, _ := txm.Begin(ctx)
	n, err := seq.Next(ctx, tx, "payment")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, tx.Rollback(ctx))

	tx, _ = txm.Begin(ctx)
	n, err = seq.Next(ctx, tx, "payment")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
	require.NoError(t, tx.Commit(ctx))

	tx, _ = txm.Begin(ctx)
	defer func() { _ = tx.Rollback(ctx) }()
	n, err = seq.Next(ctx, tx, "payment")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}

func TestOutboxRepository_VisibleAfterCommit(t *testing.T) {
	ctx := context.Background()
	store, txm, _, _ := newRepos()
	outbox := NewOutboxRepository(store)

	tx, _ := txm.Begin(ctx)
	require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "e1", EventType: domain.EventTypeAccountCreated}))
	require.NoError(t, tx.Rollback(ctx))

	events, err := outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, events)

	tx, _ = txm.Begin(ctx)
	require.NoError(t, outbox.Create(ctx, tx, &domain.OutboxEvent{ID: "e2", EventType: domain.EventTypeAccountCreated}))
	require.NoError(t, tx.Commit(ctx))

	events, err = outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	published := time.Now().Add(-time.Hour)
	require.NoError(t, outbox.MarkPublished(ctx, "e2", published))
	require.Error(t, outbox.MarkPublished(ctx, "missing", published))

	events, err = outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, events)

	require.NoError(t, outbox.DeletePublished(ctx, time.Now()))
	require.Empty(t, store.outbox)
}

func TestLedgerRepository_Summaries(t *testing.T) {
	ctx := context.Background()
	store, txm, accounts, entries := newRepos()
	ledger := NewLedgerRepository(store)

	tx, _ := txm.Begin(ctx)
	require.NoError(t, accounts.Create(ctx, tx, domain.NewAccount("a1", 0)))
	require.NoError(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "a1", Operation: domain.OperationDeposited, Amount: 500, Deposited: true}))
	require.NoError(t, entries.Create(ctx, tx, &domain.LedgerEntry{AccountID: "a1", Operation: domain.PaymentOperation("payment1"), Amount: 100, Deposited: true}))
	require.NoError(t, entries.Create(ctx, tx, domain.NewPendingCashback("a1", "payment1", 2, 100)))
	require.NoError(t, accounts.UpdateBalance(ctx, tx, "a1", 400))
	require.NoError(t, tx.Commit(ctx))

	balance, total, err := ledger.CheckConsistency(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(400), balance)
	require.Equal(t, int64(400), total)

	summaries, err := ledger.AccountSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, int64(1), summaries[0].PendingCashbackCount)
	require.Equal(t, int64(2), summaries[0].PendingCashbackAmount)
}
