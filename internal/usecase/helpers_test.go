package usecase_test

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/iho/cashledger/internal/adapter/repository/memory"
	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

type sequentialIDs struct {
	n atomic.Int64
}

func (g *sequentialIDs) Generate() string {
	return "evt-" + strconv.FormatInt(g.n.Add(1), 10)
}

// ledger bundles the use cases over a fresh in-memory store.
type ledger struct {
	store    *memory.Store
	accounts *usecase.AccountUseCase
	money    *usecase.TransferUseCase
	payments *usecase.PaymentUseCase
	recon    *usecase.ReconciliationUseCase
	outbox   *memory.OutboxRepository
	entries  *memory.EntryRepository
}

func newLedger(t *testing.T) *ledger {
	t.Helper()

	store := memory.NewStore()
	txManager := memory.NewTxManager(store)
	accountRepo := memory.NewAccountRepository(store)
	entryRepo := memory.NewEntryRepository(store)
	outboxRepo := memory.NewOutboxRepository(store)
	idGen := &sequentialIDs{}

	sweeper := usecase.NewCashbackSweeper(accountRepo, entryRepo, outboxRepo, idGen, nil)

	return &ledger{
		store:    store,
		accounts: usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, outboxRepo, sweeper, idGen, nil),
		money:    usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, outboxRepo, sweeper, idGen, nil),
		payments: usecase.NewPaymentUseCase(txManager, accountRepo, entryRepo, memory.NewSequenceRepository(), outboxRepo, sweeper, idGen, nil),
		recon:    usecase.NewReconciliationUseCase(memory.NewLedgerRepository(store)),
		outbox:   outboxRepo,
		entries:  entryRepo,
	}
}

func (l *ledger) mustCreate(t *testing.T, ts int64, id string) {
	t.Helper()
	if _, err := l.accounts.CreateAccount(context.Background(), usecase.CreateAccountInput{Timestamp: ts, AccountID: id}); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

func (l *ledger) mustDeposit(t *testing.T, ts int64, id string, amount int64) int64 {
	t.Helper()
	balance, err := l.money.Deposit(context.Background(), usecase.DepositInput{Timestamp: ts, AccountID: id, Amount: amount})
	if err != nil {
		t.Fatalf("deposit %d to %s: %v", amount, id, err)
	}
	return balance
}

func (l *ledger) balance(t *testing.T, id string) int64 {
	t.Helper()
	balance, err := l.accounts.GetBalance(context.Background(), id)
	if err != nil {
		t.Fatalf("balance of %s: %v", id, err)
	}
	return balance
}

func (l *ledger) history(t *testing.T, id string) []*domain.LedgerEntry {
	t.Helper()
	entries, err := l.entries.ListByAccount(context.Background(), nil, id)
	if err != nil {
		t.Fatalf("history of %s: %v", id, err)
	}
	return entries
}

// assertReconciled checks that every balance equals the sum of its settled entries.
func (l *ledger) assertReconciled(t *testing.T) {
	t.Helper()
	report, err := l.recon.GenerateReconciliationReport(context.Background())
	if err != nil {
		t.Fatalf("reconciliation failed: %v", err)
	}
	if len(report.Discrepancies) != 0 || !report.LedgerConsistent {
		t.Fatalf("ledger not reconciled: %+v", report.Discrepancies)
	}
}
