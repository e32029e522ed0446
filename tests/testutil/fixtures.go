package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/cashledger/internal/adapter/repository/postgres"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
	infrapg "github.com/iho/cashledger/internal/infrastructure/postgres"
	"github.com/iho/cashledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cashledger/internal/usecase"
)

// TestDB provides test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to DATABASE_URL and applies migrations. The test is
// skipped under -short or when DATABASE_URL is unset.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = zerolog.New(zerolog.NewTestWriter(t)).WithContext(ctx)

	if err := infrapg.RunMigrations(ctx, dbURL); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := infrapg.NewPool(ctx, infrapg.PoolConfig{
		DatabaseURL: dbURL,
		MaxConns:    20,
		LockTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data and resets the payment counter.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE ledger_transactions, accounts, outbox_events RESTART IDENTITY CASCADE;
		UPDATE sequences SET value = 0;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Ledger bundles the use cases over the Postgres repositories.
type Ledger struct {
	Accounts       *usecase.AccountUseCase
	Money          *usecase.TransferUseCase
	Payments       *usecase.PaymentUseCase
	Ledger         *usecase.LedgerUseCase
	Reconciliation *usecase.ReconciliationUseCase
	Outbox         *postgres.OutboxRepository
	Metrics        *metrics.Metrics
}

// NewLedger wires the use cases to db.
func (db *TestDB) NewLedger() *Ledger {
	pool := db.Pool
	m := metrics.New(prometheus.NewRegistry())

	txManager := postgres.NewTxManager(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	outboxRepo := postgres.NewOutboxRepository(pool)
	idGen := postgres.NewULIDGenerator()

	sweeper := usecase.NewCashbackSweeper(accountRepo, entryRepo, outboxRepo, idGen, m)

	return &Ledger{
		Accounts:       usecase.NewAccountUseCase(txManager, accountRepo, entryRepo, outboxRepo, sweeper, idGen, m),
		Money:          usecase.NewTransferUseCase(txManager, accountRepo, entryRepo, outboxRepo, sweeper, idGen, m),
		Payments:       usecase.NewPaymentUseCase(txManager, accountRepo, entryRepo, postgres.NewSequenceRepository(), outboxRepo, sweeper, idGen, m),
		Ledger:         usecase.NewLedgerUseCase(ledgerRepo),
		Reconciliation: usecase.NewReconciliationUseCase(ledgerRepo),
		Outbox:         outboxRepo,
		Metrics:        m,
	}
}

// MustCreateAccount creates an account or fails the test.
func (l *Ledger) MustCreateAccount(t *testing.T, ctx context.Context, ts int64, id string) {
	t.Helper()

	if _, err := l.Accounts.CreateAccount(ctx, usecase.CreateAccountInput{Timestamp: ts, AccountID: id}); err != nil {
		t.Fatalf("create account %s: %v", id, err)
	}
}

// MustDeposit deposits into an account or fails the test.
func (l *Ledger) MustDeposit(t *testing.T, ctx context.Context, ts int64, id string, amount int64) {
	t.Helper()

	if _, err := l.Money.Deposit(ctx, usecase.DepositInput{Timestamp: ts, AccountID: id, Amount: amount}); err != nil {
		t.Fatalf("deposit %d into %s: %v", amount, id, err)
	}
}

// Balance returns an account balance or fails the test.
func (l *Ledger) Balance(t *testing.T, ctx context.Context, id string) int64 {
	t.Helper()

	balance, err := l.Accounts.GetBalance(ctx, id)
	if err != nil {
		t.Fatalf("balance of %s: %v", id, err)
	}
	return balance
}
