package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/cashledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account, failing with domain.ErrAccountAlreadyExists on a reused id.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance int64) error
	// AddToBalance credits delta to the account and returns the new balance.
	AddToBalance(ctx context.Context, tx Transaction, id string, delta int64) (int64, error)
	// ListIDs returns every account id in lexicographic order.
	ListIDs(ctx context.Context) ([]string, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	// Create appends the entry and sets its TransactionID.
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// ListByAccount returns the account's entries in insertion order.
	ListByAccount(ctx context.Context, tx Transaction, accountID string) ([]*domain.LedgerEntry, error)
	// LockDueCashbacks locks and returns every pending cashback with timestamp <= now,
	// ordered by account id then transaction id.
	LockDueCashbacks(ctx context.Context, tx Transaction, now int64) ([]*domain.LedgerEntry, error)
	MarkCashbackDeposited(ctx context.Context, tx Transaction, transactionID int64) error
}

// SequenceRepository allocates values from named counters inside a transaction.
type SequenceRepository interface {
	Next(ctx context.Context, tx Transaction, name string) (int64, error)
}

// AccountSummary compares an account's stored balance with its entry history.
type AccountSummary struct {
	AccountID             string
	RecordedBalance       int64
	EntryBalance          int64
	PendingCashbackCount  int64
	PendingCashbackAmount int64
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	// CheckConsistency returns the sum of all account balances and the sum of all
	// settled entry effects.
	CheckConsistency(ctx context.Context) (totalBalance, totalEntries int64, err error)
	AccountSummaries(ctx context.Context) ([]AccountSummary, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request did not succeed, so it can be retried.
	Release(ctx context.Context, key string) error
}
