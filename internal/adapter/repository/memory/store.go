// Package memory provides a single-process storage driver with the same
// transactional contracts as the Postgres adapter.
//
// Read-write transactions are serialized and work on a private copy of the
// committed state, which replaces the committed state on commit. Reads outside
// a transaction see the last committed snapshot.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

var errTxClosed = errors.New("memory: transaction already closed")

type state struct {
	accounts  map[string]domain.Account
	entries   []domain.LedgerEntry
	sequences map[string]int64
}

func newState() *state {
	return &state{
		accounts:  make(map[string]domain.Account),
		sequences: make(map[string]int64),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:  make(map[string]domain.Account, len(s.accounts)),
		entries:   make([]domain.LedgerEntry, len(s.entries), len(s.entries)+8),
		sequences: make(map[string]int64, len(s.sequences)),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	copy(c.entries, s.entries)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store holds the committed ledger state.
type Store struct {
	writer chan struct{}

	mu        sync.RWMutex
	committed *state

	outboxMu sync.Mutex
	outbox   []*domain.OutboxEvent
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		writer:    make(chan struct{}, 1),
		committed: newState(),
	}
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// TxManager implements usecase.TransactionManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the writer slot and starts a transaction. A context that ends
// while waiting yields domain.ErrTransient, like a lock timeout would.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	select {
	case m.store.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: waiting for writer: %v", domain.ErrTransient, ctx.Err())
	}

	return &Tx{store: m.store, working: m.store.snapshot().clone()}, nil
}

// Tx is an in-memory transaction.
type Tx struct {
	store   *Store
	working *state
	outbox  []*domain.OutboxEvent
	closed  bool
}

// Commit publishes the working state.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	t.closed = true

	t.store.mu.Lock()
	t.store.committed = t.working
	t.store.mu.Unlock()

	if len(t.outbox) > 0 {
		t.store.outboxMu.Lock()
		t.store.outbox = append(t.store.outbox, t.outbox...)
		t.store.outboxMu.Unlock()
	}

	<-t.store.writer
	return nil
}

// Rollback discards the working state. Rolling back a closed transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true
	<-t.store.writer
	return nil
}

func workingState(tx usecase.Transaction) (*state, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, fmt.Errorf("memory: unexpected transaction type %T", tx)
	}
	if t.closed {
		return nil, errTxClosed
	}
	return t.working, nil
}
