package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
)

// CashbackSweeper credits matured cashback entries. It runs inside the
// transaction of the operation that triggers it and never commits on its own.
type CashbackSweeper struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
	events      eventRecorder
	metrics     *metrics.Metrics
}

// NewCashbackSweeper creates a new CashbackSweeper.
func NewCashbackSweeper(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CashbackSweeper {
	return &CashbackSweeper{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		events:      eventRecorder{outboxRepo: outboxRepo, idGen: idGen},
		metrics:     metrics,
	}
}

// Sweep locks every pending cashback due at now, marks it deposited and credits
// its account. It returns the newly credited entries.
func (s *CashbackSweeper) Sweep(ctx context.Context, tx Transaction, now int64) ([]*domain.LedgerEntry, error) {
	due, err := s.entryRepo.LockDueCashbacks(ctx, tx, now)
	if err != nil {
		return nil, fmt.Errorf("lock due cashbacks: %w", err)
	}
	if len(due) == 0 {
		return nil, nil
	}

	credits := make(map[string]int64)
	for _, entry := range due {
		if err := s.entryRepo.MarkCashbackDeposited(ctx, tx, entry.TransactionID); err != nil {
			return nil, fmt.Errorf("mark cashback %d deposited: %w", entry.TransactionID, err)
		}
		entry.Deposited = true
		credits[entry.AccountID] += entry.Amount
	}

	// Account rows are locked in ascending id order, the same order transfers use.
	accountIDs := make([]string, 0, len(credits))
	for id := range credits {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	logger := zerolog.Ctx(ctx)
	for _, id := range accountIDs {
		balance, err := s.accountRepo.AddToBalance(ctx, tx, id, credits[id])
		if err != nil {
			return nil, fmt.Errorf("credit cashback to %s: %w", id, err)
		}
		logger.Debug().
			Str("account_id", id).
			Int64("amount", credits[id]).
			Int64("balance", balance).
			Int64("now", now).
			Msg("cashback credited")
	}

	for _, entry := range due {
		paymentID := ""
		if entry.PaymentRef != nil {
			paymentID = *entry.PaymentRef
		}
		err := s.events.record(ctx, tx, domain.AggregateTypeAccount, entry.AccountID, domain.EventTypeCashbackCredited,
			domain.CashbackCreditedEvent{
				AccountID: entry.AccountID,
				PaymentID: paymentID,
				Amount:    entry.Amount,
				MaturedAt: entry.Timestamp,
				SweptAt:   now,
			})
		if err != nil {
			return nil, err
		}
	}

	return due, nil
}

// Observe records metrics for entries credited by a committed sweep.
func (s *CashbackSweeper) Observe(credited []*domain.LedgerEntry) {
	if s.metrics == nil || len(credited) == 0 {
		return
	}

	var total int64
	for _, entry := range credited {
		total += entry.Amount
	}
	s.metrics.ObserveCashbackCredited(len(credited), total)
}
