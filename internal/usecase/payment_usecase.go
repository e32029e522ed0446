package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
)

// PaymentUseCase handles payments and the cashback they schedule.
type PaymentUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	entryRepo    EntryRepository
	sequenceRepo SequenceRepository
	sweeper      *CashbackSweeper
	events       eventRecorder
	metrics      *metrics.Metrics
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	sequenceRepo SequenceRepository,
	outboxRepo OutboxRepository,
	sweeper *CashbackSweeper,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		sequenceRepo: sequenceRepo,
		sweeper:      sweeper,
		events:       eventRecorder{outboxRepo: outboxRepo, idGen: idGen},
		metrics:      metrics,
	}
}

// PayInput represents input for a payment.
type PayInput struct {
	Timestamp int64
	AccountID string
	Amount    int64
}

// PayResult describes a completed payment.
type PayResult struct {
	PaymentID         string
	Balance           int64
	Cashback          int64
	CashbackMaturesAt int64
}

// Pay debits amount, records the payment and schedules its cashback.
func (uc *PaymentUseCase) Pay(ctx context.Context, input PayInput) (result *PayResult, err error) {
	start := time.Now()
	defer func() { uc.observe("pay", start, err) }()

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	credited, err := uc.sweeper.Sweep(txCtx, tx, input.Timestamp)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	// Allocated after validation so a rejected payment never consumes an id.
	seq, err := uc.sequenceRepo.Next(txCtx, tx, PaymentSequence)
	if err != nil {
		return nil, fmt.Errorf("allocate payment id: %w", err)
	}
	paymentID := domain.FormatPaymentID(seq)

	balance := account.ApplyDebit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, balance); err != nil {
		return nil, err
	}

	payment := &domain.LedgerEntry{
		AccountID: account.ID,
		Timestamp: input.Timestamp,
		Operation: domain.PaymentOperation(paymentID),
		Amount:    input.Amount,
		Deposited: true,
	}
	if err := uc.entryRepo.Create(txCtx, tx, payment); err != nil {
		return nil, err
	}

	cashback := domain.NewPendingCashback(account.ID, paymentID, input.Timestamp, input.Amount)
	if err := uc.entryRepo.Create(txCtx, tx, cashback); err != nil {
		return nil, err
	}

	err = uc.events.record(txCtx, tx, domain.AggregateTypePayment, paymentID, domain.EventTypePaymentCreated,
		domain.PaymentCreatedEvent{
			PaymentID:         paymentID,
			AccountID:         account.ID,
			Amount:            input.Amount,
			Cashback:          cashback.Amount,
			CashbackMaturesAt: cashback.Timestamp,
			Timestamp:         input.Timestamp,
		})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	uc.sweeper.Observe(credited)

	if uc.metrics != nil {
		uc.metrics.PaymentAmount.Observe(float64(input.Amount))
		uc.metrics.CashbacksScheduled.Inc()
	}

	return &PayResult{
		PaymentID:         paymentID,
		Balance:           balance,
		Cashback:          cashback.Amount,
		CashbackMaturesAt: cashback.Timestamp,
	}, nil
}

func (uc *PaymentUseCase) observe(operation string, start time.Time, err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveOperation(operation, start, err)
	}
}
