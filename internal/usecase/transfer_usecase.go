package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
)

// TransferUseCase handles deposits and account-to-account transfers.
type TransferUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	sweeper     *CashbackSweeper
	events      eventRecorder
	metrics     *metrics.Metrics
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	sweeper *CashbackSweeper,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		sweeper:     sweeper,
		events:      eventRecorder{outboxRepo: outboxRepo, idGen: idGen},
		metrics:     metrics,
	}
}

// DepositInput represents input for a deposit.
type DepositInput struct {
	Timestamp int64
	AccountID string
	Amount    int64
}

// Deposit credits amount to an account and returns the new balance.
func (uc *TransferUseCase) Deposit(ctx context.Context, input DepositInput) (balance int64, err error) {
	start := time.Now()
	defer func() { uc.observe("deposit", start, err) }()

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return 0, err
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return 0, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	credited, err := uc.sweeper.Sweep(txCtx, tx, input.Timestamp)
	if err != nil {
		return 0, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return 0, err
	}

	balance = account.ApplyCredit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, balance); err != nil {
		return 0, err
	}

	entry := &domain.LedgerEntry{
		AccountID: account.ID,
		Timestamp: input.Timestamp,
		Operation: domain.OperationDeposited,
		Amount:    input.Amount,
		Deposited: true,
	}
	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return 0, err
	}

	err = uc.events.record(txCtx, tx, domain.AggregateTypeAccount, account.ID, domain.EventTypeFundsDeposited,
		domain.FundsDepositedEvent{
			AccountID: account.ID,
			Amount:    input.Amount,
			Balance:   balance,
			Timestamp: input.Timestamp,
		})
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}
	uc.sweeper.Observe(credited)

	if uc.metrics != nil {
		uc.metrics.DepositAmount.Observe(float64(input.Amount))
	}

	return balance, nil
}

// TransferInput represents input for a transfer.
type TransferInput struct {
	Timestamp     int64
	FromAccountID string
	ToAccountID   string
	Amount        int64
}

// Transfer moves amount between two accounts and returns the new source balance.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (balance int64, err error) {
	start := time.Now()
	defer func() { uc.observe("transfer", start, err) }()

	// 0. Validate inputs before starting transaction
	if err := domain.ValidateAccountID(input.FromAccountID); err != nil {
		return 0, err
	}
	if err := domain.ValidateAccountID(input.ToAccountID); err != nil {
		return 0, err
	}
	if input.FromAccountID == input.ToAccountID {
		return 0, domain.ErrSameAccount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return 0, err
	}

	// 1. Sort account IDs (DEADLOCK PREVENTION)
	accountIDs := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(accountIDs)

	// 2. Begin transaction
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 3. Mature due cashbacks
	credited, err := uc.sweeper.Sweep(txCtx, tx, input.Timestamp)
	if err != nil {
		return 0, err
	}

	// 4. Lock accounts in sorted order
	accounts := make(map[string]*domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return 0, err
		}
		accounts[id] = account
	}

	from := accounts[input.FromAccountID]
	to := accounts[input.ToAccountID]

	// 5. Validate debit
	if err := from.ValidateDebit(input.Amount); err != nil {
		return 0, err
	}

	// 6. Apply both sides
	fromBalance := from.ApplyDebit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, from.ID, fromBalance); err != nil {
		return 0, err
	}

	toBalance := to.ApplyCredit(input.Amount)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, to.ID, toBalance); err != nil {
		return 0, err
	}

	entries := []*domain.LedgerEntry{
		{
			AccountID: from.ID,
			Timestamp: input.Timestamp,
			Operation: domain.OperationTransferredOut,
			Amount:    input.Amount,
			Deposited: true,
		},
		{
			AccountID: to.ID,
			Timestamp: input.Timestamp,
			Operation: domain.OperationTransferredIn,
			Amount:    input.Amount,
			Deposited: true,
		},
	}
	for _, entry := range entries {
		if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
			return 0, err
		}
	}

	err = uc.events.record(txCtx, tx, domain.AggregateTypeAccount, from.ID, domain.EventTypeFundsTransferred,
		domain.FundsTransferredEvent{
			FromAccountID: from.ID,
			ToAccountID:   to.ID,
			Amount:        input.Amount,
			Timestamp:     input.Timestamp,
		})
	if err != nil {
		return 0, err
	}

	// 7. Commit transaction
	if err := tx.Commit(txCtx); err != nil {
		return 0, err
	}
	uc.sweeper.Observe(credited)

	if uc.metrics != nil {
		uc.metrics.TransferAmount.Observe(float64(input.Amount))
	}

	return fromBalance, nil
}

func (uc *TransferUseCase) observe(operation string, start time.Time, err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveOperation(operation, start, err)
	}
}
