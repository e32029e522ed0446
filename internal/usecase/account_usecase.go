package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle and account reads.
type AccountUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	sweeper     *CashbackSweeper
	events      eventRecorder
	metrics     *metrics.Metrics

	cache    Cache
	cacheTTL time.Duration
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	sweeper *CashbackSweeper,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *AccountUseCase {
	return &AccountUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		sweeper:     sweeper,
		events:      eventRecorder{outboxRepo: outboxRepo, idGen: idGen},
		metrics:     metrics,
	}
}

// WithAccountListCache caches the sorted account id list for ttl.
// Account creation invalidates the cached list.
func (uc *AccountUseCase) WithAccountListCache(cache Cache, ttl time.Duration) *AccountUseCase {
	uc.cache = cache
	uc.cacheTTL = ttl
	return uc
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Timestamp int64
	AccountID string
}

// CreateAccount opens an account with a zero balance and records its created entry.
// No cashback sweep runs: a new account has no history to mature.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (account *domain.Account, err error) {
	start := time.Now()
	defer func() { uc.observe("create_account", start, err) }()

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account = domain.NewAccount(input.AccountID, input.Timestamp)
	if err := uc.accountRepo.Create(txCtx, tx, account); err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		AccountID: account.ID,
		Timestamp: input.Timestamp,
		Operation: domain.OperationCreated,
		Amount:    0,
		Deposited: true,
	}
	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	err = uc.events.record(txCtx, tx, domain.AggregateTypeAccount, account.ID, domain.EventTypeAccountCreated,
		domain.AccountCreatedEvent{AccountID: account.ID, Timestamp: input.Timestamp})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}
	uc.invalidateAccountList(ctx)

	return account, nil
}

// ListAccountIDs returns every account id in lexicographic order without locking.
func (uc *AccountUseCase) ListAccountIDs(ctx context.Context) ([]string, error) {
	if ids, ok := uc.cachedAccountList(ctx); ok {
		return ids, nil
	}

	ids, err := uc.accountRepo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(ids); err == nil {
			if err := uc.cache.Set(ctx, accountIDsCacheKey, raw, uc.cacheTTL); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to cache account list")
			}
		}
	}

	return ids, nil
}

// GetBalance returns the last committed balance of an account without locking.
func (uc *AccountUseCase) GetBalance(ctx context.Context, accountID string) (int64, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return 0, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// GetTransactionsInput represents input for reading an account's history.
type GetTransactionsInput struct {
	Timestamp int64
	AccountID string
}

// GetTransactions sweeps cashbacks due at the input timestamp and then returns the
// account's full history in insertion order.
func (uc *AccountUseCase) GetTransactions(ctx context.Context, input GetTransactionsInput) (entries []*domain.LedgerEntry, err error) {
	start := time.Now()
	defer func() { uc.observe("get_transactions", start, err) }()

	if err := domain.ValidateAccountID(input.AccountID); err != nil {
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

	if _, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID); err != nil {
		return nil, err
	}

	entries, err = uc.entryRepo.ListByAccount(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}
	uc.sweeper.Observe(credited)

	return entries, nil
}

func (uc *AccountUseCase) cachedAccountList(ctx context.Context) ([]string, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, accountIDsCacheKey)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("account list cache unavailable")
		}
		return nil, false
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false
	}

	return ids, true
}

func (uc *AccountUseCase) invalidateAccountList(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, accountIDsCacheKey); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate account list cache")
	}
}

func (uc *AccountUseCase) observe(operation string, start time.Time, err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveOperation(operation, start, err)
	}
}
