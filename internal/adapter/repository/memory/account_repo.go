package memory

import (
	"context"
	"sort"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	store *Store
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	st, err := workingState(tx)
	if err != nil {
		return err
	}
	if _, ok := st.accounts[account.ID]; ok {
		return domain.ErrAccountAlreadyExists
	}
	st.accounts[account.ID] = *account
	return nil
}

// GetByID reads the committed account.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, ok := r.store.snapshot().accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

// GetByIDForUpdate reads the account inside the transaction.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	st, err := workingState(tx)
	if err != nil {
		return nil, err
	}
	account, ok := st.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &account, nil
}

// UpdateBalance sets the balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64) error {
	st, err := workingState(tx)
	if err != nil {
		return err
	}
	account, ok := st.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if balance < 0 {
		return domain.ErrInsufficientFunds
	}
	account.Balance = balance
	st.accounts[id] = account
	return nil
}

// AddToBalance credits delta to an account and returns the new balance.
func (r *AccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta int64) (int64, error) {
	st, err := workingState(tx)
	if err != nil {
		return 0, err
	}
	account, ok := st.accounts[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	if account.Balance+delta < 0 {
		return 0, domain.ErrInsufficientFunds
	}
	account.Balance += delta
	st.accounts[id] = account
	return account.Balance, nil
}

// ListIDs returns committed account ids in lexicographic order.
func (r *AccountRepository) ListIDs(ctx context.Context) ([]string, error) {
	accounts := r.store.snapshot().accounts
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
