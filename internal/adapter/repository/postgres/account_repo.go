package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/infrastructure/postgres/generated"
	"github.com/iho/cashledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create inserts a new account. A reused id leaves the table untouched.
func (r *AccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	inserted, err := queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		AccountID: account.ID,
		CreatedAt: account.CreatedAt,
		Balance:   account.Balance,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountAlreadyExists
		}
		return mapError(err)
	}
	if inserted == 0 {
		return domain.ErrAccountAlreadyExists
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return rowToAccount(row), nil
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	row, err := queriesFor(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, mapError(err)
	}

	return rowToAccount(row), nil
}

// UpdateBalance overwrites the balance of a locked account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64) error {
	updated, err := queriesFor(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		AccountID: id,
		Balance:   balance,
	})
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientFunds
		}
		return mapError(err)
	}
	if updated == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// AddToBalance credits delta to the account and returns the new balance.
func (r *AccountRepository) AddToBalance(ctx context.Context, tx usecase.Transaction, id string, delta int64) (int64, error) {
	balance, err := queriesFor(tx).AddAccountBalance(ctx, generated.AddAccountBalanceParams{
		AccountID: id,
		Balance:   delta,
	})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, domain.ErrAccountNotFound
		case isCheckViolation(err):
			return 0, domain.ErrInsufficientFunds
		}
		return 0, mapError(err)
	}

	return balance, nil
}

// ListIDs returns every account id in byte order.
func (r *AccountRepository) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := r.queries.ListAccountIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list account ids: %w", mapError(err))
	}
	if ids == nil {
		ids = []string{}
	}

	return ids, nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.AccountID,
		CreatedAt: row.CreatedAt,
		Balance:   row.Balance,
	}
}
