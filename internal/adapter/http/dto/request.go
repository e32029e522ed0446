package dto

import (
	"github.com/iho/cashledger/internal/usecase"
)

// Timestamps are logical milliseconds supplied by the caller. They are
// pointers so that an omitted timestamp is rejected while zero is accepted.

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Timestamp *int64 `json:"timestamp"  validate:"required"`
	AccountID string `json:"account_id" validate:"required,max=255"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Timestamp: *r.Timestamp,
		AccountID: r.AccountID,
	}
}

// DepositRequest represents a request to deposit funds.
type DepositRequest struct {
	Timestamp *int64 `json:"timestamp"  validate:"required"`
	AccountID string `json:"account_id" validate:"required,max=255"`
	Amount    int64  `json:"amount"     validate:"gt=0"`
}

// ToUseCaseInput converts to use case input.
func (r *DepositRequest) ToUseCaseInput() usecase.DepositInput {
	return usecase.DepositInput{
		Timestamp: *r.Timestamp,
		AccountID: r.AccountID,
		Amount:    r.Amount,
	}
}

// TransferRequest represents a request to move funds between accounts.
type TransferRequest struct {
	Timestamp     *int64 `json:"timestamp"       validate:"required"`
	FromAccountID string `json:"from_account_id" validate:"required,max=255"`
	ToAccountID   string `json:"to_account_id"   validate:"required,max=255"`
	Amount        int64  `json:"amount"          validate:"gt=0"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput() usecase.TransferInput {
	return usecase.TransferInput{
		Timestamp:     *r.Timestamp,
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}

// PayRequest represents a request to pay from an account.
type PayRequest struct {
	Timestamp *int64 `json:"timestamp"  validate:"required"`
	AccountID string `json:"account_id" validate:"required,max=255"`
	Amount    int64  `json:"amount"     validate:"gt=0"`
}

// ToUseCaseInput converts to use case input.
func (r *PayRequest) ToUseCaseInput() usecase.PayInput {
	return usecase.PayInput{
		Timestamp: *r.Timestamp,
		AccountID: r.AccountID,
		Amount:    r.Amount,
	}
}
