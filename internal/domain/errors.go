package domain

import "errors"

var (
	// Account errors
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInsufficientFunds    = errors.New("insufficient funds")

	// Argument errors
	ErrSameAccount      = errors.New("cannot transfer to same account")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidAccountID = errors.New("invalid account id")

	// ErrTransient marks storage failures (lock timeouts, deadlocks, serialization
	// failures) after which the whole operation may be retried from scratch.
	ErrTransient = errors.New("transient storage failure")
)
