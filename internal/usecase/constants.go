package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds a single ledger transaction, including
	// the time spent waiting on row locks.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is the fallback lifetime of a stored mutating response.
	IdempotencyKeyTTL = 24 * time.Hour

	// PaymentSequence names the counter payment ids are drawn from.
	PaymentSequence = "payment"

	accountIDsCacheKey = "accounts:ids"
)
