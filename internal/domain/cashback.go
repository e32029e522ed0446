package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// CashbackDelay is how long after a payment its cashback matures, in logical milliseconds.
	CashbackDelay int64 = 86_400_000

	paymentIDPrefix = "payment"
)

// CashbackRate is the share of a payment returned as cashback.
var CashbackRate = decimal.RequireFromString("0.02")

// CashbackFor returns the cashback earned by a payment of amount, rounded down to
// the smallest currency unit.
func CashbackFor(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(CashbackRate).Floor().IntPart()
}

// CashbackMaturesAt returns the logical time at which a payment's cashback matures.
func CashbackMaturesAt(paymentTimestamp int64) int64 {
	return paymentTimestamp + CashbackDelay
}

// FormatPaymentID renders the n-th payment id.
func FormatPaymentID(n int64) string {
	return fmt.Sprintf("%s%d", paymentIDPrefix, n)
}

// NewPendingCashback builds the deferred credit scheduled by a payment.
func NewPendingCashback(accountID, paymentID string, paymentTimestamp, paymentAmount int64) *LedgerEntry {
	ref := paymentID
	return &LedgerEntry{
		AccountID:  accountID,
		Timestamp:  CashbackMaturesAt(paymentTimestamp),
		Operation:  OperationCashback,
		Amount:     CashbackFor(paymentAmount),
		PaymentRef: &ref,
		Deposited:  false,
	}
}
