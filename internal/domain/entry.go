package domain

import "strings"

// Operation identifies what a ledger entry records.
type Operation string

const (
	OperationCreated        Operation = "created"
	OperationDeposited      Operation = "deposited"
	OperationTransferredOut Operation = "transferred-out"
	OperationTransferredIn  Operation = "transferred-in"
	OperationCashback       Operation = "cashback"

	paymentOperationPrefix = "payment:"
)

// PaymentOperation returns the operation recorded for the payment with the given id.
func PaymentOperation(paymentID string) Operation {
	return Operation(paymentOperationPrefix + paymentID)
}

// PaymentID returns the payment id carried by a payment operation.
func (o Operation) PaymentID() (string, bool) {
	id, ok := strings.CutPrefix(string(o), paymentOperationPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// IsPayment reports whether o records a payment.
func (o Operation) IsPayment() bool {
	_, ok := o.PaymentID()
	return ok
}

// LedgerEntry is a single append-only row of an account's history.
//
// For cashback entries Timestamp is the maturation time and Deposited flips from
// false to true exactly once, when the cashback is credited. Every other entry is
// settled when it is written and is stored with Deposited set.
type LedgerEntry struct {
	TransactionID int64
	AccountID     string
	Timestamp     int64
	Operation     Operation
	Amount        int64
	PaymentRef    *string
	Deposited     bool
}

// IsCashback reports whether the entry is a deferred cashback credit.
func (e *LedgerEntry) IsCashback() bool {
	return e.Operation == OperationCashback
}

// IsPending reports whether the entry is a cashback that has not matured yet.
func (e *LedgerEntry) IsPending() bool {
	return e.IsCashback() && !e.Deposited
}

// IsDue reports whether a pending cashback has matured at the logical time now.
func (e *LedgerEntry) IsDue(now int64) bool {
	return e.IsPending() && e.Timestamp <= now
}

// SignedAmount is the entry's effect on the account balance.
func (e *LedgerEntry) SignedAmount() int64 {
	switch {
	case e.Operation == OperationDeposited, e.Operation == OperationTransferredIn:
		return e.Amount
	case e.Operation == OperationTransferredOut, e.Operation.IsPayment():
		return -e.Amount
	case e.Operation == OperationCashback:
		if e.Deposited {
			return e.Amount
		}
		return 0
	default:
		return 0
	}
}

// SettledBalance sums the signed effect of entries.
func SettledBalance(entries []*LedgerEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.SignedAmount()
	}
	return total
}
