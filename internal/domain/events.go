package domain

import "time"

// Event types
const (
	EventTypeAccountCreated   = "account.created"
	EventTypeFundsDeposited   = "funds.deposited"
	EventTypeFundsTransferred = "funds.transferred"
	EventTypePaymentCreated   = "payment.created"
	EventTypeCashbackCredited = "cashback.credited"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
	AggregateTypePayment = "payment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AccountCreatedEvent payload
type AccountCreatedEvent struct {
	AccountID string `json:"account_id"`
	Timestamp int64  `json:"timestamp"`
}

// FundsDepositedEvent payload
type FundsDepositedEvent struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
	Timestamp int64  `json:"timestamp"`
}

// FundsTransferredEvent payload
type FundsTransferredEvent struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	Timestamp     int64  `json:"timestamp"`
}

// PaymentCreatedEvent payload
type PaymentCreatedEvent struct {
	PaymentID         string `json:"payment_id"`
	AccountID         string `json:"account_id"`
	Amount            int64  `json:"amount"`
	Cashback          int64  `json:"cashback"`
	CashbackMaturesAt int64  `json:"cashback_matures_at"`
	Timestamp         int64  `json:"timestamp"`
}

// CashbackCreditedEvent payload
type CashbackCreditedEvent struct {
	AccountID string `json:"account_id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	MaturedAt int64  `json:"matured_at"`
	SweptAt   int64  `json:"swept_at"`
}

// Payload converts an event struct into the generic outbox payload.
func (e AccountCreatedEvent) Payload() map[string]any {
	return map[string]any{"account_id": e.AccountID, "timestamp": e.Timestamp}
}

// Payload converts an event struct into the generic outbox payload.
func (e FundsDepositedEvent) Payload() map[string]any {
	return map[string]any{
		"account_id": e.AccountID,
		"amount":     e.Amount,
		"balance":    e.Balance,
		"timestamp":  e.Timestamp,
	}
}

// Payload converts an event struct into the generic outbox payload.
func (e FundsTransferredEvent) Payload() map[string]any {
	return map[string]any{
		"from_account_id": e.FromAccountID,
		"to_account_id":   e.ToAccountID,
		"amount":          e.Amount,
		"timestamp":       e.Timestamp,
	}
}

// Payload converts an event struct into the generic outbox payload.
func (e PaymentCreatedEvent) Payload() map[string]any {
	return map[string]any{
		"payment_id":          e.PaymentID,
		"account_id":          e.AccountID,
		"amount":              e.Amount,
		"cashback":            e.Cashback,
		"cashback_matures_at": e.CashbackMaturesAt,
		"timestamp":           e.Timestamp,
	}
}

// Payload converts an event struct into the generic outbox payload.
func (e CashbackCreditedEvent) Payload() map[string]any {
	return map[string]any{
		"account_id": e.AccountID,
		"payment_id": e.PaymentID,
		"amount":     e.Amount,
		"matured_at": e.MaturedAt,
		"swept_at":   e.SweptAt,
	}
}
