package dto

import (
	"time"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	AccountID string `json:"account_id"`
	CreatedAt int64  `json:"created_at"`
	Balance   int64  `json:"balance"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		AccountID: a.ID,
		CreatedAt: a.CreatedAt,
		Balance:   a.Balance,
	}
}

// ListAccountsResponse lists account ids in lexicographic order.
type ListAccountsResponse struct {
	Accounts []string `json:"accounts"`
	Total    int      `json:"total"`
}

// BalanceResponse reports an account balance.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}

// TransactionResponse represents one ledger entry.
type TransactionResponse struct {
	TransactionID int64   `json:"transaction_id"`
	AccountID     string  `json:"account_id"`
	Timestamp     int64   `json:"timestamp"`
	Operation     string  `json:"operation"`
	Amount        int64   `json:"amount"`
	PaymentRef    *string `json:"payment_ref"`
	Deposited     bool    `json:"deposited"`
}

// TransactionsFromDomain converts ledger entries to responses.
func TransactionsFromDomain(entries []*domain.LedgerEntry) []*TransactionResponse {
	result := make([]*TransactionResponse, len(entries))
	for i, e := range entries {
		result[i] = &TransactionResponse{
			TransactionID: e.TransactionID,
			AccountID:     e.AccountID,
			Timestamp:     e.Timestamp,
			Operation:     string(e.Operation),
			Amount:        e.Amount,
			PaymentRef:    e.PaymentRef,
			Deposited:     e.Deposited,
		}
	}
	return result
}

// TransactionsResponse lists an account's history in insertion order.
type TransactionsResponse struct {
	AccountID    string                 `json:"account_id"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// DepositResponse reports the balance after a deposit.
type DepositResponse struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Balance   int64  `json:"balance"`
}

// TransferResponse reports the source balance after a transfer.
type TransferResponse struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
	Balance       int64  `json:"balance"`
}

// PaymentResponse describes a completed payment and its scheduled cashback.
type PaymentResponse struct {
	PaymentID         string `json:"payment_id"`
	AccountID         string `json:"account_id"`
	Amount            int64  `json:"amount"`
	Balance           int64  `json:"balance"`
	Cashback          int64  `json:"cashback"`
	CashbackMaturesAt int64  `json:"cashback_matures_at"`
}

// PaymentFromUseCase converts a payment result to response.
func PaymentFromUseCase(accountID string, amount int64, res *usecase.PayResult) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:         res.PaymentID,
		AccountID:         accountID,
		Amount:            amount,
		Balance:           res.Balance,
		Cashback:          res.Cashback,
		CashbackMaturesAt: res.CashbackMaturesAt,
	}
}

// DiscrepancyResponse describes an account whose balance disagrees with its entries.
type DiscrepancyResponse struct {
	AccountID         string `json:"account_id"`
	RecordedBalance   int64  `json:"recorded_balance"`
	CalculatedBalance int64  `json:"calculated_balance"`
	Difference        int64  `json:"difference"`
}

// ReconciliationResponse represents a reconciliation report.
type ReconciliationResponse struct {
	TotalAccounts         int                    `json:"total_accounts"`
	ReconciledAccounts    int                    `json:"reconciled_accounts"`
	LedgerConsistent      bool                   `json:"ledger_consistent"`
	PendingCashbackCount  int64                  `json:"pending_cashback_count"`
	PendingCashbackAmount int64                  `json:"pending_cashback_amount"`
	Discrepancies         []*DiscrepancyResponse `json:"discrepancies"`
	CheckedAt             time.Time              `json:"checked_at"`
}

// ReconciliationFromUseCase converts a report to response.
func ReconciliationFromUseCase(r *usecase.ReconciliationReport) *ReconciliationResponse {
	discrepancies := make([]*DiscrepancyResponse, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = &DiscrepancyResponse{
			AccountID:         d.AccountID,
			RecordedBalance:   d.RecordedBalance,
			CalculatedBalance: d.CalculatedBalance,
			Difference:        d.Difference,
		}
	}

	return &ReconciliationResponse{
		TotalAccounts:         r.TotalAccounts,
		ReconciledAccounts:    r.ReconciledAccounts,
		LedgerConsistent:      r.LedgerConsistent,
		PendingCashbackCount:  r.PendingCashbackCount,
		PendingCashbackAmount: r.PendingCashbackAmount,
		Discrepancies:         discrepancies,
		CheckedAt:             r.CheckedAt,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
