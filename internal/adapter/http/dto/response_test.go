package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashledger/internal/domain"
	"github.com/iho/cashledger/internal/usecase"
)

func TestTransactionsFromDomainKeepsNullPaymentRef(t *testing.T) {
	entries := []*domain.LedgerEntry{
		{TransactionID: 1, AccountID: "a1", Timestamp: 5, Operation: domain.OperationDeposited, Amount: 100, Deposited: true},
		domain.NewPendingCashback("a1", "payment1", 6, 100),
	}

	raw, err := json.Marshal(TransactionsFromDomain(entries))
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 2)

	assert.Nil(t, decoded[0]["payment_ref"])
	assert.Equal(t, "payment1", decoded[1]["payment_ref"])
	assert.Equal(t, "cashback", decoded[1]["operation"])
	assert.Equal(t, false, decoded[1]["deposited"])
}

func TestReconciliationFromUseCase(t *testing.T) {
	checked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	resp := ReconciliationFromUseCase(&usecase.ReconciliationReport{
		TotalAccounts:      2,
		ReconciledAccounts: 1,
		Discrepancies: []*usecase.ReconciliationResult{
			{AccountID: "a2", RecordedBalance: 10, CalculatedBalance: 8, Difference: 2},
		},
		PendingCashbackCount:  1,
		PendingCashbackAmount: 2,
		CheckedAt:             checked,
	})

	assert.Equal(t, 2, resp.TotalAccounts)
	require.Len(t, resp.Discrepancies, 1)
	assert.Equal(t, int64(2), resp.Discrepancies[0].Difference)
	assert.Equal(t, checked, resp.CheckedAt)
}
