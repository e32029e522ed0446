package domain

import (
	"errors"
	"testing"
)

func TestAccount_ValidateDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		debitAmount int64
		expectError bool
	}{
		{
			name:        "debit more than balance",
			balance:     100,
			debitAmount: 150,
			expectError: true,
		},
		{
			name:        "debit exact balance",
			balance:     100,
			debitAmount: 100,
			expectError: false,
		},
		{
			name:        "debit less than balance",
			balance:     100,
			debitAmount: 50,
			expectError: false,
		},
		{
			name:        "debit from empty account",
			balance:     0,
			debitAmount: 1,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &Account{Balance: tt.balance}

			err := acc.ValidateDebit(tt.debitAmount)

			if tt.expectError && !errors.Is(err, ErrInsufficientFunds) {
				t.Errorf("expected ErrInsufficientFunds, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestAccount_ApplyDebitAndCredit(t *testing.T) {
	acc := NewAccount("a1", 0)
	if acc.Balance != 0 || acc.CreatedAt != 0 || acc.ID != "a1" {
		t.Fatalf("unexpected new account: %+v", acc)
	}

	acc.Balance = acc.ApplyCredit(500)
	if acc.Balance != 500 {
		t.Fatalf("expected 500 after credit, got %d", acc.Balance)
	}

	if got := acc.ApplyDebit(100); got != 400 {
		t.Fatalf("expected 400 after debit, got %d", got)
	}

	if acc.Balance != 500 {
		t.Fatalf("ApplyDebit must not mutate the account, got %d", acc.Balance)
	}
}
