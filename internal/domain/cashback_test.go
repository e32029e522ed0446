package domain

import "testing"

func TestCashbackFor(t *testing.T) {
	tests := []struct {
		amount int64
		want   int64
	}{
		{0, 0},
		{1, 0},
		{49, 0},
		{50, 1},
		{99, 1},
		{100, 2},
		{149, 2},
		{12345, 246},
		{1_000_000_000_000, 20_000_000_000},
	}

	for _, tt := range tests {
		if got := CashbackFor(tt.amount); got != tt.want {
			t.Errorf("CashbackFor(%d) = %d, want %d", tt.amount, got, tt.want)
		}
		if got, want := CashbackFor(tt.amount), tt.amount*2/100; got != want {
			t.Errorf("CashbackFor(%d) = %d, integer floor gives %d", tt.amount, got, want)
		}
	}
}

func TestNewPendingCashback(t *testing.T) {
	cb := NewPendingCashback("a1", "payment1", 2, 100)

	if cb.AccountID != "a1" || cb.Operation != OperationCashback {
		t.Fatalf("unexpected cashback entry: %+v", cb)
	}
	if cb.Timestamp != 2+86_400_000 {
		t.Fatalf("expected maturation at %d, got %d", 2+86_400_000, cb.Timestamp)
	}
	if cb.Amount != 2 {
		t.Fatalf("expected amount 2, got %d", cb.Amount)
	}
	if cb.PaymentRef == nil || *cb.PaymentRef != "payment1" {
		t.Fatalf("expected payment_ref payment1, got %v", cb.PaymentRef)
	}
	if cb.Deposited {
		t.Fatal("new cashback must be pending")
	}
}

func TestFormatPaymentID(t *testing.T) {
	if got := FormatPaymentID(1); got != "payment1" {
		t.Fatalf("expected payment1, got %s", got)
	}
	if got := FormatPaymentID(42); got != "payment42" {
		t.Fatalf("expected payment42, got %s", got)
	}
}
