package usecase

import (
	"context"
	"errors"
	"testing"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name        string
		repo        *fakeLedgerRepository
		want        *LedgerTotals
		expectedErr error
	}{
		{
			name: "happy path balanced ledger",
			repo: &fakeLedgerRepository{
				totalBalance: 402,
				totalEntries: 402,
			},
			want: &LedgerTotals{TotalBalance: 402, TotalEntries: 402},
		},
		{
			name: "empty ledger",
			repo: &fakeLedgerRepository{},
			want: &LedgerTotals{},
		},
		{
			name: "repo error surfaces",
			repo: &fakeLedgerRepository{
				err: errDBDown,
			},
			expectedErr: errDBDown,
		},
		{
			name: "balances ahead of entries",
			repo: &fakeLedgerRepository{
				totalBalance: 10,
				totalEntries: 8,
			},
			want:        &LedgerTotals{TotalBalance: 10, TotalEntries: 8},
			expectedErr: ErrInconsistentLedger,
		},
		{
			name: "entries ahead of balances",
			repo: &fakeLedgerRepository{
				totalBalance: 0,
				totalEntries: 1,
			},
			want:        &LedgerTotals{TotalBalance: 0, TotalEntries: 1},
			expectedErr: ErrInconsistentLedger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewLedgerUseCase(tt.repo)
			got, err := uc.CheckConsistency(context.Background())

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch {
			case tt.want == nil && got != nil:
				t.Fatalf("CheckConsistency() = %+v, want nil", got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Fatalf("CheckConsistency() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

var errDBDown = errors.New("db down")

func TestLedgerUseCase_InconsistencyDetail(t *testing.T) {
	uc := NewLedgerUseCase(&fakeLedgerRepository{totalBalance: 10, totalEntries: 8})

	totals, err := uc.CheckConsistency(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if want := "ledger is inconsistent: balances do not match entries: balances=10 entries=8 difference=2"; err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
	if totals.Consistent() || totals.Difference() != 2 {
		t.Fatalf("unexpected totals %+v", totals)
	}
}

func TestLedgerUseCase_RepositoryInvoked(t *testing.T) {
	repo := &fakeLedgerRepository{}
	uc := NewLedgerUseCase(repo)

	if _, err := uc.CheckConsistency(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Fatalf("expected CheckConsistency to call repository once, got %d", repo.calls)
	}
}

type fakeLedgerRepository struct {
	totalBalance int64
	totalEntries int64
	summaries    []AccountSummary
	err          error
	calls        int
}

func (f *fakeLedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	f.calls++
	return f.totalBalance, f.totalEntries, f.err
}

func (f *fakeLedgerRepository) AccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	return f.summaries, f.err
}
