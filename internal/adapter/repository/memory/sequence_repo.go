package memory

import (
	"context"

	"github.com/iho/cashledger/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository.
type SequenceRepository struct{}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Next increments the named counter inside the transaction and returns its new value.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string) (int64, error) {
	st, err := workingState(tx)
	if err != nil {
		return 0, err
	}
	st.sequences[name]++
	return st.sequences[name], nil
}
