package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/cashledger/internal/usecase"
)

// SequenceRepository implements usecase.SequenceRepository over the sequences table.
// The counter row stays locked until the transaction ends, so a rolled-back
// unit never consumes a value.
type SequenceRepository struct{}

// NewSequenceRepository creates a new SequenceRepository.
func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{}
}

// Next increments the named counter and returns its new value.
func (r *SequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string) (int64, error) {
	value, err := queriesFor(tx).NextSequenceValue(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("sequence %q does not exist", name)
		}
		return 0, mapError(err)
	}

	return value, nil
}
