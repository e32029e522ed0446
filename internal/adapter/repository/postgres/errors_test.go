package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/iho/cashledger/internal/domain"
)

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"deadlock", &pgconn.PgError{Code: pgErrDeadlock}, true},
		{"serialization failure", &pgconn.PgError{Code: pgErrSerializationFailure}, true},
		{"lock timeout", &pgconn.PgError{Code: pgErrLockNotAvailable}, true},
		{"statement timeout", &pgconn.PgError{Code: pgErrQueryCanceled}, true},
		{"wrapped deadlock", fmt.Errorf("update: %w", &pgconn.PgError{Code: pgErrDeadlock}), true},
		{"context deadline", context.DeadlineExceeded, true},
		{"unique violation", &pgconn.PgError{Code: pgErrUniqueViolation}, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientError(tt.err))
		})
	}
}

func TestMapErrorKeepsDriverError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgErrLockNotAvailable}

	err := mapError(pgErr)

	assert.ErrorIs(t, err, domain.ErrTransient)
	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, pgErrLockNotAvailable, got.Code)
}

func TestMapErrorPassesThrough(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, mapError(plain))
	assert.NoError(t, mapError(nil))
}
