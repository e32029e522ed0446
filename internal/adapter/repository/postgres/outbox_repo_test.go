package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashledger/internal/domain"
)

var outboxColumns = []string{
	"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
}

func TestOutboxRepositoryCreateEncodesPayload(t *testing.T) {
	mockPool := newMockPool(t)
	repo := NewOutboxRepository(mockPool)
	tx := beginMockTx(t, mockPool)

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mockPool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("evt1", "a1", "account", "funds.deposited", []byte(`{"amount":500}`),
			pgtype.Timestamptz{Time: createdAt, Valid: true}, false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "evt1",
		AggregateID:   "a1",
		AggregateType: "account",
		EventType:     "funds.deposited",
		Payload:       map[string]any{"amount": 500},
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)
	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryGetUnpublished(t *testing.T) {
	mockPool := newMockPool(t)
	repo := NewOutboxRepository(mockPool)

	createdAt := pgtype.Timestamptz{Time: time.Unix(1_700_000_000, 0).UTC(), Valid: true}
	mockPool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(10)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).
			AddRow("evt1", "a1", "account", "account.created", []byte(`{"account_id":"a1"}`), createdAt, pgtype.Timestamptz{}, false))

	events, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "account.created", events[0].EventType)
	assert.Equal(t, "a1", events[0].Payload["account_id"])
	assert.Nil(t, events[0].PublishedAt)
	assertExpectations(t, mockPool)
}

func TestOutboxRepositoryGetUnpublishedCorruptPayload(t *testing.T) {
	mockPool := newMockPool(t)
	repo := NewOutboxRepository(mockPool)

	mockPool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(1)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).
			AddRow("evt9", "a1", "account", "account.created", []byte(`{`), pgtype.Timestamptz{}, pgtype.Timestamptz{}, false))

	_, err := repo.GetUnpublished(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evt9")
}

func TestOutboxRepositoryMarkPublishedTransientFailure(t *testing.T) {
	mockPool := newMockPool(t)
	repo := NewOutboxRepository(mockPool)

	mockPool.ExpectExec("UPDATE outbox_events").
		WithArgs("evt1", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "40P01"})

	err := repo.MarkPublished(context.Background(), "evt1", time.Now())
	assert.ErrorIs(t, err, domain.ErrTransient)
	assertExpectations(t, mockPool)
}
