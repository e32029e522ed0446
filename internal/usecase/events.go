package usecase

import (
	"context"
	"time"

	"github.com/iho/cashledger/internal/domain"
)

type eventPayload interface {
	Payload() map[string]any
}

// eventRecorder writes outbox events inside the caller's transaction.
type eventRecorder struct {
	outboxRepo OutboxRepository
	idGen      IDGenerator
}

func (r eventRecorder) record(
	ctx context.Context,
	tx Transaction,
	aggregateType, aggregateID, eventType string,
	payload eventPayload,
) error {
	if r.outboxRepo == nil {
		return nil
	}

	event := &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload.Payload(),
		CreatedAt:     time.Now().UTC(),
		Published:     false,
	}

	return r.outboxRepo.Create(ctx, tx, event)
}
