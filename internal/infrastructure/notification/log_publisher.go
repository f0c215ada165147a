package notification

import (
	"context"

	appfinance "github.com/kincat201/syncargo-be-sub000/internal/application/finance"
	"github.com/kincat201/syncargo-be-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Ensure LogEventPublisher implements EventPublisher
var _ appfinance.EventPublisher = (*LogEventPublisher)(nil)

// LogEventPublisher records domain events to the application log. It stands
// in for a message-broker publisher; the event stream is already useful as an
// audit trail of every state transition.
type LogEventPublisher struct {
	logger *zap.Logger
}

// NewLogEventPublisher creates a new LogEventPublisher
func NewLogEventPublisher(logger *zap.Logger) *LogEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEventPublisher{logger: logger.Named("events")}
}

// Publish logs each event with its identifying fields and full payload
func (p *LogEventPublisher) Publish(ctx context.Context, events []shared.DomainEvent) error {
	for _, event := range events {
		p.logger.Info("Domain event",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.String("company_id", event.CompanyID().String()),
			zap.Time("occurred_at", event.OccurredAt()),
			zap.Any("event", event),
		)
	}
	return nil
}
