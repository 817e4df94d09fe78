package event

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogHandler writes every domain event to the log as an audit trail
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates the audit log handler
func NewLogHandler(log *zap.Logger) *LogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogHandler{logger: log.Named("events")}
}

// EventTypes subscribes to all events
func (h *LogHandler) EventTypes() []string {
	return nil
}

// Handle logs the event with its payload
func (h *LogHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	logger.Enrich(ctx, h.logger).Info("Domain event",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
		zap.Any("payload", event),
	)
	return nil
}

var _ shared.EventHandler = (*LogHandler)(nil)
