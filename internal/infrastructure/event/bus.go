// Package event provides the in-process domain event bus.
package event

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches events synchronously to the registered handlers.
// A failing or panicking handler is logged and does not stop the others, and
// never fails the publishing operation.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log,
	}
}

// Publish delivers events in order to every matching handler
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				logger.Enrich(ctx, b.logger).Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used; an empty list subscribes to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start is a no-op; dispatch is synchronous
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.logger.Info("Event bus started", zap.Int("handlers", b.registry.Count()))
	return nil
}

// Stop is a no-op; no dispatch outlives Publish
func (b *InMemoryEventBus) Stop(_ context.Context) error {
	b.logger.Info("Event bus stopped")
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "event."+event.EventType(),
		telemetry.WithAttribute("event_id", event.EventID().String()),
		telemetry.WithAttribute("aggregate_type", event.AggregateType()),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panicked: %v", r)
		}
		telemetry.RecordError(span, err)
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
