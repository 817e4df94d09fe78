package event

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Offer", uuid.New()),
		Name:            "Linear guide",
	}
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newRecordingHandler("OfferCreated")
	bus.Subscribe(handler)

	first, second := newTestEvent("OfferCreated"), newTestEvent("OfferCreated")
	require.NoError(t, bus.Publish(context.Background(), first, newTestEvent("OfferReconciled"), second))

	require.Len(t, handler.handled, 2)
	assert.Same(t, first, handler.handled[0])
	assert.Same(t, second, handler.handled[1])
}

func TestInMemoryEventBus_SubscribeExplicitTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newRecordingHandler("OfferCreated")
	bus.Subscribe(handler, "ContactCreated")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OfferCreated"), newTestEvent("ContactCreated")))

	require.Len(t, handler.handled, 1)
	assert.Equal(t, "ContactCreated", handler.handled[0].EventType())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newRecordingHandler("OfferCreated")
	failing.err = errors.New("boom")
	panicking := newRecordingHandler("OfferCreated")
	panicking.panicMsg = "nil map"
	healthy := newRecordingHandler("OfferCreated")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OfferCreated"))

	require.NoError(t, err)
	assert.Len(t, healthy.handled, 1)
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newRecordingHandler()
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PartnerCreated")))
	assert.Empty(t, handler.handled)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.NoError(t, bus.Start(context.Background()))
	assert.NoError(t, bus.Stop(context.Background()))
}

func TestLogHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewLogHandler(zap.New(core)))

	event := newTestEvent("OfferReconciled")
	require.NoError(t, bus.Publish(context.Background(), event))

	entries := logs.FilterMessage("Domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OfferReconciled", fields["event_type"])
	assert.Equal(t, event.AggregateID().String(), fields["aggregate_id"])
	assert.Equal(t, "Offer", fields["aggregate_type"])
}
