package testutil

import (
	"context"
	"sync"

	"github.com/crm/backend/internal/domain/shared"
)

// RecordingHandler is an event handler that keeps everything it receives
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler subscribes to eventTypes, or to every event when none are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle implements shared.EventHandler
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// FailWith makes later Handle calls return err
func (h *RecordingHandler) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Handled returns a copy of the received events
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// Types returns the received event types in order
func (h *RecordingHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

// Count returns how many events of eventType were received
func (h *RecordingHandler) Count(eventType string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.handled {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}

// Reset drops the recorded events and the configured error
func (h *RecordingHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = nil
	h.err = nil
}

var _ shared.EventHandler = (*RecordingHandler)(nil)
