package event

import (
	"slices"
	"sync"

	"github.com/crm/backend/internal/domain/shared"
)

// subscription is one handler with the event types it listens to.
// A nil type set matches every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HandlerRegistry keeps subscriptions in the order they were made, so handlers
// see an event in subscription order whether they are typed or catch-all.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []subscription
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register subscribes handler to eventTypes, or to every event when none are given.
// Registering the same handler again widens its existing subscription.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.subs, func(s subscription) bool { return s.handler == handler })
	if i < 0 {
		r.subs = append(r.subs, subscription{handler: handler, types: map[string]struct{}{}})
		i = len(r.subs) - 1
	}
	sub := &r.subs[i]
	if len(eventTypes) == 0 {
		sub.types = nil
		return
	}
	if sub.types == nil {
		return
	}
	for _, t := range eventTypes {
		sub.types[t] = struct{}{}
	}
}

// Unregister drops every subscription of handler
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = slices.DeleteFunc(r.subs, func(s subscription) bool { return s.handler == handler })
}

// GetHandlers returns the handlers subscribed to eventType
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []shared.EventHandler
	for _, s := range r.subs {
		if s.matches(eventType) {
			out = append(out, s.handler)
		}
	}
	return out
}

// Count returns the number of subscribed handlers
func (r *HandlerRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
