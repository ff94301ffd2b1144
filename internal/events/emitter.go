package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to registered
// handlers, in registration order. A handler registered with event types
// only receives events of those types.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID int
	logger *slog.Logger
}

type subscription struct {
	id      int
	types   map[string]struct{} // nil matches every type
	handler EventHandler
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: logger.With(slog.String("component", "in_memory_event_emitter")),
	}
}

// RegisterHandler adds handler for the given event types, or for all events
// when none are given. The returned function removes it again.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler, types ...string) (unregister func()) {
	sub := subscription{handler: handler}
	if len(types) > 0 {
		sub.types = make(map[string]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}

	e.mu.Lock()
	sub.id = e.nextID
	e.nextID++
	e.subs = append(e.subs, sub)
	count := len(e.subs)
	e.mu.Unlock()

	e.logger.Debug("registered event handler",
		slog.Int("handler_count", count),
		slog.Any("event_types", types))

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, s := range e.subs {
			if s.id == sub.id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// EmitEvent delivers event to every matching handler. A failing handler does
// not stop delivery; the first error is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	targets := make([]EventHandler, 0, len(e.subs))
	for _, s := range e.subs {
		if s.matches(event.Type) {
			targets = append(targets, s.handler)
		}
	}
	e.mu.RUnlock()

	e.logger.Debug("emitting event",
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
		slog.Int("handler_count", len(targets)))

	var firstErr error
	for i, handler := range targets {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				slog.String("error", err.Error()),
				slog.Int("handler_index", i),
				slog.String("event_type", event.Type))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
