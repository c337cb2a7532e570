package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/quickdash/backend/internal/domain/shared"
)

// InMemoryBus is a synchronous in-process event bus. Handlers run on the
// publisher's goroutine; a failing or panicking handler is logged and never
// fails the publish, so domain events stay fire-and-forget for the services
// emitting them.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryBus creates an in-memory event bus
func NewInMemoryBus(logger *zap.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Publish dispatches each event to its subscribed handlers
func (b *InMemoryBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, e := range events {
		b.logger.Debug("domain event published",
			zap.String("event_type", e.EventType()),
			zap.String("aggregate_id", e.AggregateID().String()),
			zap.String("business_id", e.BusinessID().String()),
		)

		for _, h := range b.handlersFor(e.EventType()) {
			if err := b.dispatch(ctx, h, e); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", e.EventType()),
					zap.String("event_id", e.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no explicit event types the handler's
// own EventTypes() is used; an empty result subscribes it to all events.
func (b *InMemoryBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
		return
	}
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

func (b *InMemoryBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	result = append(result, typed...)
	result = append(result, b.wildcard...)
	return result
}

func (b *InMemoryBus) dispatch(ctx context.Context, handler shared.EventHandler, e shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", e.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, e)
}

var _ shared.EventBus = (*InMemoryBus)(nil)
