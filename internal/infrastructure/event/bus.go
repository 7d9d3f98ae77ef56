package event

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/domain/shared"
)

// InMemoryEventBus dispatches domain events to registered handlers in
// process. Handler failures are logged and never fail the publisher.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for the event types it declares
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, eventType := range handler.EventTypes() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
	}
}

// Publish delivers events to all registered handlers synchronously
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		b.mu.RLock()
		handlers := b.handlers[evt.EventType()]
		b.mu.RUnlock()

		for _, handler := range handlers {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, evt)
}
