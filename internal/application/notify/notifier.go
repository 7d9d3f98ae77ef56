package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/domain/shared"
)

// Notifier receives domain events worth telling the shop owner about.
// It plugs into the event bus as a regular handler.
type Notifier interface {
	shared.EventHandler
}

// LogNotifier writes notifications to the structured log. Stands in for
// push or email channels until one is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// EventTypes lists the events the notifier cares about
func (n *LogNotifier) EventTypes() []string {
	return []string{
		"order.created",
		"order.status_changed",
		"order.cancelled",
		"order.dispatched",
		"customer.tier_changed",
	}
}

// Handle logs the notification
func (n *LogNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	n.logger.Info("notification",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("shop_id", event.ShopID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}
