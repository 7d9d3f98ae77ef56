package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "OrderCreated"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderCancelled     = "OrderCancelled"
	EventTypeOrderDispatched    = "OrderDispatched"
)

// OrderCreatedEvent is raised when a new order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderCode    string          `json:"order_code"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		OrderCode:       o.OrderCode,
		CustomerID:      o.CustomerID,
		CustomerName:    o.CustomerName,
		Total:           o.Total,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderStatusChangedEvent is raised on every status transition, operator or
// carrier driven
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID  `json:"order_id"`
	OrderCode  string     `json:"order_code"`
	FromStatus Status     `json:"from_status"`
	ToStatus   Status     `json:"to_status"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from, to Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		OrderCode:       o.OrderCode,
		FromStatus:      from,
		ToStatus:        to,
		CustomerID:      o.CustomerID,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// OrderCancelledEvent is raised when an order is cancelled; stock is restored
// by the application service for every item on the order
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	OrderCode string    `json:"order_code"`
	Reason    string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		OrderCode:       o.OrderCode,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// OrderDispatchedEvent is raised when the order is handed to a carrier
type OrderDispatchedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID `json:"order_id"`
	OrderCode    string    `json:"order_code"`
	Provider     string    `json:"provider"`
	TrackingCode string    `json:"tracking_code"`
}

// NewOrderDispatchedEvent creates a new OrderDispatchedEvent
func NewOrderDispatchedEvent(o *Order) *OrderDispatchedEvent {
	return &OrderDispatchedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDispatched, AggregateTypeOrder, o.ID, o.ShopID),
		OrderID:         o.ID,
		OrderCode:       o.OrderCode,
		Provider:        o.ShippingProvider,
		TrackingCode:    o.TrackingCode,
	}
}

// EventType returns the event type name
func (e *OrderDispatchedEvent) EventType() string {
	return EventTypeOrderDispatched
}
