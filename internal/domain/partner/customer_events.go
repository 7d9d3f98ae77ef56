package partner

import (
	"github.com/qlbh/backend/internal/domain/shared"
)

const AggregateTypeCustomer = "Customer"

// CustomerCreatedEvent is raised when a new customer is created
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.created", AggregateTypeCustomer, c.ID, c.ShopID),
		Name:            c.Name,
		Phone:           c.Phone,
	}
}

// EventType returns the event type
func (e *CustomerCreatedEvent) EventType() string {
	return "customer.created"
}

// CustomerUpdatedEvent is raised when contact information changes
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCustomerUpdatedEvent creates a new CustomerUpdatedEvent
func NewCustomerUpdatedEvent(c *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.updated", AggregateTypeCustomer, c.ID, c.ShopID),
		Name:            c.Name,
	}
}

// EventType returns the event type
func (e *CustomerUpdatedEvent) EventType() string {
	return "customer.updated"
}

// CustomerTierChangedEvent is raised when the tier engine promotes a customer
type CustomerTierChangedEvent struct {
	shared.BaseDomainEvent
	OldTier string `json:"old_tier"`
	NewTier string `json:"new_tier"`
}

// NewCustomerTierChangedEvent creates a new CustomerTierChangedEvent
func NewCustomerTierChangedEvent(c *Customer, oldTier, newTier string) *CustomerTierChangedEvent {
	return &CustomerTierChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("customer.tier_changed", AggregateTypeCustomer, c.ID, c.ShopID),
		OldTier:         oldTier,
		NewTier:         newTier,
	}
}

// EventType returns the event type
func (e *CustomerTierChangedEvent) EventType() string {
	return "customer.tier_changed"
}
