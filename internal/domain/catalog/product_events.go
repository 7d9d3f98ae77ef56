package catalog

import (
	"github.com/qlbh/backend/internal/domain/shared"
)

const AggregateTypeProduct = "Product"

// ProductCreatedEvent is raised when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Price string `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("product.created", AggregateTypeProduct, p.ID, p.ShopID),
		Name:            p.Name,
		Price:           p.Price.String(),
	}
}

// EventType returns the event type
func (e *ProductCreatedEvent) EventType() string {
	return "product.created"
}

// ProductStockAdjustedEvent is raised when on-hand stock is set manually
type ProductStockAdjustedEvent struct {
	shared.BaseDomainEvent
	OldQuantity int64 `json:"old_quantity"`
	NewQuantity int64 `json:"new_quantity"`
}

// NewProductStockAdjustedEvent creates a new ProductStockAdjustedEvent
func NewProductStockAdjustedEvent(p *Product, oldQty, newQty int64) *ProductStockAdjustedEvent {
	return &ProductStockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("product.stock_adjusted", AggregateTypeProduct, p.ID, p.ShopID),
		OldQuantity:     oldQty,
		NewQuantity:     newQty,
	}
}

// EventType returns the event type
func (e *ProductStockAdjustedEvent) EventType() string {
	return "product.stock_adjusted"
}
