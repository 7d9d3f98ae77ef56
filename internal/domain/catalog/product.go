package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable item with its on-hand stock.
// It is the aggregate root for catalog operations.
type Product struct {
	shared.ShopAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         string          `gorm:"type:varchar(50);uniqueIndex:idx_product_shop_sku,priority:2"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity    int64           `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(shopID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	product := &Product{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Name:              name,
		Price:             price,
		CostPrice:         decimal.Zero,
		Quantity:          0,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPrice updates the selling price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCostPrice updates the cost price
func (p *Product) SetCostPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Cost price cannot be negative")
	}

	p.CostPrice = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetQuantity sets the absolute on-hand quantity. Used by manual stock
// adjustments, not by order flows which go through the repository's
// conditional decrement.
func (p *Product) SetQuantity(quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	old := p.Quantity
	p.Quantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockAdjustedEvent(p, old, quantity))

	return nil
}

// HasStock reports whether at least quantity units are on hand
func (p *Product) HasStock(quantity int64) bool {
	return p.Quantity >= quantity
}

// Deactivate hides the product from sale
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate puts the product back on sale
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
