package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForShop finds a product by ID within a shop
	FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*Product, error)

	// FindByIDsForShop loads several products at once, for order item validation
	FindByIDsForShop(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForShop finds products for a shop with filtering and pagination
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForShop counts products for a shop matching the filter
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, p *Product) error

	// Delete removes a product
	Delete(ctx context.Context, shopID, id uuid.UUID) error

	// ReserveStock atomically decrements on-hand stock, refusing to go
	// below zero. Returns ErrInsufficientStock when not enough is on hand.
	ReserveStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error

	// ReleaseStock returns previously reserved stock, for cancellations
	// and downward order edits.
	ReleaseStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error
}
