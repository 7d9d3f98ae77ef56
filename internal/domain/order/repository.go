package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/shared"
)

// StatusCount is a per-status aggregate row for the stats endpoint
type StatusCount struct {
	Status Status `json:"status"`
	Count  int64  `json:"count"`
	Total  string `json:"total"`
}

// Repository defines the interface for order persistence
type Repository interface {
	// FindByIDForShop finds an order by ID within a shop
	FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*Order, error)

	// FindByTrackingCode finds an order by its carrier tracking code. The
	// lookup is cross-shop: the carrier only knows its own reference.
	FindByTrackingCode(ctx context.Context, trackingCode string) (*Order, error)

	// FindAllForShop finds orders for a shop with filtering and pagination
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Order, error)

	// CountForShop counts orders for a shop matching the filter
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)

	// CountByStatusForShop aggregates order counts and totals per status
	CountByStatusForShop(ctx context.Context, shopID uuid.UUID) ([]StatusCount, error)

	// Save creates or updates an order together with its items and history
	Save(ctx context.Context, o *Order) error

	// SyncCustomerSnapshot pushes edited customer contact fields onto every
	// order of that customer still in a pre-dispatch status without a
	// tracking code. Returns the number of orders touched.
	SyncCustomerSnapshot(ctx context.Context, shopID, customerID uuid.UUID, name, phone, email string) (int64, error)
}
