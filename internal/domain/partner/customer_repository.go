package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByIDForShop finds a customer by ID within a shop
	FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*Customer, error)

	// FindByPhoneForShop finds a customer by phone number within a shop
	FindByPhoneForShop(ctx context.Context, shopID uuid.UUID, phone string) (*Customer, error)

	// FindAllForShop finds customers for a shop with filtering and pagination
	FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]Customer, error)

	// CountForShop counts customers for a shop matching the filter
	CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a customer
	Save(ctx context.Context, c *Customer) error

	// Delete removes a customer
	Delete(ctx context.Context, shopID, id uuid.UUID) error
}

// TierSettingsRepository defines the interface for tier ladder persistence
type TierSettingsRepository interface {
	// FindForShop loads the shop's tier ladder, ErrNotFound when unset
	FindForShop(ctx context.Context, shopID uuid.UUID) (*TierSettings, error)

	// Save creates or replaces the shop's tier ladder
	Save(ctx context.Context, s *TierSettings) error
}
