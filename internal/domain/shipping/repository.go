package shipping

import (
	"context"

	"github.com/google/uuid"
)

// ProviderConfigRepository defines the interface for carrier config persistence
type ProviderConfigRepository interface {
	// FindForShop loads a shop's config for a carrier, ErrNotFound when unset
	FindForShop(ctx context.Context, shopID uuid.UUID, provider Provider) (*ProviderConfig, error)

	// Save creates or updates a carrier config
	Save(ctx context.Context, c *ProviderConfig) error

	// Delete removes a shop's carrier config
	Delete(ctx context.Context, shopID uuid.UUID, provider Provider) error
}
