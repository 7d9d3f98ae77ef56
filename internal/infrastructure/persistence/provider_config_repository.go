package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

// GormProviderConfigRepository implements ProviderConfigRepository using GORM
type GormProviderConfigRepository struct {
	db *gorm.DB
}

// NewGormProviderConfigRepository creates a new GormProviderConfigRepository
func NewGormProviderConfigRepository(db *gorm.DB) *GormProviderConfigRepository {
	return &GormProviderConfigRepository{db: db}
}

// FindForShop loads a shop's config for a carrier, ErrNotFound when unset
func (r *GormProviderConfigRepository) FindForShop(ctx context.Context, shopID uuid.UUID, provider shipping.Provider) (*shipping.ProviderConfig, error) {
	var config shipping.ProviderConfig
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND provider = ?", shopID, provider).
		First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &config, nil
}

// Save creates or updates a carrier config
func (r *GormProviderConfigRepository) Save(ctx context.Context, c *shipping.ProviderConfig) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a shop's carrier config
func (r *GormProviderConfigRepository) Delete(ctx context.Context, shopID uuid.UUID, provider shipping.Provider) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND provider = ?", shopID, provider).
		Delete(&shipping.ProviderConfig{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProviderConfigRepository implements ProviderConfigRepository
var _ shipping.ProviderConfigRepository = (*GormProviderConfigRepository)(nil)
