package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
)

// GormTierSettingsRepository implements TierSettingsRepository using GORM
type GormTierSettingsRepository struct {
	db *gorm.DB
}

// NewGormTierSettingsRepository creates a new GormTierSettingsRepository
func NewGormTierSettingsRepository(db *gorm.DB) *GormTierSettingsRepository {
	return &GormTierSettingsRepository{db: db}
}

// FindForShop loads the shop's tier ladder, ErrNotFound when unset.
// Thresholds come back lowest tier first, the order the domain ladder uses.
func (r *GormTierSettingsRepository) FindForShop(ctx context.Context, shopID uuid.UUID) (*partner.TierSettings, error) {
	var settings partner.TierSettings
	if err := r.db.WithContext(ctx).
		Preload("Thresholds", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_spend ASC")
		}).
		Where("shop_id = ?", shopID).
		First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Save creates or replaces the shop's tier ladder. Thresholds are replaced
// wholesale since the ladder is small and always edited as a unit.
func (r *GormTierSettingsRepository) Save(ctx context.Context, s *partner.TierSettings) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thresholds := s.Thresholds
		s.Thresholds = nil
		if err := tx.Omit("Thresholds").Save(s).Error; err != nil {
			s.Thresholds = thresholds
			return err
		}
		s.Thresholds = thresholds

		if err := tx.Where("tier_settings_id = ?", s.ID).
			Delete(&partner.TierThreshold{}).Error; err != nil {
			return err
		}
		if len(s.Thresholds) > 0 {
			if err := tx.Create(&s.Thresholds).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormTierSettingsRepository implements TierSettingsRepository
var _ partner.TierSettingsRepository = (*GormTierSettingsRepository)(nil)
