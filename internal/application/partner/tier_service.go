package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
)

// TierService manages the tier ladder and recalculates customer tiers
// against it.
type TierService struct {
	customerRepo   partner.CustomerRepository
	tierRepo       partner.TierSettingsRepository
	eventPublisher shared.EventPublisher
}

// NewTierService creates a new TierService
func NewTierService(customerRepo partner.CustomerRepository, tierRepo partner.TierSettingsRepository) *TierService {
	return &TierService{
		customerRepo: customerRepo,
		tierRepo:     tierRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *TierService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetSettings returns the shop's tier ladder, falling back to the defaults
// when the shop never customised it.
func (s *TierService) GetSettings(ctx context.Context, shopID uuid.UUID) (*TierSettingsResponse, error) {
	settings, err := s.loadSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}
	resp := ToTierSettingsResponse(settings)
	return &resp, nil
}

// UpdateSettings replaces the shop's tier ladder
func (s *TierService) UpdateSettings(ctx context.Context, shopID uuid.UUID, req UpdateTierSettingsRequest) (*TierSettingsResponse, error) {
	settings, err := s.loadSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}

	thresholds := make([]partner.TierThreshold, len(req.Thresholds))
	for i, in := range req.Thresholds {
		thresholds[i] = partner.TierThreshold{
			Code:      in.Code,
			Name:      in.Name,
			MinSpend:  in.MinSpend,
			MinOrders: in.MinOrders,
		}
	}
	if err := settings.ReplaceThresholds(thresholds); err != nil {
		return nil, err
	}

	if err := s.tierRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	// A new ladder reclassifies everyone immediately
	if _, err := s.sweep(ctx, shopID, settings); err != nil {
		return nil, err
	}

	resp := ToTierSettingsResponse(settings)
	return &resp, nil
}

// Recalculate recomputes one customer's tier from their lifetime figures
func (s *TierService) Recalculate(ctx context.Context, shopID, customerID uuid.UUID) (*CustomerResponse, error) {
	settings, err := s.loadSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}
	c, err := s.customerRepo.FindByIDForShop(ctx, shopID, customerID)
	if err != nil {
		return nil, err
	}

	if c.ApplyTier(settings.ComputeTier(c.TotalSpent, c.OrderCount)) {
		if err := s.customerRepo.Save(ctx, c); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, c)
	}

	resp := ToCustomerResponse(c, tierName(settings, c.Tier))
	return &resp, nil
}

// RecalculateAll walks every customer of the shop and reassigns tiers
// against the current ladder, in both directions.
func (s *TierService) RecalculateAll(ctx context.Context, shopID uuid.UUID) (*RecalculateResult, error) {
	settings, err := s.loadSettings(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.sweep(ctx, shopID, settings)
}

func (s *TierService) sweep(ctx context.Context, shopID uuid.UUID, settings *partner.TierSettings) (*RecalculateResult, error) {
	result := &RecalculateResult{}
	filter := shared.DefaultFilter()
	filter.PageSize = 200

	for {
		customers, err := s.customerRepo.FindAllForShop(ctx, shopID, filter)
		if err != nil {
			return nil, err
		}
		if len(customers) == 0 {
			break
		}

		for i := range customers {
			c := &customers[i]
			result.Examined++
			if c.ApplyTier(settings.ComputeTier(c.TotalSpent, c.OrderCount)) {
				if err := s.customerRepo.Save(ctx, c); err != nil {
					return nil, err
				}
				s.publishEvents(ctx, c)
				result.Changed++
			}
		}

		if len(customers) < filter.PageSize {
			break
		}
		filter.Page++
	}

	return result, nil
}

func (s *TierService) loadSettings(ctx context.Context, shopID uuid.UUID) (*partner.TierSettings, error) {
	settings, err := s.tierRepo.FindForShop(ctx, shopID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		settings = partner.NewTierSettings(shopID)
	}
	return settings, nil
}

func (s *TierService) publishEvents(ctx context.Context, c *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, c.GetDomainEvents()...)
	c.ClearDomainEvents()
}

func tierName(settings *partner.TierSettings, code string) string {
	if t := settings.FindThreshold(code); t != nil {
		return t.Name
	}
	return code
}
