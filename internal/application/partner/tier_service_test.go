package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
)

func TestTierService_GetSettings(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("falls back to the default ladder", func(t *testing.T) {
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(new(MockCustomerRepository), tierRepo)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)

		resp, err := service.GetSettings(ctx, shopID)

		assert.NoError(t, err)
		assert.Len(t, resp.Thresholds, 4)
		assert.Equal(t, partner.TierCodeRegular, resp.Thresholds[0].Code)
		assert.Equal(t, partner.TierCodeDiamond, resp.Thresholds[3].Code)
	})

	t.Run("returns the stored ladder when customised", func(t *testing.T) {
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(new(MockCustomerRepository), tierRepo)

		settings := partner.NewTierSettings(shopID)
		tierRepo.On("FindForShop", ctx, shopID).Return(settings, nil)

		resp, err := service.GetSettings(ctx, shopID)

		assert.NoError(t, err)
		assert.Len(t, resp.Thresholds, 4)
		tierRepo.AssertExpectations(t)
	})
}

func TestTierService_UpdateSettings(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	ladder := func() []TierThresholdInput {
		return []TierThresholdInput{
			{Code: partner.TierCodeRegular, Name: "Thường", MinSpend: decimal.Zero, MinOrders: 0},
			{Code: partner.TierCodeSilver, Name: "Bạc", MinSpend: decimal.NewFromInt(1_000_000), MinOrders: 3},
			{Code: partner.TierCodeGold, Name: "Vàng", MinSpend: decimal.NewFromInt(5_000_000), MinOrders: 10},
			{Code: partner.TierCodeDiamond, Name: "Kim cương", MinSpend: decimal.NewFromInt(20_000_000), MinOrders: 30},
		}
	}

	t.Run("replaces the ladder", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(customerRepo, tierRepo)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
		tierRepo.On("Save", ctx, mock.AnythingOfType("*partner.TierSettings")).Return(nil)
		customerRepo.On("FindAllForShop", ctx, shopID, mock.AnythingOfType("shared.Filter")).
			Return([]partner.Customer{}, nil)

		resp, err := service.UpdateSettings(ctx, shopID, UpdateTierSettingsRequest{Thresholds: ladder()})

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1_000_000).Equal(resp.Thresholds[1].MinSpend))
		tierRepo.AssertExpectations(t)
	})

	t.Run("a new ladder reclassifies existing customers", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(customerRepo, tierRepo)

		c, err := partner.NewCustomer(shopID, "Chị Lan", "0901234567")
		assert.NoError(t, err)
		c.TotalSpent = decimal.NewFromInt(1_500_000)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
		tierRepo.On("Save", ctx, mock.AnythingOfType("*partner.TierSettings")).Return(nil)
		customerRepo.On("FindAllForShop", ctx, shopID, mock.AnythingOfType("shared.Filter")).
			Return([]partner.Customer{*c}, nil).Once()
		var saved *partner.Customer
		customerRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*partner.Customer) }).
			Return(nil)

		_, err = service.UpdateSettings(ctx, shopID, UpdateTierSettingsRequest{Thresholds: ladder()})

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, partner.TierCodeSilver, saved.Tier)
		customerRepo.AssertExpectations(t)
	})

	t.Run("ladder out of order is rejected", func(t *testing.T) {
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(new(MockCustomerRepository), tierRepo)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)

		bad := ladder()
		bad[1], bad[2] = bad[2], bad[1]
		resp, err := service.UpdateSettings(ctx, shopID, UpdateTierSettingsRequest{Thresholds: bad})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TIER_SETTINGS", domainErr.Code)
		tierRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("incomplete ladder is rejected", func(t *testing.T) {
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(new(MockCustomerRepository), tierRepo)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)

		resp, err := service.UpdateSettings(ctx, shopID, UpdateTierSettingsRequest{Thresholds: ladder()[:2]})

		assert.Nil(t, resp)
		assert.Error(t, err)
	})
}

func TestTierService_Recalculate(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("promotes a qualifying customer", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(customerRepo, tierRepo)

		c, err := partner.NewCustomer(shopID, "Chị Lan", "0901234567")
		assert.NoError(t, err)
		c.TotalSpent = decimal.NewFromInt(12_000_000)
		c.OrderCount = 8

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
		customerRepo.On("FindByIDForShop", ctx, shopID, c.ID).Return(c, nil)
		customerRepo.On("Save", ctx, c).Return(nil)

		resp, err := service.Recalculate(ctx, shopID, c.ID)

		assert.NoError(t, err)
		assert.Equal(t, partner.TierCodeGold, resp.Tier)
		assert.Equal(t, "Vàng", resp.TierName)
		customerRepo.AssertExpectations(t)
	})

	t.Run("demotes when the figures no longer qualify", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(customerRepo, tierRepo)

		c, err := partner.NewCustomer(shopID, "Chị Lan", "0901234567")
		assert.NoError(t, err)
		c.Tier = partner.TierCodeGold

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
		customerRepo.On("FindByIDForShop", ctx, shopID, c.ID).Return(c, nil)
		customerRepo.On("Save", ctx, c).Return(nil)

		resp, err := service.Recalculate(ctx, shopID, c.ID)

		assert.NoError(t, err)
		assert.Equal(t, partner.TierCodeRegular, resp.Tier)
		customerRepo.AssertExpectations(t)
	})

	t.Run("unchanged tier is not rewritten", func(t *testing.T) {
		customerRepo := new(MockCustomerRepository)
		tierRepo := new(MockTierSettingsRepository)
		service := NewTierService(customerRepo, tierRepo)

		c, err := partner.NewCustomer(shopID, "Chị Lan", "0901234567")
		assert.NoError(t, err)

		tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
		customerRepo.On("FindByIDForShop", ctx, shopID, c.ID).Return(c, nil)

		resp, err := service.Recalculate(ctx, shopID, c.ID)

		assert.NoError(t, err)
		assert.Equal(t, partner.TierCodeRegular, resp.Tier)
		customerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTierService_RecalculateAll(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	customerRepo := new(MockCustomerRepository)
	tierRepo := new(MockTierSettingsRepository)
	service := NewTierService(customerRepo, tierRepo)

	qualifying, err := partner.NewCustomer(shopID, "Chị Lan", "0901234567")
	assert.NoError(t, err)
	qualifying.TotalSpent = decimal.NewFromInt(3_000_000)
	qualifying.OrderCount = 6
	staying, err := partner.NewCustomer(shopID, "Anh Minh", "0907654321")
	assert.NoError(t, err)

	tierRepo.On("FindForShop", ctx, shopID).Return(nil, shared.ErrNotFound)
	customerRepo.On("FindAllForShop", ctx, shopID, mock.AnythingOfType("shared.Filter")).
		Return([]partner.Customer{*qualifying, *staying}, nil).Once()
	customerRepo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	result, err := service.RecalculateAll(ctx, shopID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), result.Examined)
	assert.Equal(t, int64(1), result.Changed)
	customerRepo.AssertExpectations(t)
}
