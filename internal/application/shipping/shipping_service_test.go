package shipping

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	orderapp "github.com/qlbh/backend/internal/application/order"
	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

func newConfiguredShop(t *testing.T, shopID uuid.UUID) *shipping.ProviderConfig {
	t.Helper()
	cfg, err := shipping.NewProviderConfig(shopID, shipping.ProviderViettelPost, "enc:vtp-token-123")
	assert.NoError(t, err)
	cfg.SetSender("Shop Lan", "0909999999", "5 Tràng Tiền", 1, 4, 7)
	return cfg
}

func newPendingOrder(t *testing.T, shopID uuid.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(shopID, uuid.New(), "", order.CustomerSnapshot{Name: "Chị Lan", Phone: "0901234567"},
		order.PaymentCOD, order.Address{Line: "12 Hàng Bông", ProvinceID: 1, DistrictID: 1, WardID: 2}, "")
	assert.NoError(t, err)
	_, err = o.AddItem(uuid.New(), "Áo thun", decimal.NewFromInt(150000), 2)
	assert.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestShippingService_SaveSettings(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("stores a verified encrypted token", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, new(MockOrderRepository), gateway, fakeCipher{}, new(MockOrderEffects))

		gateway.On("VerifyToken", ctx, "vtp-token-123").Return(nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(nil, shared.ErrNotFound)
		var saved *shipping.ProviderConfig
		configRepo.On("Save", ctx, mock.AnythingOfType("*shipping.ProviderConfig")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*shipping.ProviderConfig) }).
			Return(nil)

		resp, err := service.SaveSettings(ctx, shopID, SaveSettingsRequest{
			Token:         "vtp-token-123",
			WebhookSecret: "webhook-secret-1234567890",
			SenderName:    "Shop Lan",
		})

		assert.NoError(t, err)
		assert.True(t, resp.Enabled)
		assert.True(t, resp.HasWebhookSecret)
		assert.NotNil(t, saved)
		assert.Equal(t, "enc:vtp-token-123", saved.EncryptedToken)
		assert.NotNil(t, saved.VerifiedAt)
		gateway.AssertExpectations(t)
	})

	t.Run("carrier rejecting the token aborts the save", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, new(MockOrderRepository), gateway, fakeCipher{}, new(MockOrderEffects))

		gateway.On("VerifyToken", ctx, "bad-token-000").Return(shared.ErrUnauthorized)

		resp, err := service.SaveSettings(ctx, shopID, SaveSettingsRequest{Token: "bad-token-000"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, shared.ErrUnauthorized)
		configRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("saving again rotates the stored token", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, new(MockOrderRepository), gateway, fakeCipher{}, new(MockOrderEffects))

		existing := newConfiguredShop(t, shopID)
		gateway.On("VerifyToken", ctx, "vtp-token-456").Return(nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(existing, nil)
		configRepo.On("Save", ctx, existing).Return(nil)

		_, err := service.SaveSettings(ctx, shopID, SaveSettingsRequest{Token: "vtp-token-456"})

		assert.NoError(t, err)
		assert.Equal(t, "enc:vtp-token-456", existing.EncryptedToken)
	})
}

func TestShippingService_Dispatch(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()
	userID := uuid.New()

	t.Run("successful dispatch locks the order behind the tracking code", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		cfg := newConfiguredShop(t, shopID)
		eta := time.Now().Add(48 * time.Hour)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("CreateShipment", ctx, "vtp-token-123", mock.AnythingOfType("shipping.ShipmentRequest")).
			Return(&shipping.Shipment{
				TrackingCode:      "VTP900001",
				CarrierOrderID:    "4500123",
				Fee:               decimal.NewFromInt(31000),
				EstimatedDelivery: &eta,
			}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.NoError(t, err)
		assert.Equal(t, "VTP900001", resp.TrackingCode)
		assert.Equal(t, "shipping", resp.OrderStatus)
		assert.True(t, o.IsLocked())
		assert.True(t, decimal.NewFromInt(31000).Equal(o.ShippingFee))
		gateway.AssertExpectations(t)
	})

	t.Run("parcel defaults fill the shipment request", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		var sent shipping.ShipmentRequest
		gateway.On("CreateShipment", ctx, "vtp-token-123", mock.AnythingOfType("shipping.ShipmentRequest")).
			Run(func(args mock.Arguments) { sent = args.Get(2).(shipping.ShipmentRequest) }).
			Return(&shipping.Shipment{TrackingCode: "VTP900002"}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		_, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.NoError(t, err)
		assert.Equal(t, defaultWeightGrams, sent.WeightGrams)
		assert.Equal(t, defaultLengthCM, sent.LengthCM)
		assert.Equal(t, "Shop Lan", sent.SenderName)
		assert.Equal(t, "Chị Lan", sent.ReceiverName)
		assert.True(t, sent.CollectOnDelivery)
		assert.Equal(t, int64(2), sent.TotalQuantity)
	})

	t.Run("already dispatched orders are refused", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		assert.NoError(t, o.AttachShipment("viettelpost", "VTP900003", "", "Viettel Post", nil, &userID))

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)

		resp, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DISPATCHED", domainErr.Code)
		gateway.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unconfigured shop cannot dispatch", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		service := NewShippingService(configRepo, orderRepo, new(MockGateway), fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(nil, shared.ErrNotFound)

		resp, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PROVIDER_NOT_CONFIGURED", domainErr.Code)
	})

	t.Run("disabled provider cannot dispatch", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		service := NewShippingService(configRepo, orderRepo, new(MockGateway), fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		cfg := newConfiguredShop(t, shopID)
		cfg.Disable()

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)

		resp, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "PROVIDER_DISABLED", domainErr.Code)
	})

	t.Run("operator shipping fee is not overwritten by the carrier fee", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		assert.NoError(t, o.SetShippingFee(decimal.NewFromInt(20000)))
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("CreateShipment", ctx, "vtp-token-123", mock.AnythingOfType("shipping.ShipmentRequest")).
			Return(&shipping.Shipment{TrackingCode: "VTP900004", Fee: decimal.NewFromInt(31000)}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		_, err := service.Dispatch(ctx, shopID, userID, o.ID, DispatchRequest{})

		assert.NoError(t, err)
		assert.True(t, decimal.NewFromInt(20000).Equal(o.ShippingFee))
	})
}

func TestShippingService_Track(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("pull reconciles the carrier status like a webhook would", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		effects := new(MockOrderEffects)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, effects)

		o := newShippedOrder(t, shopID, "VTP900005")
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("GetTracking", ctx, "vtp-token-123", "VTP900005", "0901234567").
			Return(&shipping.TrackingInfo{
				TrackingCode: "VTP900005",
				StatusCode:   200,
				StatusName:   "Giao hàng thành công",
				Events: []shipping.TrackingEvent{
					{StatusCode: 100, StatusName: "Đã tiếp nhận", Time: time.Now().Add(-2 * time.Hour)},
					{StatusCode: 200, StatusName: "Giao hàng thành công", Time: time.Now()},
				},
			}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)
		effects.On("ApplyCarrierEffects", ctx, o, order.StatusShipping).Return()

		resp, err := service.Track(ctx, shopID, o.ID)

		assert.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "Giao hàng thành công", resp.StatusName)
		assert.Equal(t, "delivered", resp.OrderStatus)
		assert.Len(t, resp.Events, 2)
		assert.Equal(t, order.StatusDelivered, o.Status)
		effects.AssertExpectations(t)
	})

	t.Run("a pulled return restocks the items", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		productRepo := new(MockProductRepository)
		gateway := new(MockGateway)
		effects := orderapp.NewOrderService(orderRepo, productRepo, new(MockCustomerRepository), new(MockTierSettingsRepository))
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, effects)

		o := newShippedOrder(t, shopID, "VTP900008")
		productID := o.Items[0].ProductID
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("GetTracking", ctx, "vtp-token-123", "VTP900008", "0901234567").
			Return(&shipping.TrackingInfo{TrackingCode: "VTP900008", StatusCode: 501}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)
		productRepo.On("ReleaseStock", ctx, shopID, productID, int64(2)).Return(nil)

		resp, err := service.Track(ctx, shopID, o.ID)

		assert.NoError(t, err)
		assert.Equal(t, "returned", resp.OrderStatus)
		productRepo.AssertExpectations(t)
	})

	t.Run("an unchanged status triggers no side effects", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		effects := new(MockOrderEffects)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, effects)

		o := newShippedOrder(t, shopID, "VTP900009")
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("GetTracking", ctx, "vtp-token-123", "VTP900009", "0901234567").
			Return(&shipping.TrackingInfo{TrackingCode: "VTP900009", StatusCode: 103}, nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		resp, err := service.Track(ctx, shopID, o.ID)

		assert.NoError(t, err)
		assert.Equal(t, "shipping", resp.OrderStatus)
		effects.AssertNotCalled(t, "ApplyCarrierEffects", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tracking an undispatched order fails", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		service := NewShippingService(new(MockProviderConfigRepository), orderRepo, new(MockGateway), fakeCipher{}, new(MockOrderEffects))

		o := newPendingOrder(t, shopID)
		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)

		resp, err := service.Track(ctx, shopID, o.ID)

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_DISPATCHED", domainErr.Code)
	})
}

func TestShippingService_CancelShipment(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()
	userID := uuid.New()

	t.Run("cancels at the carrier and stamps the order", func(t *testing.T) {
		configRepo := new(MockProviderConfigRepository)
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(configRepo, orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newShippedOrder(t, shopID, "VTP900006")
		cfg := newConfiguredShop(t, shopID)

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)
		configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
		gateway.On("CancelShipment", ctx, "vtp-token-123", "VTP900006").Return(nil)
		orderRepo.On("Save", ctx, o).Return(nil)

		result, err := service.CancelShipment(ctx, shopID, userID, o.ID)

		assert.NoError(t, err)
		assert.Equal(t, 502, result.ShippingStatusCode)
		gateway.AssertExpectations(t)
	})

	t.Run("delivered shipments cannot be cancelled", func(t *testing.T) {
		orderRepo := new(MockOrderRepository)
		gateway := new(MockGateway)
		service := NewShippingService(new(MockProviderConfigRepository), orderRepo, gateway, fakeCipher{}, new(MockOrderEffects))

		o := newShippedOrder(t, shopID, "VTP900007")
		now := time.Now()
		o.ActualDelivery = &now

		orderRepo.On("FindByIDForShop", ctx, shopID, o.ID).Return(o, nil)

		result, err := service.CancelShipment(ctx, shopID, userID, o.ID)

		assert.Nil(t, result)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_DELIVERED", domainErr.Code)
		gateway.AssertNotCalled(t, "CancelShipment", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestShippingService_QuoteFee(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	configRepo := new(MockProviderConfigRepository)
	gateway := new(MockGateway)
	service := NewShippingService(configRepo, new(MockOrderRepository), gateway, fakeCipher{}, new(MockOrderEffects))

	cfg := newConfiguredShop(t, shopID)
	configRepo.On("FindForShop", ctx, shopID, shipping.ProviderViettelPost).Return(cfg, nil)
	var sent shipping.FeeRequest
	gateway.On("QuoteFee", ctx, "vtp-token-123", mock.AnythingOfType("shipping.FeeRequest")).
		Run(func(args mock.Arguments) { sent = args.Get(2).(shipping.FeeRequest) }).
		Return(&shipping.FeeQuote{Fee: decimal.NewFromInt(27500), EstimatedDays: 2}, nil)

	resp, err := service.QuoteFee(ctx, shopID, FeeQuoteRequest{
		ReceiverProvince: 2,
		ReceiverDistrict: 14,
	})

	assert.NoError(t, err)
	assert.True(t, decimal.NewFromInt(27500).Equal(resp.Fee))
	assert.Equal(t, 2, resp.EstimatedDays)
	assert.Equal(t, 1, sent.SenderProvince)
	assert.Equal(t, defaultWeightGrams, sent.WeightGrams)
}
