package shipping

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

// Parcel defaults applied when the operator does not measure the package
const (
	defaultWeightGrams = 500
	defaultLengthCM    = 20
	defaultWidthCM     = 15
	defaultHeightCM    = 10
)

// TokenCipher encrypts carrier tokens at rest
type TokenCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// ShippingService manages carrier credentials and the dispatch, tracking
// and cancellation of shipments.
type ShippingService struct {
	configRepo shipping.ProviderConfigRepository
	orderRepo  order.Repository
	gateway    shipping.Gateway
	cipher     TokenCipher
	effects    OrderEffects
}

// NewShippingService creates a new ShippingService
func NewShippingService(
	configRepo shipping.ProviderConfigRepository,
	orderRepo order.Repository,
	gateway shipping.Gateway,
	cipher TokenCipher,
	effects OrderEffects,
) *ShippingService {
	return &ShippingService{
		configRepo: configRepo,
		orderRepo:  orderRepo,
		gateway:    gateway,
		cipher:     cipher,
		effects:    effects,
	}
}

// SaveSettings verifies the token against the carrier, encrypts it and
// stores the shop's configuration.
func (s *ShippingService) SaveSettings(ctx context.Context, shopID uuid.UUID, req SaveSettingsRequest) (*SettingsResponse, error) {
	if err := s.gateway.VerifyToken(ctx, req.Token); err != nil {
		return nil, err
	}

	encrypted, err := s.cipher.Encrypt(req.Token)
	if err != nil {
		return nil, err
	}

	cfg, err := s.configRepo.FindForShop(ctx, shopID, shipping.ProviderViettelPost)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		cfg, err = shipping.NewProviderConfig(shopID, shipping.ProviderViettelPost, encrypted)
		if err != nil {
			return nil, err
		}
	} else {
		if err := cfg.RotateToken(encrypted); err != nil {
			return nil, err
		}
	}

	cfg.MarkVerified(time.Now())
	if req.WebhookSecret != "" {
		cfg.SetWebhookSecret(req.WebhookSecret)
	}
	if req.SenderName != "" || req.SenderAddress != "" || req.SenderProvince != 0 {
		cfg.SetSender(req.SenderName, req.SenderPhone, req.SenderAddress,
			req.SenderProvince, req.SenderDistrict, req.SenderWard)
	}

	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	resp := ToSettingsResponse(cfg)
	return &resp, nil
}

// GetSettings returns the stored configuration with the token masked
func (s *ShippingService) GetSettings(ctx context.Context, shopID uuid.UUID) (*SettingsResponse, error) {
	cfg, err := s.configRepo.FindForShop(ctx, shopID, shipping.ProviderViettelPost)
	if err != nil {
		return nil, err
	}
	resp := ToSettingsResponse(cfg)
	return &resp, nil
}

// DeleteSettings removes the shop's carrier configuration
func (s *ShippingService) DeleteSettings(ctx context.Context, shopID uuid.UUID) error {
	return s.configRepo.Delete(ctx, shopID, shipping.ProviderViettelPost)
}

// Dispatch registers an order with the carrier and locks it behind the
// returned tracking code.
func (s *ShippingService) Dispatch(ctx context.Context, shopID, userID, orderID uuid.UUID, req DispatchRequest) (*DispatchResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if o.IsLocked() {
		return nil, shared.NewDomainError("ALREADY_DISPATCHED", "Order already has a tracking code")
	}
	if o.Status.IsTerminal() {
		return nil, shared.ErrInvalidState
	}
	if len(o.Items) == 0 {
		return nil, shared.ErrEmptyOrder
	}

	cfg, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	shipReq := s.buildShipmentRequest(o, cfg, req)
	shipment, err := s.gateway.CreateShipment(ctx, token, shipReq)
	if err != nil {
		return nil, err
	}

	if err := o.AttachShipment(string(shipping.ProviderViettelPost), shipment.TrackingCode,
		shipment.CarrierOrderID, "Viettel Post", shipment.EstimatedDelivery, &userID); err != nil {
		return nil, err
	}
	if shipment.Fee.IsPositive() && o.ShippingFee.IsZero() {
		if err := o.SetShippingFee(shipment.Fee); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	return &DispatchResponse{
		TrackingCode:      shipment.TrackingCode,
		CarrierOrderID:    shipment.CarrierOrderID,
		Fee:               shipment.Fee,
		EstimatedDelivery: shipment.EstimatedDelivery,
		OrderStatus:       o.Status.String(),
	}, nil
}

// Track pulls the carrier's current view of an order's shipment and
// reconciles it into the order, the same way a webhook delivery would.
func (s *ShippingService) Track(ctx context.Context, shopID, orderID uuid.UUID) (*TrackingResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if o.TrackingCode == "" {
		return nil, shared.NewDomainError("NOT_DISPATCHED", "Order has no tracking code")
	}

	_, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	info, err := s.gateway.GetTracking(ctx, token, o.TrackingCode, o.CustomerPhone)
	if err != nil {
		return nil, err
	}

	mapped := shipping.MapViettelPostStatus(info.StatusCode)
	label := firstNonEmpty(info.StatusName, mapped.Label)
	from := o.Status
	changed := o.ApplyCarrierStatus(info.StatusCode, label, "", time.Now(), mapped.OrderStatus)
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	if changed {
		s.effects.ApplyCarrierEffects(ctx, o, from)
	}

	events := make([]TrackingEventResponse, len(info.Events))
	for i, e := range info.Events {
		events[i] = TrackingEventResponse{
			StatusCode: e.StatusCode,
			StatusName: e.StatusName,
			Note:       e.Note,
			Time:       e.Time,
		}
	}

	return &TrackingResponse{
		TrackingCode: o.TrackingCode,
		StatusCode:   info.StatusCode,
		StatusName:   label,
		OrderStatus:  o.Status.String(),
		Events:       events,
	}, nil
}

// CancelShipment cancels the shipment at the carrier. The order itself
// stays; the operator decides whether to cancel or re-dispatch it.
func (s *ShippingService) CancelShipment(ctx context.Context, shopID, userID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, orderID)
	if err != nil {
		return nil, err
	}
	if o.TrackingCode == "" {
		return nil, shared.NewDomainError("NOT_DISPATCHED", "Order has no tracking code")
	}
	if o.ActualDelivery != nil {
		return nil, shared.NewDomainError("ALREADY_DELIVERED", "Delivered shipments cannot be cancelled")
	}

	_, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if err := s.gateway.CancelShipment(ctx, token, o.TrackingCode); err != nil {
		return nil, err
	}

	o.MarkShippingCancelled(&userID)
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// QuoteFee prices a shipment from the shop's configured pickup point
func (s *ShippingService) QuoteFee(ctx context.Context, shopID uuid.UUID, req FeeQuoteRequest) (*FeeQuoteResponse, error) {
	cfg, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}

	weight := req.WeightGrams
	if weight == 0 {
		weight = defaultWeightGrams
	}

	quote, err := s.gateway.QuoteFee(ctx, token, shipping.FeeRequest{
		SenderProvince:    cfg.SenderProvince,
		SenderDistrict:    cfg.SenderDistrict,
		ReceiverProvince:  req.ReceiverProvince,
		ReceiverDistrict:  req.ReceiverDistrict,
		WeightGrams:       weight,
		OrderValue:        req.OrderValue,
		CollectOnDelivery: req.COD,
	})
	if err != nil {
		return nil, err
	}

	return &FeeQuoteResponse{Fee: quote.Fee, EstimatedDays: quote.EstimatedDays}, nil
}

// ListProvinces returns the carrier's province catalogue
func (s *ShippingService) ListProvinces(ctx context.Context, shopID uuid.UUID) ([]shipping.Location, error) {
	_, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListProvinces(ctx, token)
}

// ListDistricts returns the districts of a province
func (s *ShippingService) ListDistricts(ctx context.Context, shopID uuid.UUID, provinceID int) ([]shipping.Location, error) {
	_, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListDistricts(ctx, token, provinceID)
}

// ListWards returns the wards of a district
func (s *ShippingService) ListWards(ctx context.Context, shopID uuid.UUID, districtID int) ([]shipping.Location, error) {
	_, token, err := s.loadToken(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return s.gateway.ListWards(ctx, token, districtID)
}

func (s *ShippingService) loadToken(ctx context.Context, shopID uuid.UUID) (*shipping.ProviderConfig, string, error) {
	cfg, err := s.configRepo.FindForShop(ctx, shopID, shipping.ProviderViettelPost)
	if err != nil {
		return nil, "", shared.NewDomainError("PROVIDER_NOT_CONFIGURED", "Chưa cấu hình Viettel Post cho cửa hàng")
	}
	if !cfg.Enabled {
		return nil, "", shared.NewDomainError("PROVIDER_DISABLED", "Viettel Post đang bị tắt cho cửa hàng")
	}
	token, err := s.cipher.Decrypt(cfg.EncryptedToken)
	if err != nil {
		return nil, "", err
	}
	return cfg, token, nil
}

func (s *ShippingService) buildShipmentRequest(o *order.Order, cfg *shipping.ProviderConfig, req DispatchRequest) shipping.ShipmentRequest {
	names := make([]string, len(o.Items))
	for i, item := range o.Items {
		names[i] = item.ProductName
	}

	weight, length, width, height := req.WeightGrams, req.LengthCM, req.WidthCM, req.HeightCM
	if weight == 0 {
		weight = defaultWeightGrams
	}
	if length == 0 {
		length = defaultLengthCM
	}
	if width == 0 {
		width = defaultWidthCM
	}
	if height == 0 {
		height = defaultHeightCM
	}

	return shipping.ShipmentRequest{
		OrderCode:         o.OrderCode,
		SenderName:        cfg.SenderName,
		SenderPhone:       cfg.SenderPhone,
		SenderAddress:     cfg.SenderAddress,
		SenderProvince:    cfg.SenderProvince,
		SenderDistrict:    cfg.SenderDistrict,
		SenderWard:        cfg.SenderWard,
		ReceiverName:      o.CustomerName,
		ReceiverPhone:     o.CustomerPhone,
		ReceiverEmail:     o.CustomerEmail,
		Address:           o.Address.Line,
		ProvinceID:        o.Address.ProvinceID,
		DistrictID:        o.Address.DistrictID,
		WardID:            o.Address.WardID,
		ProductNames:      names,
		TotalQuantity:     o.TotalQuantity(),
		WeightGrams:       weight,
		LengthCM:          length,
		WidthCM:           width,
		HeightCM:          height,
		OrderTotal:        o.Total,
		CollectOnDelivery: o.PaymentMethod == order.PaymentCOD,
		Note:              firstNonEmpty(req.Note, o.Note),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
