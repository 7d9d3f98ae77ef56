package shipping

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/domain/shipping"
)

// OrderEffects applies the inventory and customer side effects of a
// status change the carrier pushed onto an order.
type OrderEffects interface {
	ApplyCarrierEffects(ctx context.Context, o *order.Order, from order.Status)
}

// WebhookService reconciles carrier push notifications into orders. The
// carrier retries deliveries and may reorder them, so every update is
// idempotent and terminal orders are never downgraded. Business and
// internal failures are acknowledged as soft failures; anything non-2xx
// would put the carrier into a retry loop it cannot win.
type WebhookService struct {
	orderRepo  order.Repository
	configRepo shipping.ProviderConfigRepository
	effects    OrderEffects
	logger     *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	orderRepo order.Repository,
	configRepo shipping.ProviderConfigRepository,
	effects OrderEffects,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		orderRepo:  orderRepo,
		configRepo: configRepo,
		effects:    effects,
		logger:     logger,
	}
}

// VerifySignature checks the HMAC-SHA256 hex signature of the raw body
// against the shop's webhook secret. Verification only runs when both a
// secret is configured and the carrier sent the signature header; an
// unsigned delivery is accepted as-is.
func (s *WebhookService) VerifySignature(secret string, rawBody []byte, signature string) error {
	if secret == "" || signature == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return shared.ErrSignatureMismatch
	}
	return nil
}

// Handle processes one Viettel Post delivery. The tracking code is the
// only shop-independent handle the carrier has, so the order lookup is
// cross-shop and the shop's secret is only known after it. The returned
// error is non-nil only on a signature mismatch; every other failure is
// reported through the result body.
func (s *WebhookService) Handle(ctx context.Context, payload WebhookPayload, rawBody []byte, signature string) (*WebhookResult, error) {
	o, err := s.orderRepo.FindByTrackingCode(ctx, payload.OrderNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Unknown tracking codes are acknowledged so the carrier
			// stops retrying; the miss is still logged for operators.
			s.logger.Warn("webhook for unknown tracking code",
				zap.String("tracking_code", payload.OrderNumber))
			return &WebhookResult{Success: false, Message: "order not found"}, nil
		}
		return s.softFailure(payload, err), nil
	}

	cfg, err := s.configRepo.FindForShop(ctx, o.ShopID, shipping.ProviderViettelPost)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return s.softFailure(payload, err), nil
	}
	secret := ""
	if cfg != nil {
		secret = cfg.WebhookSecret
	}
	if err := s.VerifySignature(secret, rawBody, signature); err != nil {
		s.logger.Warn("webhook signature mismatch",
			zap.String("tracking_code", payload.OrderNumber),
			zap.String("shop_id", o.ShopID.String()))
		return nil, err
	}

	at := parseWebhookTime(payload.Time)
	mapped := shipping.MapViettelPostStatus(payload.OrderStatus)
	label := payload.StatusName
	if label == "" {
		label = mapped.Label
	}

	from := o.Status
	changed := o.ApplyCarrierStatus(payload.OrderStatus, label, payload.Note, at, mapped.OrderStatus)

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return s.softFailure(payload, err), nil
	}

	if changed {
		s.effects.ApplyCarrierEffects(ctx, o, from)
	}

	s.logger.Info("webhook reconciled",
		zap.String("tracking_code", payload.OrderNumber),
		zap.String("order_code", o.OrderCode),
		zap.Int("carrier_status", payload.OrderStatus),
		zap.String("order_status", o.Status.String()),
		zap.Bool("status_changed", changed))

	return &WebhookResult{
		Success:       true,
		OrderCode:     o.OrderCode,
		OrderStatus:   o.Status.String(),
		StatusChanged: changed,
	}, nil
}

func (s *WebhookService) softFailure(payload WebhookPayload, err error) *WebhookResult {
	s.logger.Error("webhook processing failed",
		zap.String("tracking_code", payload.OrderNumber),
		zap.Int("carrier_status", payload.OrderStatus),
		zap.Error(err))
	return &WebhookResult{Success: false, Message: err.Error()}
}

// parseWebhookTime accepts the carrier's timestamp formats, falling back
// to now when absent or unparseable.
func parseWebhookTime(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "02/01/2006 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now()
}
