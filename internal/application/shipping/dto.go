package shipping

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shipping"
)

// SaveSettingsRequest stores or rotates a shop's carrier credentials
type SaveSettingsRequest struct {
	Token          string `json:"token" binding:"required,min=10"`
	WebhookSecret  string `json:"webhook_secret" binding:"omitempty,min=16,max=128"`
	SenderName     string `json:"sender_name" binding:"max=200"`
	SenderPhone    string `json:"sender_phone" binding:"max=20"`
	SenderAddress  string `json:"sender_address" binding:"max=500"`
	SenderProvince int    `json:"sender_province"`
	SenderDistrict int    `json:"sender_district"`
	SenderWard     int    `json:"sender_ward"`
}

// SettingsResponse is the stored carrier configuration with the token masked
type SettingsResponse struct {
	Provider         string     `json:"provider"`
	TokenMasked      string     `json:"token_masked"`
	HasWebhookSecret bool       `json:"has_webhook_secret"`
	SenderName       string     `json:"sender_name,omitempty"`
	SenderPhone      string     `json:"sender_phone,omitempty"`
	SenderAddress    string     `json:"sender_address,omitempty"`
	SenderProvince   int        `json:"sender_province,omitempty"`
	SenderDistrict   int        `json:"sender_district,omitempty"`
	SenderWard       int        `json:"sender_ward,omitempty"`
	Enabled          bool       `json:"enabled"`
	VerifiedAt       *time.Time `json:"verified_at,omitempty"`
}

// DispatchRequest hands an order to the carrier. Dimensions default to a
// standard parcel when omitted.
type DispatchRequest struct {
	WeightGrams int    `json:"weight_grams" binding:"omitempty,min=1"`
	LengthCM    int    `json:"length_cm" binding:"omitempty,min=1"`
	WidthCM     int    `json:"width_cm" binding:"omitempty,min=1"`
	HeightCM    int    `json:"height_cm" binding:"omitempty,min=1"`
	Note        string `json:"note" binding:"max=500"`
}

// DispatchResponse reports a successful dispatch
type DispatchResponse struct {
	TrackingCode      string          `json:"tracking_code"`
	CarrierOrderID    string          `json:"carrier_order_id,omitempty"`
	Fee               decimal.Decimal `json:"fee"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	OrderStatus       string          `json:"order_status"`
}

// TrackingResponse is the carrier's view of a shipment
type TrackingResponse struct {
	TrackingCode string                  `json:"tracking_code"`
	StatusCode   int                     `json:"status_code"`
	StatusName   string                  `json:"status_name"`
	OrderStatus  string                  `json:"order_status"`
	Events       []TrackingEventResponse `json:"events"`
}

// TrackingEventResponse is one step of the shipment's journey
type TrackingEventResponse struct {
	StatusCode int       `json:"status_code"`
	StatusName string    `json:"status_name"`
	Note       string    `json:"note,omitempty"`
	Time       time.Time `json:"time"`
}

// FeeQuoteRequest asks for a shipping price
type FeeQuoteRequest struct {
	ReceiverProvince int             `json:"receiver_province" binding:"required"`
	ReceiverDistrict int             `json:"receiver_district" binding:"required"`
	WeightGrams      int             `json:"weight_grams" binding:"omitempty,min=1"`
	OrderValue       decimal.Decimal `json:"order_value"`
	COD              bool            `json:"cod"`
}

// FeeQuoteResponse is the carrier's quoted price
type FeeQuoteResponse struct {
	Fee           decimal.Decimal `json:"fee"`
	EstimatedDays int             `json:"estimated_days,omitempty"`
}

// WebhookPayload is the carrier's push notification body. Field names
// follow the carrier's wire format.
type WebhookPayload struct {
	OrderNumber string `json:"ORDER_NUMBER"`
	OrderStatus int    `json:"ORDER_STATUS"`
	StatusName  string `json:"STATUS_NAME"`
	Note        string `json:"NOTE"`
	Time        string `json:"TIME"`
}

// WebhookResult reports what reconciliation did with a webhook delivery
type WebhookResult struct {
	Success       bool   `json:"success"`
	OrderCode     string `json:"order_code,omitempty"`
	OrderStatus   string `json:"order_status,omitempty"`
	StatusChanged bool   `json:"status_changed"`
	Message       string `json:"message,omitempty"`
}

// ToSettingsResponse converts a domain config to the response DTO,
// masking the stored token.
func ToSettingsResponse(c *shipping.ProviderConfig) SettingsResponse {
	return SettingsResponse{
		Provider:         string(c.Provider),
		TokenMasked:      "••••••••",
		HasWebhookSecret: c.WebhookSecret != "",
		SenderName:       c.SenderName,
		SenderPhone:      c.SenderPhone,
		SenderAddress:    c.SenderAddress,
		SenderProvince:   c.SenderProvince,
		SenderDistrict:   c.SenderDistrict,
		SenderWard:       c.SenderWard,
		Enabled:          c.Enabled,
		VerifiedAt:       c.VerifiedAt,
	}
}
