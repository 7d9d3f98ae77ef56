package shipping

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentRequest carries everything a carrier needs to pick up an order
type ShipmentRequest struct {
	OrderCode         string
	SenderName        string
	SenderPhone       string
	SenderAddress     string
	SenderProvince    int
	SenderDistrict    int
	SenderWard        int
	ReceiverName      string
	ReceiverPhone     string
	ReceiverEmail     string
	Address           string
	ProvinceID        int
	DistrictID        int
	WardID            int
	ProductNames      []string
	TotalQuantity     int64
	WeightGrams       int
	LengthCM          int
	WidthCM           int
	HeightCM          int
	OrderTotal        decimal.Decimal
	CollectOnDelivery bool
	Note              string
}

// Shipment is the carrier's acknowledgement of a dispatch
type Shipment struct {
	TrackingCode      string
	CarrierOrderID    string
	Fee               decimal.Decimal
	EstimatedDelivery *time.Time
}

// TrackingEvent is one step of a shipment's journey at the carrier
type TrackingEvent struct {
	StatusCode int
	StatusName string
	Note       string
	Time       time.Time
}

// TrackingInfo is the carrier's current view of a shipment
type TrackingInfo struct {
	TrackingCode string
	StatusCode   int
	StatusName   string
	Events       []TrackingEvent
}

// FeeRequest asks the carrier to quote a shipping fee
type FeeRequest struct {
	SenderProvince    int
	SenderDistrict    int
	ReceiverProvince  int
	ReceiverDistrict  int
	WeightGrams       int
	OrderValue        decimal.Decimal
	CollectOnDelivery bool
}

// FeeQuote is the carrier's quoted price
type FeeQuote struct {
	Fee           decimal.Decimal
	EstimatedDays int
}

// Location is one entry of the carrier's address catalogue
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Gateway is the outbound port to a shipping carrier. Implementations
// live in infrastructure and receive the decrypted token per call since
// each shop carries its own credentials.
type Gateway interface {
	// VerifyToken checks the token against the carrier
	VerifyToken(ctx context.Context, token string) error

	// CreateShipment registers the order with the carrier
	CreateShipment(ctx context.Context, token string, req ShipmentRequest) (*Shipment, error)

	// GetTracking fetches current status and history for a shipment
	GetTracking(ctx context.Context, token, trackingCode, receiverPhone string) (*TrackingInfo, error)

	// CancelShipment cancels a shipment before delivery
	CancelShipment(ctx context.Context, token, trackingCode string) error

	// QuoteFee asks the carrier to price a shipment
	QuoteFee(ctx context.Context, token string, req FeeRequest) (*FeeQuote, error)

	// ListProvinces returns the carrier's province catalogue
	ListProvinces(ctx context.Context, token string) ([]Location, error)

	// ListDistricts returns the districts of a province
	ListDistricts(ctx context.Context, token string, provinceID int) ([]Location, error)

	// ListWards returns the wards of a district
	ListWards(ctx context.Context, token string, districtID int) ([]Location, error)
}
