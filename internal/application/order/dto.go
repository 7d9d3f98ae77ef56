package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/order"
)

// ==================== Requests ====================

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	CustomerID    *uuid.UUID             `json:"customer_id"`
	CustomerName  string                 `json:"customer_name" binding:"required_without=CustomerID,omitempty,min=1,max=200"`
	CustomerPhone string                 `json:"customer_phone" binding:"omitempty,vn_phone"`
	CustomerEmail string                 `json:"customer_email" binding:"omitempty,email"`
	Source        string                 `json:"source" binding:"omitempty,oneof=instagram facebook other"`
	SaveCustomer  bool                   `json:"save_customer"`
	PaymentMethod string                 `json:"payment_method" binding:"omitempty,oneof=cod transfer cash"`
	Items         []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
	Discount      *decimal.Decimal       `json:"discount"`
	ShippingFee   *decimal.Decimal       `json:"shipping_fee"`
	Address       AddressInput           `json:"address" binding:"required"`
	Note          string                 `json:"note" binding:"max=1000"`
}

// CreateOrderItemInput represents an item in the create order request.
// Price overrides the catalog price when set, for manual discounts per line.
type CreateOrderItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required,min=1"`
	Price     *decimal.Decimal `json:"price"`
}

// AddressInput represents a receiver address in requests
type AddressInput struct {
	Line         string `json:"line" binding:"required,min=1,max=500"`
	ProvinceID   int    `json:"province_id"`
	ProvinceName string `json:"province_name"`
	DistrictID   int    `json:"district_id"`
	DistrictName string `json:"district_name"`
	WardID       int    `json:"ward_id"`
	WardName     string `json:"ward_name"`
}

// UpdateOrderRequest represents a request to edit an order. Nil fields are
// left untouched. Items, address and discount are ignored once the order
// carries a tracking code.
type UpdateOrderRequest struct {
	CustomerName  *string                `json:"customer_name" binding:"omitempty,min=1,max=200"`
	CustomerPhone *string                `json:"customer_phone"`
	CustomerEmail *string                `json:"customer_email"`
	Items         []CreateOrderItemInput `json:"items" binding:"omitempty,min=1,dive"`
	Discount      *decimal.Decimal       `json:"discount"`
	ShippingFee   *decimal.Decimal       `json:"shipping_fee"`
	Address       *AddressInput          `json:"address"`
	Note          *string                `json:"note" binding:"omitempty,max=1000"`
}

// TransitionOrderRequest represents a request to move an order to a new status
type TransitionOrderRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// CancelOrderRequest represents a request to cancel an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate    *time.Time `form:"end_date" time_format:"2006-01-02"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	OrderCode      string              `json:"order_code"`
	CustomerID     *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName   string              `json:"customer_name"`
	CustomerPhone  string              `json:"customer_phone,omitempty"`
	CustomerEmail  string              `json:"customer_email,omitempty"`
	Source         string              `json:"source"`
	PaymentMethod  string              `json:"payment_method"`
	Items          []OrderItemResponse `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Discount       decimal.Decimal     `json:"discount"`
	ShippingFee    decimal.Decimal     `json:"shipping_fee"`
	Total          decimal.Decimal     `json:"total"`
	Address        AddressResponse     `json:"address"`
	Status         string              `json:"status"`
	Note           string              `json:"note,omitempty"`
	Shipping       *ShippingResponse   `json:"shipping,omitempty"`
	StatusHistory  []HistoryResponse   `json:"status_history"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// OrderItemResponse represents an order line item in API responses
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// AddressResponse represents a receiver address in API responses
type AddressResponse struct {
	Line         string `json:"line"`
	ProvinceID   int    `json:"province_id,omitempty"`
	ProvinceName string `json:"province_name,omitempty"`
	DistrictID   int    `json:"district_id,omitempty"`
	DistrictName string `json:"district_name,omitempty"`
	WardID       int    `json:"ward_id,omitempty"`
	WardName     string `json:"ward_name,omitempty"`
}

// ShippingResponse represents the carrier state of an order
type ShippingResponse struct {
	Provider          string     `json:"provider"`
	TrackingCode      string     `json:"tracking_code"`
	ShippingOrderID   string     `json:"shipping_order_id,omitempty"`
	Status            string     `json:"status"`
	StatusCode        int        `json:"status_code"`
	EstimatedDelivery *time.Time `json:"estimated_delivery,omitempty"`
	ActualDelivery    *time.Time `json:"actual_delivery,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// HistoryResponse represents one status history entry
type HistoryResponse struct {
	Status    string     `json:"status"`
	Note      string     `json:"note,omitempty"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
	ChangedAt time.Time  `json:"changed_at"`
}

// OrderListItemResponse represents an order in list responses
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderCode     string          `json:"order_code"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	TrackingCode  string          `json:"tracking_code,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StatusSummaryResponse aggregates order counts and revenue per status
type StatusSummaryResponse struct {
	Counts map[string]int64  `json:"counts"`
	Totals map[string]string `json:"totals"`
	Total  int64             `json:"total"`
}

// ToOrderResponse converts a domain order to the response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = OrderItemResponse{
			ID:          o.Items[i].ID,
			ProductID:   o.Items[i].ProductID,
			ProductName: o.Items[i].ProductName,
			Price:       o.Items[i].Price,
			Quantity:    o.Items[i].Quantity,
			Amount:      o.Items[i].Amount(),
		}
	}

	history := make([]HistoryResponse, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		history[i] = HistoryResponse{
			Status:    h.Status.String(),
			Note:      h.Note,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}

	resp := OrderResponse{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		CustomerEmail: o.CustomerEmail,
		Source:        string(o.CustomerSource),
		PaymentMethod: string(o.PaymentMethod),
		Items:         items,
		Subtotal:      o.Subtotal,
		Discount:      o.Discount,
		ShippingFee:   o.ShippingFee,
		Total:         o.Total,
		Address: AddressResponse{
			Line:         o.Address.Line,
			ProvinceID:   o.Address.ProvinceID,
			ProvinceName: o.Address.ProvinceName,
			DistrictID:   o.Address.DistrictID,
			DistrictName: o.Address.DistrictName,
			WardID:       o.Address.WardID,
			WardName:     o.Address.WardName,
		},
		Status:        o.Status.String(),
		Note:          o.Note,
		StatusHistory: history,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Version:       o.Version,
	}

	if o.TrackingCode != "" {
		resp.Shipping = &ShippingResponse{
			Provider:          o.ShippingProvider,
			TrackingCode:      o.TrackingCode,
			ShippingOrderID:   o.ShippingOrderID,
			Status:            o.ShippingStatus,
			StatusCode:        o.ShippingStatusCode,
			EstimatedDelivery: o.EstimatedDelivery,
			ActualDelivery:    o.ActualDelivery,
			UpdatedAt:         o.ShippingUpdatedAt,
		}
	}

	return resp
}

// ToOrderListItemResponse converts a domain order to the list DTO
func ToOrderListItemResponse(o *order.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		ItemCount:     o.ItemCount(),
		Total:         o.Total,
		Status:        o.Status.String(),
		TrackingCode:  o.TrackingCode,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
