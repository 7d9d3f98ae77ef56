package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/order"
)

// OrderModel is the persistence shape of the order aggregate. The nested
// address and customer snapshot are flattened into columns; items and
// history hang off as child rows.
type OrderModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`

	ShopID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_orders_shop_status,priority:1;uniqueIndex:idx_orders_shop_code,priority:1"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`

	OrderCode string `gorm:"type:varchar(20);not null;uniqueIndex:idx_orders_shop_code,priority:2"`

	CustomerID     *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName   string     `gorm:"type:varchar(200);not null"`
	CustomerPhone  string     `gorm:"type:varchar(20);index"`
	CustomerEmail  string     `gorm:"type:varchar(200)"`
	CustomerSource string     `gorm:"type:varchar(20);not null;default:'instagram'"`

	PaymentMethod string `gorm:"type:varchar(20);not null;default:'cod'"`

	AddressLine  string `gorm:"type:text;not null"`
	ProvinceID   int    `gorm:"not null;default:0"`
	ProvinceName string `gorm:"type:varchar(100)"`
	DistrictID   int    `gorm:"not null;default:0"`
	DistrictName string `gorm:"type:varchar(100)"`
	WardID       int    `gorm:"not null;default:0"`
	WardName     string `gorm:"type:varchar(100)"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	ShippingProvider   string `gorm:"type:varchar(30)"`
	TrackingCode       string `gorm:"type:varchar(50);index"`
	ShippingOrderID    string `gorm:"type:varchar(50)"`
	ShippingStatus     string `gorm:"type:varchar(100)"`
	ShippingStatusCode int    `gorm:"not null;default:0"`
	EstimatedDelivery  *time.Time
	ActualDelivery     *time.Time
	ShippingUpdatedAt  *time.Time

	Status string `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_shop_status,priority:2"`
	Note   string `gorm:"type:text"`

	Items   []OrderItemModel    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []OrderHistoryModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int64           `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// OrderHistoryModel is one entry of the append-only status trail
type OrderHistoryModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(20);not null"`
	Note      string     `gorm:"type:text"`
	ChangedBy *uuid.UUID `gorm:"type:uuid"`
	ChangedAt time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderHistoryModel) TableName() string {
	return "order_status_history"
}

// FromDomain populates the model from the domain aggregate
func (m *OrderModel) FromDomain(o *order.Order) {
	m.ID = o.ID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.Version = o.Version
	m.ShopID = o.ShopID
	m.CreatedBy = o.CreatedBy
	m.OrderCode = o.OrderCode
	m.CustomerID = o.CustomerID
	m.CustomerName = o.CustomerName
	m.CustomerPhone = o.CustomerPhone
	m.CustomerEmail = o.CustomerEmail
	m.CustomerSource = string(o.CustomerSource)
	m.PaymentMethod = string(o.PaymentMethod)
	m.AddressLine = o.Address.Line
	m.ProvinceID = o.Address.ProvinceID
	m.ProvinceName = o.Address.ProvinceName
	m.DistrictID = o.Address.DistrictID
	m.DistrictName = o.Address.DistrictName
	m.WardID = o.Address.WardID
	m.WardName = o.Address.WardName
	m.Subtotal = o.Subtotal
	m.Discount = o.Discount
	m.ShippingFee = o.ShippingFee
	m.Total = o.Total
	m.ShippingProvider = o.ShippingProvider
	m.TrackingCode = o.TrackingCode
	m.ShippingOrderID = o.ShippingOrderID
	m.ShippingStatus = o.ShippingStatus
	m.ShippingStatusCode = o.ShippingStatusCode
	m.EstimatedDelivery = o.EstimatedDelivery
	m.ActualDelivery = o.ActualDelivery
	m.ShippingUpdatedAt = o.ShippingUpdatedAt
	m.Status = o.Status.String()
	m.Note = o.Note

	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:          item.ID,
			OrderID:     o.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}
	}

	m.History = make([]OrderHistoryModel, len(o.StatusHistory))
	for i, h := range o.StatusHistory {
		m.History[i] = OrderHistoryModel{
			ID:        uuid.New(),
			OrderID:   o.ID,
			Status:    h.Status.String(),
			Note:      h.Note,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}
}

// ToDomain converts the model back into the domain aggregate
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		OrderCode:      m.OrderCode,
		CustomerID:     m.CustomerID,
		CustomerName:   m.CustomerName,
		CustomerPhone:  m.CustomerPhone,
		CustomerEmail:  m.CustomerEmail,
		CustomerSource: order.CustomerSource(m.CustomerSource),
		PaymentMethod:  order.PaymentMethod(m.PaymentMethod),
		Address: order.Address{
			Line:         m.AddressLine,
			ProvinceID:   m.ProvinceID,
			ProvinceName: m.ProvinceName,
			DistrictID:   m.DistrictID,
			DistrictName: m.DistrictName,
			WardID:       m.WardID,
			WardName:     m.WardName,
		},
		Subtotal:           m.Subtotal,
		Discount:           m.Discount,
		ShippingFee:        m.ShippingFee,
		Total:              m.Total,
		ShippingProvider:   m.ShippingProvider,
		TrackingCode:       m.TrackingCode,
		ShippingOrderID:    m.ShippingOrderID,
		ShippingStatus:     m.ShippingStatus,
		ShippingStatusCode: m.ShippingStatusCode,
		EstimatedDelivery:  m.EstimatedDelivery,
		ActualDelivery:     m.ActualDelivery,
		ShippingUpdatedAt:  m.ShippingUpdatedAt,
		Status:             order.Status(m.Status),
		Note:               m.Note,
	}

	o.ID = m.ID
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	o.Version = m.Version
	o.ShopID = m.ShopID
	o.CreatedBy = m.CreatedBy

	o.Items = make([]order.Item, len(m.Items))
	for i, item := range m.Items {
		o.Items[i] = order.Item{
			ID:          item.ID,
			OrderID:     item.OrderID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			CreatedAt:   item.CreatedAt,
			UpdatedAt:   item.UpdatedAt,
		}
	}

	o.StatusHistory = make([]order.HistoryEntry, len(m.History))
	for i, h := range m.History {
		o.StatusHistory[i] = order.HistoryEntry{
			Status:    order.Status(h.Status),
			Note:      h.Note,
			ChangedBy: h.ChangedBy,
			ChangedAt: h.ChangedAt,
		}
	}

	return o
}
