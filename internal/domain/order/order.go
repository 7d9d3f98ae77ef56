package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/shared"
)

// PaymentMethod represents how the customer pays for the order
type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentCash     PaymentMethod = "cash"
)

// IsValid checks if the payment method is known
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCOD, PaymentTransfer, PaymentCash:
		return true
	}
	return false
}

// CustomerSource records which channel the order came from
type CustomerSource string

const (
	SourceInstagram CustomerSource = "instagram"
	SourceFacebook  CustomerSource = "facebook"
	SourceOther     CustomerSource = "other"
)

// Item is a line item in an order. Product name and price are snapshotted at
// creation time so historical orders stay stable when the catalog changes.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       decimal.Decimal
	Quantity    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewItem creates a new order line item
func NewItem(orderID, productID uuid.UUID, productName string, price decimal.Decimal, quantity int64) (*Item, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	now := time.Now()
	return &Item{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Amount returns price * quantity for the line
func (i *Item) Amount() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Address is the receiver address, broken into the free-text line plus the
// carrier location ids needed for the shipping API.
type Address struct {
	Line         string
	ProvinceID   int
	ProvinceName string
	DistrictID   int
	DistrictName string
	WardID       int
	WardName     string
}

// HistoryEntry is one entry of the append-only status audit trail.
// A nil ChangedBy marks a system (carrier-originated) change.
type HistoryEntry struct {
	Status    Status
	Note      string
	ChangedBy *uuid.UUID
	ChangedAt time.Time
}

// CustomerSnapshot holds the customer contact fields denormalized onto the
// order at creation time.
type CustomerSnapshot struct {
	CustomerID *uuid.UUID
	Name       string
	Phone      string
	Email      string
	Source     CustomerSource
}

// Order is the aggregate root for the order lifecycle and shipping state.
type Order struct {
	shared.ShopAggregateRoot

	OrderCode string

	CustomerID     *uuid.UUID
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	CustomerSource CustomerSource

	PaymentMethod PaymentMethod
	Address       Address

	Items []Item

	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal

	// Shipping provider fields, populated on dispatch and webhook updates
	ShippingProvider   string
	TrackingCode       string
	ShippingOrderID    string
	ShippingStatus     string
	ShippingStatusCode int
	EstimatedDelivery  *time.Time
	ActualDelivery     *time.Time
	ShippingUpdatedAt  *time.Time

	Status        Status
	Note          string
	StatusHistory []HistoryEntry
}

// GenerateOrderCode derives a human order code from the current time, matching
// the DH + 8-digit scheme operators already know.
func GenerateOrderCode(now time.Time) string {
	ms := fmt.Sprintf("%d", now.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "DH" + ms
}

// NewOrder creates a new order in pending status with its initial history entry
func NewOrder(shopID uuid.UUID, createdBy uuid.UUID, code string, customer CustomerSnapshot, payment PaymentMethod, address Address, note string) (*Order, error) {
	if address.Line == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	if payment == "" {
		payment = PaymentCOD
	}
	if !payment.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if customer.Source == "" {
		customer.Source = SourceInstagram
	}
	if code == "" {
		code = GenerateOrderCode(time.Now())
	}

	o := &Order{
		ShopAggregateRoot: shared.NewShopAggregateRootWithCreator(shopID, createdBy),
		OrderCode:         code,
		CustomerID:        customer.CustomerID,
		CustomerName:      customer.Name,
		CustomerPhone:     customer.Phone,
		CustomerEmail:     customer.Email,
		CustomerSource:    customer.Source,
		PaymentMethod:     payment,
		Address:           address,
		Items:             make([]Item, 0),
		Subtotal:          decimal.Zero,
		Discount:          decimal.Zero,
		ShippingFee:       decimal.Zero,
		Total:             decimal.Zero,
		Status:            StatusPending,
		Note:              note,
	}
	o.StatusHistory = []HistoryEntry{{
		Status:    StatusPending,
		Note:      "Đơn hàng được tạo",
		ChangedBy: &createdBy,
		ChangedAt: o.CreatedAt,
	}}

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return o, nil
}

// IsLocked reports whether the order has been handed to a carrier. Locked
// orders reject item and address edits since the carrier already holds that
// data.
func (o *Order) IsLocked() bool {
	return o.TrackingCode != ""
}

// AddItem appends a line item and recomputes totals. Only valid before the
// order is dispatched.
func (o *Order) AddItem(productID uuid.UUID, productName string, price decimal.Decimal, quantity int64) (*Item, error) {
	if o.IsLocked() {
		return nil, shared.NewDomainError("ORDER_LOCKED", "Cannot modify items after dispatch")
	}
	item, err := NewItem(o.ID, productID, productName, price, quantity)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return item, nil
}

// ReplaceItems swaps the whole item list. Stock reconciliation is the
// application service's responsibility.
func (o *Order) ReplaceItems(items []Item) error {
	if o.IsLocked() {
		return shared.NewDomainError("ORDER_LOCKED", "Cannot modify items after dispatch")
	}
	if len(items) == 0 {
		return shared.ErrEmptyOrder
	}
	o.Items = items
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetDiscount sets the order-level discount and recomputes totals
func (o *Order) SetDiscount(discount decimal.Decimal) error {
	if discount.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	o.Discount = discount
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetShippingFee sets the shipping fee charged to the customer and recomputes totals
func (o *Order) SetShippingFee(fee decimal.Decimal) error {
	if fee.IsNegative() {
		return shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}
	o.ShippingFee = fee
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// recalculateTotals recomputes subtotal and total from the item list. Total is
// never set independently.
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount())
	}
	o.Subtotal = subtotal
	o.Total = subtotal.Sub(o.Discount).Add(o.ShippingFee)
	if o.Total.IsNegative() {
		o.Discount = subtotal.Add(o.ShippingFee)
		o.Total = decimal.Zero
	}
}

// TransitionTo moves the order to the target status if the allow-list permits
// it, appending a history entry. On a rejected transition nothing is mutated.
func (o *Order) TransitionTo(target Status, note string, actor *uuid.UUID) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewInvalidTransitionError(o.Status.String(), target.String())
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.StatusHistory = append(o.StatusHistory, HistoryEntry{
		Status:    target,
		Note:      note,
		ChangedBy: actor,
		ChangedAt: now,
	})
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Cancel cancels the order. Completed and already-cancelled orders cannot be
// cancelled; stock release is orchestrated by the application service.
func (o *Order) Cancel(reason string, actor *uuid.UUID) error {
	if o.Status == StatusCompleted || o.Status == StatusCancelled {
		return shared.ErrNotCancellable
	}
	if reason == "" {
		reason = "Đơn hàng bị hủy"
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.StatusHistory = append(o.StatusHistory, HistoryEntry{
		Status:    StatusCancelled,
		Note:      reason,
		ChangedBy: actor,
		ChangedAt: now,
	})
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// UpdateContact updates the denormalized customer contact fields. Empty values
// leave the current value unchanged.
func (o *Order) UpdateContact(name, phone, email string) {
	if name != "" {
		o.CustomerName = name
	}
	if phone != "" {
		o.CustomerPhone = phone
	}
	if email != "" {
		o.CustomerEmail = email
	}
	o.UpdatedAt = time.Now()
}

// SetAddress replaces the receiver address. Rejected once the carrier holds
// the shipment.
func (o *Order) SetAddress(address Address) error {
	if o.IsLocked() {
		return shared.NewDomainError("ORDER_LOCKED", "Cannot change address after dispatch")
	}
	if address.Line == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address cannot be empty")
	}
	o.Address = address
	o.UpdatedAt = time.Now()
	return nil
}

// SetNote sets the free-text order note
func (o *Order) SetNote(note string) {
	o.Note = note
	o.UpdatedAt = time.Now()
}

// AttachShipment records a successful carrier dispatch: shipping identity,
// the initial carrier status, and, for pending/processing orders, the move to
// shipping with a history entry carrying the tracking code.
func (o *Order) AttachShipment(provider, trackingCode, shippingOrderID, providerLabel string, estimatedDelivery *time.Time, actor *uuid.UUID) error {
	if o.IsLocked() {
		return shared.NewDomainError("ALREADY_DISPATCHED", "Order already has a tracking code")
	}
	if trackingCode == "" {
		return shared.NewDomainError("INVALID_TRACKING_CODE", "Tracking code cannot be empty")
	}

	now := time.Now()
	o.ShippingProvider = provider
	o.TrackingCode = trackingCode
	o.ShippingOrderID = shippingOrderID
	o.ShippingStatus = "Đã tiếp nhận"
	o.ShippingStatusCode = 100
	o.EstimatedDelivery = estimatedDelivery
	o.ShippingUpdatedAt = &now
	o.UpdatedAt = now

	if o.Status == StatusPending || o.Status == StatusProcessing {
		o.Status = StatusShipping
		o.StatusHistory = append(o.StatusHistory, HistoryEntry{
			Status:    StatusShipping,
			Note:      fmt.Sprintf("Đã gửi cho %s. Mã vận đơn: %s", providerLabel, trackingCode),
			ChangedBy: actor,
			ChangedAt: now,
		})
	}

	o.AddDomainEvent(NewOrderDispatchedEvent(o))

	return nil
}

// ApplyCarrierStatus reconciles a carrier-reported status into the order.
// Redelivering the same status code only refreshes the update timestamp, and a
// completed order is never downgraded by an out-of-order carrier event.
// Returns true when the main order status changed.
func (o *Order) ApplyCarrierStatus(code int, label, note string, at time.Time, mapped Status) bool {
	if at.IsZero() {
		at = time.Now()
	}

	sameCode := o.ShippingStatusCode == code && o.ShippingUpdatedAt != nil

	o.ShippingStatus = label
	o.ShippingStatusCode = code
	o.ShippingUpdatedAt = &at
	o.UpdatedAt = at

	// Delivered codes stamp the actual delivery time even on redelivery
	if code == 200 || code == 201 {
		o.ActualDelivery = &at
	}

	if sameCode {
		return false
	}

	if mapped == "" || mapped == o.Status {
		return false
	}
	if o.Status == StatusCompleted && mapped != StatusCompleted {
		// Terminal guard: a settled order never moves backwards
		return false
	}

	from := o.Status
	o.Status = mapped
	historyNote := fmt.Sprintf("[Viettel Post] %s", label)
	if note != "" {
		historyNote += ": " + note
	}
	o.StatusHistory = append(o.StatusHistory, HistoryEntry{
		Status:    mapped,
		Note:      historyNote,
		ChangedBy: nil,
		ChangedAt: at,
	})

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, mapped))

	return true
}

// MarkShippingCancelled stamps the carrier-side cancellation on the shipping
// fields without touching the main order status.
func (o *Order) MarkShippingCancelled(actor *uuid.UUID) {
	now := time.Now()
	o.ShippingStatus = "Đã hủy"
	o.ShippingStatusCode = 502
	o.ShippingUpdatedAt = &now
	o.StatusHistory = append(o.StatusHistory, HistoryEntry{
		Status:    o.Status,
		Note:      "Đã hủy vận chuyển trên Viettel Post",
		ChangedBy: actor,
		ChangedAt: now,
	})
	o.UpdatedAt = now
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all item quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GetItemByProduct returns the line item for a product, or nil
func (o *Order) GetItemByProduct(productID uuid.UUID) *Item {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
