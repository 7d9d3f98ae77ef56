package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qlbh/backend/internal/domain/catalog"
	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
)

// OrderService orchestrates the order lifecycle: creation with stock
// reservation, operator transitions, edits and cancellation.
type OrderService struct {
	orderRepo      order.Repository
	productRepo    catalog.ProductRepository
	customerRepo   partner.CustomerRepository
	tierRepo       partner.TierSettingsRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	customerRepo partner.CustomerRepository,
	tierRepo partner.TierSettingsRepository,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		tierRepo:     tierRepo,
		logger:       zap.NewNop(),
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLogger replaces the no-op default logger
func (s *OrderService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create creates a new order. All items are validated against the catalog
// before any stock moves, then stock is reserved per line with an atomic
// conditional decrement; a failed line rolls back the lines already taken.
func (s *OrderService) Create(ctx context.Context, shopID, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrEmptyOrder
	}

	products, err := s.loadProducts(ctx, shopID, req.Items)
	if err != nil {
		return nil, err
	}

	// Pre-flight: every line must be satisfiable before anything mutates
	for _, in := range req.Items {
		p := products[in.ProductID]
		if !p.HasStock(in.Quantity) {
			return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Sản phẩm %q không đủ hàng (còn %d)", p.Name, p.Quantity))
		}
	}

	snapshot, customer, err := s.resolveCustomer(ctx, shopID, req)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(shopID, userID, "", snapshot, order.PaymentMethod(req.PaymentMethod), toDomainAddress(req.Address), req.Note)
	if err != nil {
		return nil, err
	}

	for _, in := range req.Items {
		p := products[in.ProductID]
		price := p.Price
		if in.Price != nil {
			price = *in.Price
		}
		if _, err := o.AddItem(p.ID, p.Name, price, in.Quantity); err != nil {
			return nil, err
		}
	}

	if req.Discount != nil {
		if err := o.SetDiscount(*req.Discount); err != nil {
			return nil, err
		}
	}
	if req.ShippingFee != nil {
		if err := o.SetShippingFee(*req.ShippingFee); err != nil {
			return nil, err
		}
	}

	if err := s.reserveItems(ctx, shopID, o.Items); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.releaseItems(ctx, shopID, o.Items)
		return nil, err
	}

	// The order is committed; the counter bump must not fail it
	if customer != nil {
		customer.RecordNewOrder()
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			s.logger.Error("order counter update failed",
				zap.String("order_code", o.OrderCode),
				zap.String("customer_id", customer.ID.String()),
				zap.Error(err))
		}
	}

	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByID returns a single order
func (s *OrderService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// List returns a page of orders
func (s *OrderService) List(ctx context.Context, shopID uuid.UUID, filter OrderListFilter) (*shared.Paginated[OrderListItemResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		f.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.StartDate != nil {
		f.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		f.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAllForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.CountForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}

	items := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderListItemResponse(&orders[i])
	}

	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Transition moves an order to a new status on behalf of an operator.
// Moving into completed feeds the customer's lifetime figures and may
// promote their tier; moving into cancelled or returned restocks the items.
func (s *OrderService) Transition(ctx context.Context, shopID, userID, id uuid.UUID, req TransitionOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	target := order.Status(req.Status)
	from := o.Status
	if err := o.TransitionTo(target, req.Note, &userID); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	// The status write is committed; inventory and customer side effects
	// are best-effort and only logged on failure.
	s.applyTransitionEffects(ctx, o, from, target)

	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Cancel cancels an order and returns its stock to the shelf
func (s *OrderService) Cancel(ctx context.Context, shopID, userID, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	alreadyReturned := o.Status == order.StatusReturned
	if err := o.Cancel(req.Reason, &userID); err != nil {
		return nil, err
	}

	// Returned orders were restocked when the carrier reported the return
	if !alreadyReturned {
		s.releaseItems(ctx, shopID, o.Items)
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, o)

	resp := ToOrderResponse(o)
	return &resp, nil
}

// Update edits an order. Terminal orders reject edits entirely. Once a
// tracking code exists the items, address and discount fields are silently
// ignored since the carrier already holds that data.
func (s *OrderService) Update(ctx context.Context, shopID, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	if o.Status.IsTerminal() {
		return nil, shared.ErrInvalidState
	}

	if !o.IsLocked() {
		if req.Items != nil {
			if err := s.replaceItems(ctx, shopID, o, req.Items); err != nil {
				return nil, err
			}
		}
		if req.Address != nil {
			if err := o.SetAddress(toDomainAddress(*req.Address)); err != nil {
				return nil, err
			}
		}
		if req.Discount != nil {
			if err := o.SetDiscount(*req.Discount); err != nil {
				return nil, err
			}
		}
	}

	name, phone, email := "", "", ""
	if req.CustomerName != nil {
		name = *req.CustomerName
	}
	if req.CustomerPhone != nil {
		phone = *req.CustomerPhone
	}
	if req.CustomerEmail != nil {
		email = *req.CustomerEmail
	}
	if name != "" || phone != "" || email != "" {
		o.UpdateContact(name, phone, email)
	}
	if req.Note != nil {
		o.SetNote(*req.Note)
	}
	if req.ShippingFee != nil {
		if err := o.SetShippingFee(*req.ShippingFee); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(o)
	return &resp, nil
}

// StatusSummary aggregates counts and revenue per status for the dashboard
func (s *OrderService) StatusSummary(ctx context.Context, shopID uuid.UUID) (*StatusSummaryResponse, error) {
	rows, err := s.orderRepo.CountByStatusForShop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	summary := &StatusSummaryResponse{
		Counts: make(map[string]int64),
		Totals: make(map[string]string),
	}
	for _, row := range rows {
		summary.Counts[row.Status.String()] = row.Count
		summary.Totals[row.Status.String()] = row.Total
		summary.Total += row.Count
	}
	return summary, nil
}

// ApplyCarrierEffects runs the side effects of a status change the
// carrier, not an operator, pushed onto an order. Webhook deliveries and
// tracking polls reconcile through here so push and pull agree.
func (s *OrderService) ApplyCarrierEffects(ctx context.Context, o *order.Order, from order.Status) {
	s.applyTransitionEffects(ctx, o, from, o.Status)
}

// applyTransitionEffects is best-effort: the order's status change has
// already been persisted, so failures here are logged, never surfaced.
func (s *OrderService) applyTransitionEffects(ctx context.Context, o *order.Order, from, target order.Status) {
	switch target {
	case order.StatusCompleted:
		if from != order.StatusCompleted {
			if err := s.recordCompletion(ctx, o); err != nil {
				s.logger.Error("completion side effects failed",
					zap.String("order_code", o.OrderCode),
					zap.Error(err))
			}
		}
	case order.StatusReturned:
		s.releaseItems(ctx, o.ShopID, o.Items)
	case order.StatusCancelled:
		s.releaseItems(ctx, o.ShopID, o.Items)
	}
}

// recordCompletion feeds the order total into the customer's lifetime
// figures and recomputes the tier. Walk-in orders without a saved customer
// have nothing to record.
func (s *OrderService) recordCompletion(ctx context.Context, o *order.Order) error {
	if o.CustomerID == nil {
		return nil
	}
	c, err := s.customerRepo.FindByIDForShop(ctx, o.ShopID, *o.CustomerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	c.RecordCompletedOrder(o.Total)

	settings, err := s.tierRepo.FindForShop(ctx, o.ShopID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		settings = partner.NewTierSettings(o.ShopID)
	}
	c.ApplyTier(settings.ComputeTier(c.TotalSpent, c.OrderCount))

	return s.customerRepo.Save(ctx, c)
}

// replaceItems swaps the order's item list and reconciles stock by the
// per-product quantity delta, reserving increases and releasing decreases.
func (s *OrderService) replaceItems(ctx context.Context, shopID uuid.UUID, o *order.Order, inputs []CreateOrderItemInput) error {
	products, err := s.loadProducts(ctx, shopID, inputs)
	if err != nil {
		return err
	}

	oldQty := make(map[uuid.UUID]int64, len(o.Items))
	for _, item := range o.Items {
		oldQty[item.ProductID] += item.Quantity
	}

	items := make([]order.Item, 0, len(inputs))
	newQty := make(map[uuid.UUID]int64, len(inputs))
	for _, in := range inputs {
		p := products[in.ProductID]
		price := p.Price
		if in.Price != nil {
			price = *in.Price
		}
		item, err := order.NewItem(o.ID, p.ID, p.Name, price, in.Quantity)
		if err != nil {
			return err
		}
		items = append(items, *item)
		newQty[in.ProductID] += in.Quantity
	}

	// Reserve increases first so nothing is released on failure
	type delta struct {
		productID uuid.UUID
		qty       int64
	}
	var reserved []delta
	for pid, qty := range newQty {
		if diff := qty - oldQty[pid]; diff > 0 {
			if err := s.productRepo.ReserveStock(ctx, shopID, pid, diff); err != nil {
				for _, r := range reserved {
					_ = s.productRepo.ReleaseStock(ctx, shopID, r.productID, r.qty)
				}
				return err
			}
			reserved = append(reserved, delta{pid, diff})
		}
	}
	for pid, qty := range oldQty {
		if diff := newQty[pid] - qty; diff < 0 {
			_ = s.productRepo.ReleaseStock(ctx, shopID, pid, -diff)
		}
	}

	return o.ReplaceItems(items)
}

func (s *OrderService) loadProducts(ctx context.Context, shopID uuid.UUID, inputs []CreateOrderItemInput) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.ProductID] {
			seen[in.ProductID] = true
			ids = append(ids, in.ProductID)
		}
	}

	products, err := s.productRepo.FindByIDsForShop(ctx, shopID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok || !p.IsActive() {
			return nil, shared.ErrProductNotFound
		}
	}
	return byID, nil
}

func (s *OrderService) reserveItems(ctx context.Context, shopID uuid.UUID, items []order.Item) error {
	for i, item := range items {
		if err := s.productRepo.ReserveStock(ctx, shopID, item.ProductID, item.Quantity); err != nil {
			s.releaseItems(ctx, shopID, items[:i])
			return err
		}
	}
	return nil
}

func (s *OrderService) releaseItems(ctx context.Context, shopID uuid.UUID, items []order.Item) {
	for _, item := range items {
		_ = s.productRepo.ReleaseStock(ctx, shopID, item.ProductID, item.Quantity)
	}
}

// resolveCustomer links the order to a saved customer. An explicit customer
// id wins; otherwise, when asked to, the phone number is used to find or
// create one. Without either the order stays a walk-in sale. The resolved
// customer is returned so Create can bump its order counter after the save.
func (s *OrderService) resolveCustomer(ctx context.Context, shopID uuid.UUID, req CreateOrderRequest) (order.CustomerSnapshot, *partner.Customer, error) {
	snapshot := order.CustomerSnapshot{
		Name:   req.CustomerName,
		Phone:  req.CustomerPhone,
		Email:  req.CustomerEmail,
		Source: order.CustomerSource(req.Source),
	}

	if req.CustomerID != nil {
		c, err := s.customerRepo.FindByIDForShop(ctx, shopID, *req.CustomerID)
		if err != nil {
			return snapshot, nil, err
		}
		snapshot.CustomerID = &c.ID
		if snapshot.Name == "" {
			snapshot.Name = c.Name
		}
		if snapshot.Phone == "" {
			snapshot.Phone = c.Phone
		}
		if snapshot.Email == "" {
			snapshot.Email = c.Email
		}
		return snapshot, c, nil
	}

	if !req.SaveCustomer || req.CustomerPhone == "" {
		return snapshot, nil, nil
	}

	c, err := s.customerRepo.FindByPhoneForShop(ctx, shopID, req.CustomerPhone)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return snapshot, nil, err
		}
		c, err = partner.NewCustomer(shopID, req.CustomerName, req.CustomerPhone)
		if err != nil {
			return snapshot, nil, err
		}
		if req.CustomerEmail != "" || req.CustomerName != "" {
			_ = c.Update(req.CustomerName, req.CustomerPhone, req.CustomerEmail, "")
		}
		if req.Source != "" {
			_ = c.SetSource(req.Source)
		}
		if err := s.customerRepo.Save(ctx, c); err != nil {
			return snapshot, nil, err
		}
	}
	snapshot.CustomerID = &c.ID
	return snapshot, c, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, o.GetDomainEvents()...)
	o.ClearDomainEvents()
}

func toDomainAddress(in AddressInput) order.Address {
	return order.Address{
		Line:         in.Line,
		ProvinceID:   in.ProvinceID,
		ProvinceName: in.ProvinceName,
		DistrictID:   in.DistrictID,
		DistrictName: in.DistrictName,
		WardID:       in.WardID,
		WardName:     in.WardName,
	}
}
