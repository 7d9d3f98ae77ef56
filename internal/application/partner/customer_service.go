package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/partner"
	"github.com/qlbh/backend/internal/domain/shared"
)

// CustomerService handles customer management. Edits fan out to the
// contact snapshots of orders the carrier has not picked up yet.
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	tierRepo       partner.TierSettingsRepository
	orderRepo      order.Repository
	eventPublisher shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo partner.CustomerRepository,
	tierRepo partner.TierSettingsRepository,
	orderRepo order.Repository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		tierRepo:     tierRepo,
		orderRepo:    orderRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new customer. A duplicate phone within the shop is rejected.
func (s *CustomerService) Create(ctx context.Context, shopID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	if req.Phone != "" {
		if _, err := s.customerRepo.FindByPhoneForShop(ctx, shopID, req.Phone); err == nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Số điện thoại đã tồn tại")
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	c, err := partner.NewCustomer(shopID, req.Name, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Email != "" || req.Address != "" {
		if err := c.Update(req.Name, req.Phone, req.Email, req.Address); err != nil {
			return nil, err
		}
	}
	if req.Source != "" {
		if err := c.SetSource(req.Source); err != nil {
			return nil, err
		}
	}
	c.Notes = req.Notes

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	resp := s.toResponse(ctx, c)
	return &resp, nil
}

// GetByID returns a single customer
func (s *CustomerService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(ctx, c)
	return &resp, nil
}

// List returns a page of customers
func (s *CustomerService) List(ctx context.Context, shopID uuid.UUID, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
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
	if filter.Tier != "" {
		f.Filters["tier"] = filter.Tier
	}
	if filter.Source != "" {
		f.Filters["source"] = filter.Source
	}

	customers, err := s.customerRepo.FindAllForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.CountForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}

	names := s.tierNames(ctx, shopID)
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i], names[customers[i].Tier])
	}

	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update edits a customer and pushes the new contact fields onto every
// order of theirs still waiting for dispatch.
func (s *CustomerService) Update(ctx context.Context, shopID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if err := c.Update(req.Name, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if req.Source != "" {
		if err := c.SetSource(req.Source); err != nil {
			return nil, err
		}
	}
	c.Notes = req.Notes

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	synced, err := s.orderRepo.SyncCustomerSnapshot(ctx, shopID, c.ID, c.Name, c.Phone, c.Email)
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, c)

	resp := s.toResponse(ctx, c)
	resp.SyncedOrders = synced
	return &resp, nil
}

// Delete removes a customer. Their past orders keep the snapshot.
func (s *CustomerService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForShop(ctx, shopID, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, shopID, id)
}

func (s *CustomerService) toResponse(ctx context.Context, c *partner.Customer) CustomerResponse {
	return ToCustomerResponse(c, s.tierNames(ctx, c.ShopID)[c.Tier])
}

func (s *CustomerService) tierNames(ctx context.Context, shopID uuid.UUID) map[string]string {
	settings, err := s.tierRepo.FindForShop(ctx, shopID)
	if err != nil {
		settings = partner.NewTierSettings(shopID)
	}
	names := make(map[string]string, len(settings.Thresholds))
	for _, t := range settings.Thresholds {
		names[t.Code] = t.Name
	}
	return names
}

func (s *CustomerService) publishEvents(ctx context.Context, c *partner.Customer) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, c.GetDomainEvents()...)
	c.ClearDomainEvents()
}
