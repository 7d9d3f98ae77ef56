package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qlbh/backend/internal/domain/catalog"
	"github.com/qlbh/backend/internal/domain/shared"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	SKU         string          `json:"sku" binding:"max=50"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Quantity    int64           `json:"quantity" binding:"min=0"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Price       *decimal.Decimal `json:"price"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	Quantity    *int64           `json:"quantity" binding:"omitempty,min=0"`
	ImageURL    *string          `json:"image_url"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	Quantity    int64           `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a domain product to the response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       p.Price,
		CostPrice:   p.CostPrice,
		Quantity:    p.Quantity,
		ImageURL:    p.ImageURL,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductService handles catalog management
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, shopID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	p, err := catalog.NewProduct(shopID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	p.SKU = req.SKU
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	if err := p.SetCostPrice(req.CostPrice); err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		if err := p.SetQuantity(req.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	resp := ToProductResponse(p)
	return &resp, nil
}

// GetByID returns a single product
func (s *ProductService) GetByID(ctx context.Context, shopID, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.productRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, shopID uuid.UUID, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
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

	products, err := s.productRepo.FindAllForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForShop(ctx, shopID, f)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}

	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update edits a product
func (s *ProductService) Update(ctx context.Context, shopID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.productRepo.FindByIDForShop(ctx, shopID, id)
	if err != nil {
		return nil, err
	}

	if err := p.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.Price != nil {
		if err := p.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.CostPrice != nil {
		if err := p.SetCostPrice(*req.CostPrice); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		if err := p.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}

	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, p)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForShop(ctx, shopID, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, shopID, id)
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	_ = s.eventPublisher.Publish(ctx, p.GetDomainEvents()...)
	p.ClearDomainEvents()
}
