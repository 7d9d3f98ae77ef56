package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/qlbh/backend/internal/domain/catalog"
	"github.com/qlbh/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, shopID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDsForShop(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, shopID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, shopID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	args := m.Called(ctx, shopID, id)
	return args.Error(0)
}

func (m *MockProductRepository) ReserveStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, shopID, productID, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) ReleaseStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	args := m.Called(ctx, shopID, productID, quantity)
	return args.Error(0)
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("creates an active product with initial stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := service.Create(ctx, shopID, CreateProductRequest{
			Name:     "Áo thun",
			SKU:      "AT-001",
			Price:    decimal.NewFromInt(150000),
			Quantity: 50,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Áo thun", resp.Name)
		assert.Equal(t, "AT-001", resp.SKU)
		assert.Equal(t, int64(50), resp.Quantity)
		assert.Equal(t, "active", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("negative price is rejected", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		resp, err := service.Create(ctx, shopID, CreateProductRequest{
			Name:  "Áo thun",
			Price: decimal.NewFromInt(-1),
		})

		assert.Nil(t, resp)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	t.Run("edits price and quantity", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		p, err := catalog.NewProduct(shopID, "Áo thun", decimal.NewFromInt(150000))
		assert.NoError(t, err)

		repo.On("FindByIDForShop", ctx, shopID, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)

		newPrice := decimal.NewFromInt(180000)
		qty := int64(30)
		resp, err := service.Update(ctx, shopID, p.ID, UpdateProductRequest{
			Name:     "Áo thun cotton",
			Price:    &newPrice,
			Quantity: &qty,
		})

		assert.NoError(t, err)
		assert.Equal(t, "Áo thun cotton", resp.Name)
		assert.True(t, newPrice.Equal(resp.Price))
		assert.Equal(t, int64(30), resp.Quantity)
		repo.AssertExpectations(t)
	})

	t.Run("missing product surfaces not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		service := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByIDForShop", ctx, shopID, id).Return(nil, shared.ErrNotFound)

		resp, err := service.Update(ctx, shopID, id, UpdateProductRequest{Name: "Áo thun"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	p1, err := catalog.NewProduct(shopID, "Áo thun", decimal.NewFromInt(150000))
	assert.NoError(t, err)
	p2, err := catalog.NewProduct(shopID, "Quần jean", decimal.NewFromInt(320000))
	assert.NoError(t, err)

	repo.On("FindAllForShop", ctx, shopID, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Product{*p1, *p2}, nil)
	repo.On("CountForShop", ctx, shopID, mock.AnythingOfType("shared.Filter")).
		Return(int64(2), nil)

	page, err := service.List(ctx, shopID, ProductListFilter{Status: "active"})

	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 2)
	repo.AssertExpectations(t)
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	shopID := uuid.New()

	repo := new(MockProductRepository)
	service := NewProductService(repo)

	p, err := catalog.NewProduct(shopID, "Áo thun", decimal.NewFromInt(150000))
	assert.NoError(t, err)

	repo.On("FindByIDForShop", ctx, shopID, p.ID).Return(p, nil)
	repo.On("Delete", ctx, shopID, p.ID).Return(nil)

	assert.NoError(t, service.Delete(ctx, shopID, p.ID))
	repo.AssertExpectations(t)
}
