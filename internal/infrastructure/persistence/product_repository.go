package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlbh/backend/internal/domain/catalog"
	"github.com/qlbh/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForShop finds a product by ID within a shop
func (r *GormProductRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDsForShop loads several products at once, for order item validation
func (r *GormProductRepository) FindByIDsForShop(ctx context.Context, shopID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id IN ?", shopID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindAllForShop finds products for a shop with filtering and pagination
func (r *GormProductRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForShop counts products for a shop matching the filter
func (r *GormProductRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, shopID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, id).
		Delete(&catalog.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReserveStock atomically decrements on-hand stock with a conditional update.
// The quantity guard in the WHERE clause makes concurrent reservations safe
// without a row lock: whichever update runs second sees the decremented value.
func (r *GormProductRepository) ReserveStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("shop_id = ? AND id = ? AND quantity >= ?", shopID, productID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&catalog.Product{}).
			Where("shop_id = ? AND id = ?", shopID, productID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrProductNotFound
		}
		return shared.ErrInsufficientStock
	}
	return nil
}

// ReleaseStock returns previously reserved stock
func (r *GormProductRepository) ReleaseStock(ctx context.Context, shopID, productID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("shop_id = ? AND id = ?", shopID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrProductNotFound
	}
	return nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("quantity > 0")
			} else {
				query = query.Where("quantity <= 0")
			}
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
