package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qlbh/backend/internal/domain/order"
	"github.com/qlbh/backend/internal/domain/shared"
	"github.com/qlbh/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForShop finds an order by ID within a shop
func (r *GormOrderRepository) FindByIDForShop(ctx context.Context, shopID, id uuid.UUID) (*order.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Where("shop_id = ? AND id = ?", shopID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByTrackingCode finds an order by its carrier tracking code. Webhook
// deliveries carry no shop context, so the lookup is cross-shop.
func (r *GormOrderRepository) FindByTrackingCode(ctx context.Context, trackingCode string) (*order.Order, error) {
	if trackingCode == "" {
		return nil, shared.ErrNotFound
	}
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("changed_at ASC")
		}).
		Where("tracking_code = ?", trackingCode).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForShop finds orders for a shop with filtering and pagination
func (r *GormOrderRepository) FindAllForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var orderModels []models.OrderModel
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("shop_id = ?", shopID),
		filter,
	)

	if err := query.Preload("Items").Find(&orderModels).Error; err != nil {
		return nil, err
	}

	orders := make([]order.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// CountForShop counts orders for a shop matching the filter
func (r *GormOrderRepository) CountForShop(ctx context.Context, shopID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("shop_id = ?", shopID),
		filter,
	)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatusForShop aggregates order counts and revenue per status
func (r *GormOrderRepository) CountByStatusForShop(ctx context.Context, shopID uuid.UUID) ([]order.StatusCount, error) {
	var rows []struct {
		Status string
		Count  int64
		Total  string
	}
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Where("shop_id = ?", shopID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make([]order.StatusCount, len(rows))
	for i, row := range rows {
		counts[i] = order.StatusCount{
			Status: order.Status(row.Status),
			Count:  row.Count,
			Total:  row.Total,
		}
	}
	return counts, nil
}

// Save persists the order together with its items and status history. Items
// are reconciled against the stored set; history is append-only so only new
// rows past the stored count are inserted.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := &models.OrderModel{}
	model.FromDomain(o)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		history := model.History
		model.Items = nil
		model.History = nil

		if err := tx.Save(model).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(items))
		for i, item := range items {
			currentItemIDs[i] = item.ID
		}
		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", model.ID, currentItemIDs).
				Delete(&models.OrderItemModel{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", model.ID).
				Delete(&models.OrderItemModel{}).Error; err != nil {
				return err
			}
		}
		for i := range items {
			if err := tx.Save(&items[i]).Error; err != nil {
				return err
			}
		}

		var stored int64
		if err := tx.Model(&models.OrderHistoryModel{}).
			Where("order_id = ?", model.ID).
			Count(&stored).Error; err != nil {
			return err
		}
		if int(stored) < len(history) {
			newRows := history[stored:]
			if err := tx.Create(&newRows).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SyncCustomerSnapshot pushes edited customer contact fields onto every order
// of that customer still editable: pre-dispatch status and no tracking code.
func (r *GormOrderRepository) SyncCustomerSnapshot(ctx context.Context, shopID, customerID uuid.UUID, name, phone, email string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID).
		Where("status IN ?", []string{"pending", "processing", "ready_to_ship"}).
		Where("tracking_code = ''").
		Updates(map[string]interface{}{
			"customer_name":  name,
			"customer_phone": phone,
			"customer_email": email,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"order_code ILIKE ? OR customer_name ILIKE ? OR customer_phone ILIKE ? OR tracking_code ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern,
		)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "payment_method":
			query = query.Where("payment_method = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "source":
			query = query.Where("customer_source = ?", value)
		case "has_shipment":
			if value == true {
				query = query.Where("tracking_code <> ''")
			} else {
				query = query.Where("tracking_code = ''")
			}
		case "created_from":
			query = query.Where("created_at >= ?", value)
		case "created_to":
			query = query.Where("created_at <= ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
