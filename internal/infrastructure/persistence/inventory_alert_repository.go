package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryAlertRepository implements InventoryAlertRepository using GORM
type GormInventoryAlertRepository struct {
	db *gorm.DB
}

// NewGormInventoryAlertRepository creates a new GormInventoryAlertRepository
func NewGormInventoryAlertRepository(db *gorm.DB) *GormInventoryAlertRepository {
	return &GormInventoryAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormInventoryAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryAlert, error) {
	var alert inventory.InventoryAlert
	if err := r.db.WithContext(ctx).First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &alert, nil
}

// FindActive finds alerts awaiting handling
func (r *GormInventoryAlertRepository) FindActive(ctx context.Context, filter shared.Filter) ([]inventory.InventoryAlert, error) {
	var alerts []inventory.InventoryAlert
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryAlert{}).
			Where("status = ?", inventory.AlertStatusActive),
		filter,
	)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindAll finds alerts matching the filter
func (r *GormInventoryAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryAlert, error) {
	var alerts []inventory.InventoryAlert
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryAlert{}), filter)

	if err := query.Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// HasActiveAlert reports whether an ACTIVE alert already exists for the
// stock/type/batch combination. Sweeps use this to stay idempotent.
func (r *GormInventoryAlertRepository) HasActiveAlert(ctx context.Context, stockID uuid.UUID, alertType inventory.AlertType, batchNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryAlert{}).
		Where("stock_id = ? AND type = ? AND batch_number = ? AND status = ?",
			stockID, alertType, batchNumber, inventory.AlertStatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an alert
func (r *GormInventoryAlertRepository) Save(ctx context.Context, alert *inventory.InventoryAlert) error {
	return r.db.WithContext(ctx).Save(alert).Error
}

// Count counts alerts matching the filter
func (r *GormInventoryAlertRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryAlert{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInventoryAlertRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryAlertSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormInventoryAlertRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		}
	}

	return query
}

// Ensure GormInventoryAlertRepository implements InventoryAlertRepository
var _ inventory.InventoryAlertRepository = (*GormInventoryAlertRepository)(nil)
