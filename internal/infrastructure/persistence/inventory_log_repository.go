package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInventoryLogRepository implements InventoryLogRepository using GORM.
// Movement logs are append-only; there is no update or delete path.
type GormInventoryLogRepository struct {
	db *gorm.DB
}

// NewGormInventoryLogRepository creates a new GormInventoryLogRepository
func NewGormInventoryLogRepository(db *gorm.DB) *GormInventoryLogRepository {
	return &GormInventoryLogRepository{db: db}
}

// Save appends a movement log entry
func (r *GormInventoryLogRepository) Save(ctx context.Context, log *inventory.InventoryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// SaveAll appends multiple movement log entries
func (r *GormInventoryLogRepository) SaveAll(ctx context.Context, logs []*inventory.InventoryLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(logs).Error
}

// FindByStock finds log entries for a stock row
func (r *GormInventoryLogRepository) FindByStock(ctx context.Context, stockID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLog, error) {
	var logs []inventory.InventoryLog
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.InventoryLog{}).Where("stock_id = ?", stockID),
		filter,
	)

	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// FindAll finds log entries matching the filter
func (r *GormInventoryLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLog, error) {
	var logs []inventory.InventoryLog
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryLog{}), filter)

	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Count counts log entries matching the filter
func (r *GormInventoryLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.InventoryLog{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInventoryLogRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InventoryLogSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormInventoryLogRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "kind":
			query = query.Where("kind = ?", value)
		case "reference":
			query = query.Where("reference = ?", value)
		case "batch_number":
			query = query.Where("batch_number = ?", value)
		}
	}

	return query
}

// Ensure GormInventoryLogRepository implements InventoryLogRepository
var _ inventory.InventoryLogRepository = (*GormInventoryLogRepository)(nil)
