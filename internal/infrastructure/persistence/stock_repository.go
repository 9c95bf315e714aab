package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByID finds a stock row by its ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	if err := r.db.WithContext(ctx).First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByWarehouseAndProduct finds the stock row for a warehouse-product pair
func (r *GormStockRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByWarehouseAndProductWithBatches preloads batches that still hold stock,
// oldest expiry first, so FIFO picking can run on the loaded aggregate.
func (r *GormStockRepository) FindByWarehouseAndProductWithBatches(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	var stock inventory.Stock
	if err := r.db.WithContext(ctx).
		Preload("Batches", func(db *gorm.DB) *gorm.DB {
			return db.Where("status <> ?", inventory.BatchStatusConsumed).
				Order("expiry_date ASC NULLS LAST, created_at ASC")
		}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// FindByWarehouse finds all stock rows in a warehouse
func (r *GormStockRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.Stock, error) {
	var stocks []inventory.Stock
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Stock{}).Where("warehouse_id = ?", warehouseID),
		filter,
	)

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindAll finds all stock rows matching the filter
func (r *GormStockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Stock, error) {
	var stocks []inventory.Stock
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.Stock{}), filter)

	if err := query.Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// FindBelowMinimum finds stock rows under their low stock threshold
func (r *GormStockRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Stock, error) {
	var stocks []inventory.Stock
	if err := r.db.WithContext(ctx).
		Where("min_quantity > 0 AND quantity < min_quantity").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// GetOrCreate returns the stock row for the pair, creating an empty one if absent
func (r *GormStockRepository) GetOrCreate(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	stock, err := r.FindByWarehouseAndProduct(ctx, warehouseID, productID)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := inventory.NewStock(warehouseID, productID)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// Save creates or updates a stock row
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	return r.db.WithContext(ctx).Omit("Batches").Save(stock).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockRepository) SaveWithLock(ctx context.Context, stock *inventory.Stock) error {
	result := r.db.WithContext(ctx).
		Model(stock).
		Where("id = ? AND version = ?", stock.ID, stock.Version-1).
		Updates(map[string]interface{}{
			"quantity":          stock.Quantity,
			"reserved_quantity": stock.ReservedQuantity,
			"unit_cost":         stock.UnitCost,
			"min_quantity":      stock.MinQuantity,
			"max_quantity":      stock.MaxQuantity,
			"version":           stock.Version,
			"updated_at":        stock.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError("OPTIMISTIC_LOCK_FAILED", "Stock row was modified by another transaction")
	}
	return nil
}

// Count counts stock rows matching the filter
func (r *GormStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.Stock{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByProduct sums on-hand quantity for a product across warehouses
func (r *GormStockRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.Stock{}).
		Select("SUM(quantity)").
		Where("product_id = ?", productID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *GormStockRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, StockSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

func (r *GormStockRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "below_minimum":
			if value == true {
				query = query.Where("min_quantity > 0 AND quantity < min_quantity")
			}
		}
	}

	return query
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)
