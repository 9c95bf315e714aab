package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// WarehouseRepository persists warehouses
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	FindByTier(ctx context.Context, tier WarehouseTier, filter shared.Filter) ([]Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockRepository persists stock rows
type StockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*Stock, error)
	// FindByWarehouseAndProductWithBatches preloads the batch association
	FindByWarehouseAndProductWithBatches(ctx context.Context, warehouseID, productID uuid.UUID) (*Stock, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]Stock, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Stock, error)
	FindBelowMinimum(ctx context.Context) ([]Stock, error)
	GetOrCreate(ctx context.Context, warehouseID, productID uuid.UUID) (*Stock, error)
	Save(ctx context.Context, stock *Stock) error
	// SaveWithLock saves with optimistic version checking
	SaveWithLock(ctx context.Context, stock *Stock) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}

// StockBatchRepository persists stock batches
type StockBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StockBatch, error)
	FindByStock(ctx context.Context, stockID uuid.UUID) ([]StockBatch, error)
	FindExpiringBefore(ctx context.Context, deadline time.Time) ([]StockBatch, error)
	Save(ctx context.Context, batch *StockBatch) error
	SaveAll(ctx context.Context, batches []*StockBatch) error
}

// InventoryLogRepository persists movement logs (append-only)
type InventoryLogRepository interface {
	Save(ctx context.Context, log *InventoryLog) error
	SaveAll(ctx context.Context, logs []*InventoryLog) error
	FindByStock(ctx context.Context, stockID uuid.UUID, filter shared.Filter) ([]InventoryLog, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryLog, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// InventoryAlertRepository persists threshold alerts
type InventoryAlertRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryAlert, error)
	FindActive(ctx context.Context, filter shared.Filter) ([]InventoryAlert, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryAlert, error)
	// HasActiveAlert reports whether an ACTIVE alert already exists for the
	// stock/type (and batch, for expiry alerts); used to keep sweeps idempotent
	HasActiveAlert(ctx context.Context, stockID uuid.UUID, alertType AlertType, batchNumber string) (bool, error)
	Save(ctx context.Context, alert *InventoryAlert) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
