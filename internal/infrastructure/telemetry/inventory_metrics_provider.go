package telemetry

import (
	"context"

	"github.com/shopx/backoffice/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryMetricsProvider reads gauge values straight from the stocks
// and inventory_alerts tables
type GormInventoryMetricsProvider struct {
	db *gorm.DB
}

// NewGormInventoryMetricsProvider creates a provider over the given database
func NewGormInventoryMetricsProvider(db *gorm.DB) *GormInventoryMetricsProvider {
	return &GormInventoryMetricsProvider{db: db}
}

// LowStockCount returns the number of stocks below their minimum threshold
func (p *GormInventoryMetricsProvider) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&inventory.Stock{}).
		Where("min_quantity > 0 AND quantity < min_quantity").
		Count(&count).Error
	return count, err
}

// ActiveAlertCount returns the number of unresolved inventory alerts
func (p *GormInventoryMetricsProvider) ActiveAlertCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&inventory.InventoryAlert{}).
		Where("status = ?", inventory.AlertStatusActive).
		Count(&count).Error
	return count, err
}

// Ensure GormInventoryMetricsProvider implements InventoryMetricsProvider
var _ InventoryMetricsProvider = (*GormInventoryMetricsProvider)(nil)
