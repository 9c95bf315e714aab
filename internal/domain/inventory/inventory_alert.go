package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// AlertType classifies inventory alerts
type AlertType string

const (
	AlertLowStock AlertType = "LOW_STOCK"
	AlertExpiring AlertType = "EXPIRING"
	AlertExpired  AlertType = "EXPIRED"
)

// AlertStatus is the handling state of an alert
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "ACTIVE"
	AlertStatusResolved AlertStatus = "RESOLVED"
	AlertStatusIgnored  AlertStatus = "IGNORED"
)

// InventoryAlert is raised when a stock row or batch crosses a threshold rule.
// At most one ACTIVE alert exists per stock+type (and batch for expiry alerts).
type InventoryAlert struct {
	shared.BaseEntity
	StockID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_alert_stock_type_batch,priority:1"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type        AlertType       `gorm:"size:16;not null;uniqueIndex:idx_alert_stock_type_batch,priority:2"`
	BatchNumber string          `gorm:"size:64;uniqueIndex:idx_alert_stock_type_batch,priority:3"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // quantity observed when raised
	Threshold   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // threshold that was crossed
	Status      AlertStatus     `gorm:"size:16;not null;default:ACTIVE;index"`
	ResolvedBy  *uuid.UUID      `gorm:"type:uuid"`
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (InventoryAlert) TableName() string {
	return "inventory_alerts"
}

// NewInventoryAlert creates an active alert for a stock row
func NewInventoryAlert(stock *Stock, alertType AlertType, quantity, threshold decimal.Decimal) *InventoryAlert {
	return &InventoryAlert{
		BaseEntity:  shared.NewBaseEntity(),
		StockID:     stock.ID,
		WarehouseID: stock.WarehouseID,
		ProductID:   stock.ProductID,
		Type:        alertType,
		Quantity:    quantity,
		Threshold:   threshold,
		Status:      AlertStatusActive,
	}
}

// ForBatch tags the alert with the offending batch (expiry alerts)
func (a *InventoryAlert) ForBatch(batchNumber string) *InventoryAlert {
	a.BatchNumber = batchNumber
	return a
}

// Resolve marks the alert handled by the given user
func (a *InventoryAlert) Resolve(userID uuid.UUID) error {
	if a.Status != AlertStatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = AlertStatusResolved
	a.ResolvedBy = &userID
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}

// Ignore dismisses the alert without action
func (a *InventoryAlert) Ignore(userID uuid.UUID) error {
	if a.Status != AlertStatusActive {
		return shared.ErrInvalidState
	}
	now := time.Now()
	a.Status = AlertStatusIgnored
	a.ResolvedBy = &userID
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}

// IsActive returns true while the alert awaits handling
func (a *InventoryAlert) IsActive() bool {
	return a.Status == AlertStatusActive
}
