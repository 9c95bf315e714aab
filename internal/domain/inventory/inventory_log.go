package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// MovementKind represents the kind of stock movement recorded in the log
type MovementKind string

const (
	MovementIn          MovementKind = "IN"
	MovementOut         MovementKind = "OUT"
	MovementTransferIn  MovementKind = "TRANSFER_IN"
	MovementTransferOut MovementKind = "TRANSFER_OUT"
	MovementDamage      MovementKind = "DAMAGE"
	MovementReserve     MovementKind = "RESERVE"
	MovementRelease     MovementKind = "RELEASE"
)

// IsValid returns true if the movement kind is known
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementIn, MovementOut, MovementTransferIn, MovementTransferOut,
		MovementDamage, MovementReserve, MovementRelease:
		return true
	}
	return false
}

// String returns the string representation
func (k MovementKind) String() string {
	return string(k)
}

// InventoryLog is the immutable audit record for a single stock movement.
// Every stock mutation writes exactly one log row per affected warehouse.
type InventoryLog struct {
	shared.BaseEntity
	StockID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind           MovementKind    `gorm:"size:16;not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityBefore decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BatchNumber    string          `gorm:"size:64"`
	Reference      string          `gorm:"size:128"` // order number, transfer id, etc.
	Reason         string          `gorm:"size:255"`
	OperatorID     *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// NewInventoryLog creates a movement log entry for a stock mutation
func NewInventoryLog(stock *Stock, kind MovementKind, quantity, before, after decimal.Decimal) *InventoryLog {
	return &InventoryLog{
		BaseEntity:     shared.NewBaseEntity(),
		StockID:        stock.ID,
		WarehouseID:    stock.WarehouseID,
		ProductID:      stock.ProductID,
		Kind:           kind,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
	}
}

// WithReference sets the external reference (order number, transfer id)
func (l *InventoryLog) WithReference(ref string) *InventoryLog {
	l.Reference = ref
	return l
}

// WithReason sets the free-form reason text
func (l *InventoryLog) WithReason(reason string) *InventoryLog {
	l.Reason = reason
	return l
}

// WithBatchNumber sets the batch the movement touched
func (l *InventoryLog) WithBatchNumber(batchNumber string) *InventoryLog {
	l.BatchNumber = batchNumber
	return l
}

// WithOperator sets the acting back-office user
func (l *InventoryLog) WithOperator(operatorID uuid.UUID) *InventoryLog {
	l.OperatorID = &operatorID
	return l
}
