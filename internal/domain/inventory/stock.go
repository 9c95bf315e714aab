package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// Stock represents the stock of one product in one warehouse.
// It is the aggregate root for stock operations; the composite business
// identifier is WarehouseID + ProductID.
type Stock struct {
	shared.AuditedAggregateRoot
	WarehouseID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_warehouse_product,priority:1"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_warehouse_product,priority:2"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Total on-hand quantity
	ReservedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Held for pending orders
	UnitCost         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted average cost
	MinQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low stock alert threshold
	MaxQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Overstock threshold

	// Loaded on demand by repositories
	Batches []StockBatch `gorm:"foreignKey:StockID;references:ID"`
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates a new stock row for a warehouse-product combination
func NewStock(warehouseID, productID uuid.UUID) (*Stock, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}

	return &Stock{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		WarehouseID:          warehouseID,
		ProductID:            productID,
		Quantity:             decimal.Zero,
		ReservedQuantity:     decimal.Zero,
		UnitCost:             decimal.Zero,
		MinQuantity:          decimal.Zero,
		MaxQuantity:          decimal.Zero,
		Batches:              make([]StockBatch, 0),
	}, nil
}

// AvailableQuantity returns the quantity free for sale (total - reserved)
func (s *Stock) AvailableQuantity() decimal.Decimal {
	return s.Quantity.Sub(s.ReservedQuantity)
}

// StockIn increases on-hand quantity and recalculates the moving weighted
// average unit cost. A batch is created when batch info is provided.
func (s *Stock) StockIn(quantity, unitCost decimal.Decimal, batch *BatchInfo) (*StockBatch, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldQuantity := s.Quantity
	if oldQuantity.IsZero() {
		s.UnitCost = unitCost
	} else {
		totalValue := oldQuantity.Mul(s.UnitCost).Add(quantity.Mul(unitCost))
		s.UnitCost = totalValue.Div(oldQuantity.Add(quantity)).Round(4)
	}

	s.Quantity = s.Quantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	var created *StockBatch
	if batch != nil {
		created = NewStockBatch(s.ID, batch.BatchNumber, batch.ExpiryDate, quantity, unitCost)
		s.Batches = append(s.Batches, *created)
	}

	s.AddDomainEvent(NewStockInEvent(s, quantity, unitCost, batch))
	return created, nil
}

// StockOut decreases available quantity. The caller is responsible for
// deducting the matching batches (see PickBatchesFIFO).
func (s *Stock) StockOut(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	s.Quantity = s.Quantity.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockOutEvent(s, quantity))
	s.emitThresholdEventIfBelow()
	return nil
}

// Reserve holds quantity for a pending order. Available quantity must cover
// the request; reserved stock stays on hand until released or shipped.
func (s *Stock) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.AvailableQuantity().LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	s.ReservedQuantity = s.ReservedQuantity.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Release returns previously reserved quantity to the available pool
func (s *Stock) Release(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.ReservedQuantity.LessThan(quantity) {
		return shared.NewDomainError("INVALID_RELEASE", "Release exceeds reserved quantity")
	}

	s.ReservedQuantity = s.ReservedQuantity.Sub(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// WriteOff removes damaged quantity from stock. Unlike StockOut it may dip
// into reserved stock when on-hand goods are physically gone.
func (s *Stock) WriteOff(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if s.Quantity.LessThan(quantity) {
		return shared.ErrInsufficientStock
	}

	s.Quantity = s.Quantity.Sub(quantity)
	// Damaged reserved goods can no longer be held for orders
	if s.ReservedQuantity.GreaterThan(s.Quantity) {
		s.ReservedQuantity = s.Quantity
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.emitThresholdEventIfBelow()
	return nil
}

// SetThresholds sets the low stock and overstock alert thresholds.
// A nil value leaves the current threshold unchanged.
func (s *Stock) SetThresholds(minQuantity, maxQuantity *decimal.Decimal) error {
	if minQuantity != nil {
		if minQuantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
		}
		s.MinQuantity = *minQuantity
	}
	if maxQuantity != nil {
		if maxQuantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Maximum quantity cannot be negative")
		}
		s.MaxQuantity = *maxQuantity
	}
	if s.MaxQuantity.GreaterThan(decimal.Zero) && s.MinQuantity.GreaterThan(s.MaxQuantity) {
		return shared.NewDomainError("INVALID_THRESHOLDS", "Minimum threshold exceeds maximum")
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// IsBelowMinimum returns true if quantity is below the alert threshold
func (s *Stock) IsBelowMinimum() bool {
	return s.MinQuantity.GreaterThan(decimal.Zero) && s.Quantity.LessThan(s.MinQuantity)
}

// IsAboveMaximum returns true if quantity is above the overstock threshold
func (s *Stock) IsAboveMaximum() bool {
	return s.MaxQuantity.GreaterThan(decimal.Zero) && s.Quantity.GreaterThan(s.MaxQuantity)
}

// CanFulfill returns true if the available quantity covers the request
func (s *Stock) CanFulfill(quantity decimal.Decimal) bool {
	return s.AvailableQuantity().GreaterThanOrEqual(quantity)
}

// TotalValue returns on-hand quantity * unit cost
func (s *Stock) TotalValue() decimal.Decimal {
	return s.Quantity.Mul(s.UnitCost)
}

func (s *Stock) emitThresholdEventIfBelow() {
	if s.IsBelowMinimum() {
		s.AddDomainEvent(NewStockBelowThresholdEvent(s))
	}
}
