package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStock = "Stock"

// Event type constants
const (
	EventTypeStockIn             = "StockIn"
	EventTypeStockOut            = "StockOut"
	EventTypeStockBelowThreshold = "StockBelowThreshold"
	EventTypeBatchExpired        = "BatchExpired"
)

// StockInEvent is raised when stock is received into a warehouse
type StockInEvent struct {
	shared.BaseDomainEvent
	StockID     uuid.UUID       `json:"stock_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number,omitempty"`
}

// NewStockInEvent creates a new StockInEvent
func NewStockInEvent(stock *Stock, quantity, unitCost decimal.Decimal, batch *BatchInfo) *StockInEvent {
	batchNumber := ""
	if batch != nil {
		batchNumber = batch.BatchNumber
	}
	return &StockInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIn, AggregateTypeStock, stock.ID),
		StockID:         stock.ID,
		WarehouseID:     stock.WarehouseID,
		ProductID:       stock.ProductID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		BatchNumber:     batchNumber,
	}
}

// EventType returns the event type name
func (e *StockInEvent) EventType() string {
	return EventTypeStockIn
}

// StockOutEvent is raised when stock leaves a warehouse
type StockOutEvent struct {
	shared.BaseDomainEvent
	StockID     uuid.UUID       `json:"stock_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewStockOutEvent creates a new StockOutEvent
func NewStockOutEvent(stock *Stock, quantity decimal.Decimal) *StockOutEvent {
	return &StockOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockOut, AggregateTypeStock, stock.ID),
		StockID:         stock.ID,
		WarehouseID:     stock.WarehouseID,
		ProductID:       stock.ProductID,
		Quantity:        quantity,
	}
}

// EventType returns the event type name
func (e *StockOutEvent) EventType() string {
	return EventTypeStockOut
}

// StockBelowThresholdEvent is raised when on-hand quantity drops below the
// configured minimum. The alert handler turns it into an InventoryAlert row.
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	StockID     uuid.UUID       `json:"stock_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// NewStockBelowThresholdEvent creates a new StockBelowThresholdEvent
func NewStockBelowThresholdEvent(stock *Stock) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, AggregateTypeStock, stock.ID),
		StockID:         stock.ID,
		WarehouseID:     stock.WarehouseID,
		ProductID:       stock.ProductID,
		Quantity:        stock.Quantity,
		MinQuantity:     stock.MinQuantity,
	}
}

// EventType returns the event type name
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}

// BatchExpiredEvent is raised by the threshold sweep when a batch passes its
// expiry date while still holding quantity
type BatchExpiredEvent struct {
	shared.BaseDomainEvent
	StockID     uuid.UUID       `json:"stock_id"`
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewBatchExpiredEvent creates a new BatchExpiredEvent
func NewBatchExpiredEvent(batch *StockBatch) *BatchExpiredEvent {
	return &BatchExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchExpired, AggregateTypeStock, batch.StockID),
		StockID:         batch.StockID,
		BatchID:         batch.ID,
		BatchNumber:     batch.BatchNumber,
		Quantity:        batch.Quantity,
	}
}

// EventType returns the event type name
func (e *BatchExpiredEvent) EventType() string {
	return EventTypeBatchExpired
}
