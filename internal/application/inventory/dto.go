package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
)

// StockResponse represents a stock row in API responses
type StockResponse struct {
	ID                uuid.UUID       `json:"id"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	ProductID         uuid.UUID       `json:"product_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalValue        decimal.Decimal `json:"total_value"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	MaxQuantity       decimal.Decimal `json:"max_quantity"`
	IsBelowMinimum    bool            `json:"is_below_minimum"`
	IsAboveMaximum    bool            `json:"is_above_maximum"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToStockResponse converts a stock aggregate to its response form
func ToStockResponse(s *inventory.Stock) StockResponse {
	return StockResponse{
		ID:                s.ID,
		WarehouseID:       s.WarehouseID,
		ProductID:         s.ProductID,
		Quantity:          s.Quantity,
		ReservedQuantity:  s.ReservedQuantity,
		AvailableQuantity: s.AvailableQuantity(),
		UnitCost:          s.UnitCost,
		TotalValue:        s.TotalValue(),
		MinQuantity:       s.MinQuantity,
		MaxQuantity:       s.MaxQuantity,
		IsBelowMinimum:    s.IsBelowMinimum(),
		IsAboveMaximum:    s.IsAboveMaximum(),
		UpdatedAt:         s.UpdatedAt,
		Version:           s.Version,
	}
}

// ToStockResponses converts a slice of stocks
func ToStockResponses(stocks []inventory.Stock) []StockResponse {
	out := make([]StockResponse, len(stocks))
	for i := range stocks {
		out[i] = ToStockResponse(&stocks[i])
	}
	return out
}

// StockListFilter represents filter options for the stock list
type StockListFilter struct {
	WarehouseID  *uuid.UUID `form:"warehouse_id"`
	ProductID    *uuid.UUID `form:"product_id"`
	BelowMinimum *bool      `form:"below_minimum"`
	HasStock     *bool      `form:"has_stock"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StockInRequest represents an inbound stock movement
type StockInRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost" binding:"required"`
	BatchNumber string          `json:"batch_number"` // generated when empty
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// StockOutRequest represents an outbound stock movement (sale, shipment)
type StockOutRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference"`
	Reason      string          `json:"reason"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// StockOutResponse reports which batches covered the outbound
type StockOutResponse struct {
	Stock      StockResponse    `json:"stock"`
	Deductions []BatchDeduction `json:"deductions"`
	TotalCost  decimal.Decimal  `json:"total_cost"`
}

// BatchDeduction is one batch's contribution to an outbound
type BatchDeduction struct {
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Consumed    bool            `json:"consumed"`
}

func toBatchDeductions(deductions []inventory.BatchDeduction) []BatchDeduction {
	out := make([]BatchDeduction, len(deductions))
	for i, d := range deductions {
		out[i] = BatchDeduction{
			BatchNumber: d.BatchNumber,
			Quantity:    d.Quantity,
			UnitCost:    d.UnitCost,
			Consumed:    d.Consumed,
		}
	}
	return out
}

// TransferRequest moves stock between two warehouses
type TransferRequest struct {
	FromWarehouseID uuid.UUID       `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   uuid.UUID       `json:"to_warehouse_id" binding:"required"`
	ProductID       uuid.UUID       `json:"product_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Reference       string          `json:"reference"`
	Reason          string          `json:"reason"`
	OperatorID      *uuid.UUID      `json:"operator_id"`
}

// TransferResponse reports both sides of a completed transfer
type TransferResponse struct {
	From StockResponse `json:"from"`
	To   StockResponse `json:"to"`
}

// DamageRequest writes off damaged or expired stock
type DamageRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"required,min=1,max=255"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// ReserveRequest holds stock for a pending order
type ReserveRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference" binding:"required"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// ReleaseRequest returns reserved stock to the available pool
type ReleaseRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reference   string          `json:"reference" binding:"required"`
	OperatorID  *uuid.UUID      `json:"operator_id"`
}

// SetThresholdsRequest updates the alert thresholds of a stock row
type SetThresholdsRequest struct {
	WarehouseID uuid.UUID        `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
	MaxQuantity *decimal.Decimal `json:"max_quantity"`
	OperatorID  *uuid.UUID       `json:"operator_id"`
}

// LogResponse represents a movement log entry in API responses
type LogResponse struct {
	ID             uuid.UUID       `json:"id"`
	StockID        uuid.UUID       `json:"stock_id"`
	WarehouseID    uuid.UUID       `json:"warehouse_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Kind           string          `json:"kind"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	BatchNumber    string          `json:"batch_number,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	OperatorID     *uuid.UUID      `json:"operator_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToLogResponse converts a movement log to its response form
func ToLogResponse(l *inventory.InventoryLog) LogResponse {
	return LogResponse{
		ID:             l.ID,
		StockID:        l.StockID,
		WarehouseID:    l.WarehouseID,
		ProductID:      l.ProductID,
		Kind:           l.Kind.String(),
		Quantity:       l.Quantity,
		QuantityBefore: l.QuantityBefore,
		QuantityAfter:  l.QuantityAfter,
		BatchNumber:    l.BatchNumber,
		Reference:      l.Reference,
		Reason:         l.Reason,
		OperatorID:     l.OperatorID,
		CreatedAt:      l.CreatedAt,
	}
}

// ToLogResponses converts a slice of movement logs
func ToLogResponses(logs []inventory.InventoryLog) []LogResponse {
	out := make([]LogResponse, len(logs))
	for i := range logs {
		out[i] = ToLogResponse(&logs[i])
	}
	return out
}

// AlertResponse represents an inventory alert in API responses
type AlertResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockID     uuid.UUID       `json:"stock_id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Type        string          `json:"type"`
	BatchNumber string          `json:"batch_number,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	Threshold   decimal.Decimal `json:"threshold"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// ToAlertResponse converts an alert to its response form
func ToAlertResponse(a *inventory.InventoryAlert) AlertResponse {
	return AlertResponse{
		ID:          a.ID,
		StockID:     a.StockID,
		WarehouseID: a.WarehouseID,
		ProductID:   a.ProductID,
		Type:        string(a.Type),
		BatchNumber: a.BatchNumber,
		Quantity:    a.Quantity,
		Threshold:   a.Threshold,
		Status:      string(a.Status),
		CreatedAt:   a.CreatedAt,
		ResolvedAt:  a.ResolvedAt,
	}
}

// ToAlertResponses converts a slice of alerts
func ToAlertResponses(alerts []inventory.InventoryAlert) []AlertResponse {
	out := make([]AlertResponse, len(alerts))
	for i := range alerts {
		out[i] = ToAlertResponse(&alerts[i])
	}
	return out
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Code      string     `json:"code"`
	Tier      string     `json:"tier"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	Address   string     `json:"address,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToWarehouseResponse converts a warehouse to its response form
func ToWarehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Code:      w.Code,
		Tier:      w.Tier.String(),
		OwnerID:   w.OwnerID,
		Address:   w.Address,
		Status:    string(w.Status),
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// ToWarehouseResponses converts a slice of warehouses
func ToWarehouseResponses(warehouses []inventory.Warehouse) []WarehouseResponse {
	out := make([]WarehouseResponse, len(warehouses))
	for i := range warehouses {
		out[i] = ToWarehouseResponse(&warehouses[i])
	}
	return out
}

// CreateWarehouseRequest creates a new warehouse
type CreateWarehouseRequest struct {
	Name    string     `json:"name" binding:"required,min=1,max=128"`
	Code    string     `json:"code" binding:"required,min=1,max=32"`
	Tier    string     `json:"tier" binding:"required,oneof=PLATFORM CLOUD LOCAL"`
	OwnerID *uuid.UUID `json:"owner_id"`
	Address string     `json:"address" binding:"omitempty,max=255"`
}

// UpdateWarehouseRequest updates mutable warehouse fields
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=128"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Status  *string `json:"status" binding:"omitempty,oneof=ACTIVE DISABLED"`
}
