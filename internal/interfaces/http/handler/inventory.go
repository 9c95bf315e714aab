package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/shopx/backoffice/internal/application/inventory"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// InventoryHandler serves stock query and movement endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// stockKeyQuery binds the warehouse_id and product_id query parameters
type stockKeyQuery struct {
	WarehouseID uuid.UUID `form:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID `form:"product_id" binding:"required"`
}

// operator fills the request's operator from the authenticated user when
// the caller did not name one explicitly
func operator(c *gin.Context, explicit *uuid.UUID) *uuid.UUID {
	if explicit != nil {
		return explicit
	}
	if id := middleware.CurrentUserID(c); id != uuid.Nil {
		return &id
	}
	return nil
}

// GetStock returns the stock row for a warehouse and product
func (h *InventoryHandler) GetStock(c *gin.Context) {
	var q stockKeyQuery
	if !h.bindQuery(c, &q) {
		return
	}

	stock, err := h.inventoryService.GetStock(c.Request.Context(), q.WarehouseID, q.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListStocks returns a filtered page of stock rows
func (h *InventoryHandler) ListStocks(c *gin.Context) {
	var filter inventoryapp.StockListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	stocks, total, err := h.inventoryService.ListStocks(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, stocks, total, page, pageSize)
}

// StockIn records an inbound movement, creating a batch
func (h *InventoryHandler) StockIn(c *gin.Context) {
	var req inventoryapp.StockInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	stock, err := h.inventoryService.StockIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// StockOut records an outbound movement, consuming batches FIFO by expiry
func (h *InventoryHandler) StockOut(c *gin.Context) {
	var req inventoryapp.StockOutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	result, err := h.inventoryService.StockOut(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Transfer moves stock between two warehouses
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req inventoryapp.TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	result, err := h.inventoryService.Transfer(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Damage writes off damaged stock
func (h *InventoryHandler) Damage(c *gin.Context) {
	var req inventoryapp.DamageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	result, err := h.inventoryService.Damage(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reserve holds stock against a reference
func (h *InventoryHandler) Reserve(c *gin.Context) {
	var req inventoryapp.ReserveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	stock, err := h.inventoryService.Reserve(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Release returns reserved stock to the available pool
func (h *InventoryHandler) Release(c *gin.Context) {
	var req inventoryapp.ReleaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	stock, err := h.inventoryService.Release(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// SetThresholds updates min/max alert thresholds on a stock row
func (h *InventoryHandler) SetThresholds(c *gin.Context) {
	var req inventoryapp.SetThresholdsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.OperatorID = operator(c, req.OperatorID)

	stock, err := h.inventoryService.SetThresholds(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListLogs returns the movement history for a warehouse and product
func (h *InventoryHandler) ListLogs(c *gin.Context) {
	var q stockKeyQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	logs, total, err := h.inventoryService.ListLogs(c.Request.Context(), q.WarehouseID, q.ProductID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, logs, total, filter.Page, filter.PageSize)
}
