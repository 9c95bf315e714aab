package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/shopx/backoffice/internal/application/inventory"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// WarehouseHandler serves warehouse management endpoints
type WarehouseHandler struct {
	BaseHandler
	warehouseService *inventoryapp.WarehouseService
}

// NewWarehouseHandler creates a warehouse handler
func NewWarehouseHandler(warehouseService *inventoryapp.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

// Create registers a new warehouse
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	var createdBy *uuid.UUID
	if actorID := middleware.CurrentUserID(c); actorID != uuid.Nil {
		createdBy = &actorID
	}

	warehouse, err := h.warehouseService.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, warehouse)
}

// Get returns a single warehouse
func (h *WarehouseHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	warehouse, err := h.warehouseService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// List returns warehouses, optionally filtered by tier
func (h *WarehouseHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	warehouses, total, err := h.warehouseService.List(c.Request.Context(), c.Query("tier"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, warehouses, total, filter.Page, filter.PageSize)
}

// Update edits warehouse attributes
func (h *WarehouseHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req inventoryapp.UpdateWarehouseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	warehouse, err := h.warehouseService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, warehouse)
}

// Delete removes an empty warehouse
func (h *WarehouseHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.warehouseService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
