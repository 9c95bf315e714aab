package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/shopx/backoffice/internal/application/inventory"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// AlertHandler serves inventory alert endpoints
type AlertHandler struct {
	BaseHandler
	alertService *inventoryapp.AlertService
}

// NewAlertHandler creates an alert handler
func NewAlertHandler(alertService *inventoryapp.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// List returns inventory alerts; pass active_only=true to hide handled ones
func (h *AlertHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	activeOnly := c.Query("active_only") == "true"

	alerts, total, err := h.alertService.ListAlerts(c.Request.Context(), activeOnly, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, alerts, total, filter.Page, filter.PageSize)
}

// Resolve marks an alert as handled
func (h *AlertHandler) Resolve(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.alertService.ResolveAlert(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "alert resolved"})
}

// Ignore dismisses an alert without action
func (h *AlertHandler) Ignore(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.alertService.IgnoreAlert(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "alert ignored"})
}

// Sweep runs an on-demand scan for low stock and expiring batches
func (h *AlertHandler) Sweep(c *gin.Context) {
	result, err := h.alertService.Sweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
