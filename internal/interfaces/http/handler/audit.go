package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/application/admin"
)

// AuditHandler serves read-only audit trail endpoints
type AuditHandler struct {
	BaseHandler
	auditService *admin.AuditService
}

// NewAuditHandler creates an audit handler
func NewAuditHandler(auditService *admin.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List returns a page of audit log entries, optionally filtered by actor
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	if rawActor := c.Query("actor_id"); rawActor != "" {
		actorID, err := uuid.Parse(rawActor)
		if err != nil {
			h.BadRequest(c, "invalid actor_id: must be a UUID")
			return
		}
		page, err := h.auditService.ListByActor(c.Request.Context(), actorID, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	page, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns a single audit log entry
func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	entry, err := h.auditService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}
