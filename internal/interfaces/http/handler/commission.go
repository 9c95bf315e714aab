package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/domain/team"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// CommissionHandler serves the finance commission review workflow
type CommissionHandler struct {
	BaseHandler
	reviewService *admin.CommissionReviewService
}

// NewCommissionHandler creates a commission review handler
func NewCommissionHandler(reviewService *admin.CommissionReviewService) *CommissionHandler {
	return &CommissionHandler{reviewService: reviewService}
}

// List returns commission records filtered by period or status
func (h *CommissionHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	if rawStatus := c.Query("status"); rawStatus != "" {
		status := team.CommissionStatus(rawStatus)
		switch status {
		case team.CommissionPending, team.CommissionApproved, team.CommissionRejected, team.CommissionSettled:
		default:
			h.BadRequest(c, "invalid status: expected PENDING, APPROVED, REJECTED, or SETTLED")
			return
		}
		page, err := h.reviewService.ListByStatus(c.Request.Context(), status, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
		return
	}

	rawPeriod := c.Query("period")
	if rawPeriod == "" {
		h.BadRequest(c, "either period or status is required")
		return
	}
	period, err := team.ParsePeriod(rawPeriod)
	if err != nil {
		h.BadRequest(c, "invalid period: expected YYYY-MM")
		return
	}

	page, err := h.reviewService.ListByPeriod(c.Request.Context(), period, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Approve accepts a pending commission record
func (h *CommissionHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req admin.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.reviewService.Approve(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Reject declines a pending commission record
func (h *CommissionHandler) Reject(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req admin.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}

	record, err := h.reviewService.Reject(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Settle pays out a single approved commission record
func (h *CommissionHandler) Settle(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	record, err := h.reviewService.Settle(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// settlePeriodRequest names the period to settle in bulk
type settlePeriodRequest struct {
	Period string `json:"period" binding:"required"`
}

// SettlePeriod pays out every approved commission record in a period
func (h *CommissionHandler) SettlePeriod(c *gin.Context) {
	var req settlePeriodRequest
	if !h.bindJSON(c, &req) {
		return
	}
	period, err := team.ParsePeriod(req.Period)
	if err != nil {
		h.BadRequest(c, "invalid period: expected YYYY-MM")
		return
	}

	summary, err := h.reviewService.SettlePeriod(c.Request.Context(), middleware.CurrentActor(c), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
