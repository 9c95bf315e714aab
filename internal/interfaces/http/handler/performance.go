package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	teamapp "github.com/shopx/backoffice/internal/application/team"
	"github.com/shopx/backoffice/internal/domain/team"
)

// PerformanceHandler serves sales performance and commission generation
type PerformanceHandler struct {
	BaseHandler
	performanceService *teamapp.PerformanceService
}

// NewPerformanceHandler creates a performance handler
func NewPerformanceHandler(performanceService *teamapp.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performanceService: performanceService}
}

// queryPeriod reads the period query parameter, defaulting to the current
// month. Returns false after replying 400 for a malformed value.
func (h *PerformanceHandler) queryPeriod(c *gin.Context) (team.Period, bool) {
	raw := c.Query("period")
	if raw == "" {
		return team.CurrentPeriod(), true
	}
	period, err := team.ParsePeriod(raw)
	if err != nil {
		h.BadRequest(c, "invalid period: expected YYYY-MM")
		return "", false
	}
	return period, true
}

// Compute returns a member's performance for a period. Pass fresh=true to
// bypass the cache.
func (h *PerformanceHandler) Compute(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	period, ok := h.queryPeriod(c)
	if !ok {
		return
	}
	fresh := c.Query("fresh") == "true"

	perf, err := h.performanceService.Compute(c.Request.Context(), id, period, fresh)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, perf)
}

// Leaderboard returns the top members by team sales for a period
func (h *PerformanceHandler) Leaderboard(c *gin.Context) {
	period, ok := h.queryPeriod(c)
	if !ok {
		return
	}

	limit := int64(10)
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "invalid limit: expected 1-100")
			return
		}
		limit = parsed
	}

	entries, err := h.performanceService.Leaderboard(c.Request.Context(), period, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// generateRequest names the period to settle commissions for
type generateRequest struct {
	Period string `json:"period" binding:"required"`
}

// GenerateCommissions creates pending commission records for every active
// member in the period
func (h *PerformanceHandler) GenerateCommissions(c *gin.Context) {
	var req generateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	period, err := team.ParsePeriod(req.Period)
	if err != nil {
		h.BadRequest(c, "invalid period: expected YYYY-MM")
		return
	}

	count, err := h.performanceService.GenerateCommissions(c.Request.Context(), period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"period": period.String(), "generated": count})
}

// ApplyPromotion promotes a member whose period performance meets the next
// tier's requirements
func (h *PerformanceHandler) ApplyPromotion(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	period, ok := h.queryPeriod(c)
	if !ok {
		return
	}

	member, err := h.performanceService.ApplyPromotion(c.Request.Context(), id, period)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}
