package handler

import (
	"github.com/gin-gonic/gin"
	teamapp "github.com/shopx/backoffice/internal/application/team"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// TeamHandler serves distribution team membership endpoints
type TeamHandler struct {
	BaseHandler
	teamService *teamapp.TeamService
}

// NewTeamHandler creates a team handler
func NewTeamHandler(teamService *teamapp.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// Join enrolls a user into the distribution tree
func (h *TeamHandler) Join(c *gin.Context) {
	var req teamapp.JoinRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.teamService.Join(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// Get returns a single team member
func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	member, err := h.teamService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// List returns a page of team members
func (h *TeamHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.teamService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Downline returns a member's subtree with relative depths
func (h *TeamHandler) Downline(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	downline, err := h.teamService.Downline(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, downline)
}

// ChangeRole manually reassigns a member's tier
func (h *TeamHandler) ChangeRole(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req teamapp.ChangeRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.teamService.ChangeRole(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Deactivate removes a member from active standing
func (h *TeamHandler) Deactivate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.teamService.Deactivate(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
