package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// UserHandler serves admin account management endpoints
type UserHandler struct {
	BaseHandler
	userService *admin.UserService
}

// NewUserHandler creates a user handler
func NewUserHandler(userService *admin.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Create registers a new admin account
func (h *UserHandler) Create(c *gin.Context) {
	var req admin.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Get returns a single admin account
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// List returns a page of admin accounts
func (h *UserHandler) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Update edits an account's profile fields
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req admin.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangeRole reassigns an account's admin role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req admin.ChangeUserRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword sets a new password on another account
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req admin.ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), middleware.CurrentActor(c), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "password reset"})
}

// Disable locks an account out
func (h *UserHandler) Disable(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.Disable(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Enable reactivates a disabled account
func (h *UserHandler) Enable(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	user, err := h.userService.Enable(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
