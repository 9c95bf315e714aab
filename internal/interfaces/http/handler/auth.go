package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
)

// AuthHandler serves login, token refresh, and session management
type AuthHandler struct {
	BaseHandler
	authService *admin.AuthService
	userService *admin.UserService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(authService *admin.AuthService, userService *admin.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

// Login exchanges credentials for a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req admin.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh rotates a refresh token into a fresh token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req admin.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout revokes the current session's tokens
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		h.BadRequest(c, "no active session")
		return
	}

	remaining := time.Duration(0)
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}

	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentActor(c), claims.ID, remaining); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword lets the authenticated user rotate their own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req admin.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), middleware.CurrentActor(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "password changed"})
}
