package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/sysconfig"
)

// Actor identifies the admin performing an operation. The type lives with
// the audit log; the alias keeps this package's service signatures short.
type Actor = identity.Actor

// UserResponse represents an admin account in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a user aggregate to its response form
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		Status:      string(u.Status),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []*identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = ToUserResponse(u)
	}
	return out
}

// CreateUserRequest creates an admin account
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	Email       string `json:"email" binding:"omitempty,email"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Role        string `json:"role" binding:"required,oneof=ADMIN FINANCE OPERATOR VIEWER"`
}

// UpdateUserRequest updates profile fields. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// ChangeUserRoleRequest switches an account's admin role
type ChangeUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ADMIN FINANCE OPERATOR VIEWER"`
}

// ResetPasswordRequest sets a new password without the old one (admin reset)
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ChangePasswordRequest lets a user rotate their own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// LoginRequest authenticates an admin
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ReviewRequest approves or rejects a commission record
type ReviewRequest struct {
	Remark string `json:"remark" binding:"max=255"`
}

// CommissionSummaryResponse totals a period's commissions
type CommissionSummaryResponse struct {
	Period      string `json:"period"`
	TotalAmount string `json:"total_amount"`
	Settled     int    `json:"settled"`
}

// ConfigResponse represents a system config row in API responses
type ConfigResponse struct {
	ID          uuid.UUID `json:"id"`
	Group       string    `json:"group"`
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToConfigResponse converts a config entry to its response form
func ToConfigResponse(c *sysconfig.ConfigEntry) ConfigResponse {
	return ConfigResponse{
		ID:          c.ID,
		Group:       c.Group,
		Key:         c.Key,
		Value:       c.Value,
		Type:        string(c.Type),
		Description: c.Description,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToConfigResponses converts a slice of config entries
func ToConfigResponses(entries []*sysconfig.ConfigEntry) []ConfigResponse {
	out := make([]ConfigResponse, len(entries))
	for i, c := range entries {
		out[i] = ToConfigResponse(c)
	}
	return out
}

// SetConfigRequest creates or updates a config row
type SetConfigRequest struct {
	Group       string `json:"group" binding:"required,max=64"`
	Key         string `json:"key" binding:"required,max=128"`
	Value       string `json:"value" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=STRING NUMBER BOOLEAN JSON"`
	Description string `json:"description" binding:"max=255"`
}

// ConfigExportItem is one row of a config export document
type ConfigExportItem struct {
	Group       string `json:"group"`
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// ConfigExport is the JSON document produced by export and consumed by import
type ConfigExport struct {
	ExportedAt time.Time          `json:"exported_at"`
	Items      []ConfigExportItem `json:"items"`
}

// AuditLogResponse represents an audit entry in API responses
type AuditLogResponse struct {
	ID         uuid.UUID `json:"id"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id,omitempty"`
	Before     string    `json:"before,omitempty"`
	After      string    `json:"after,omitempty"`
	IP         string    `json:"ip,omitempty"`
	Remark     string    `json:"remark,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToAuditLogResponse converts an audit entry to its response form
func ToAuditLogResponse(a *identity.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:         a.ID,
		ActorID:    a.ActorID,
		ActorName:  a.ActorName,
		Action:     string(a.Action),
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Before:     a.Before,
		After:      a.After,
		IP:         a.IP,
		Remark:     a.Remark,
		CreatedAt:  a.CreatedAt,
	}
}

// ToAuditLogResponses converts a slice of audit entries
func ToAuditLogResponses(entries []*identity.AuditLog) []AuditLogResponse {
	out := make([]AuditLogResponse, len(entries))
	for i, a := range entries {
		out[i] = ToAuditLogResponse(a)
	}
	return out
}
