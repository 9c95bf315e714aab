package identity

import (
	"github.com/shopx/backoffice/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated       = "identity.user_created"
	EventTypeUserStatusChanged = "identity.user_status_changed"
	EventTypeUserLoggedIn      = "identity.user_logged_in"
)

// UserCreatedEvent is raised when an admin account is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string    `json:"username"`
	Role     AdminRole `json:"role"`
}

// NewUserCreatedEvent creates a user created event
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserCreated, AggregateTypeUser, u.ID),
		Username:        u.Username,
		Role:            u.Role,
	}
}

// UserStatusChangedEvent is raised when an account is enabled or disabled
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

// NewUserStatusChangedEvent creates a status changed event
func NewUserStatusChangedEvent(u *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserStatusChanged, AggregateTypeUser, u.ID),
		Username:        u.Username,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// UserLoggedInEvent is raised on successful login
type UserLoggedInEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
	IP       string `json:"ip"`
}

// NewUserLoggedInEvent creates a logged in event
func NewUserLoggedInEvent(u *User, ip string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserLoggedIn, AggregateTypeUser, u.ID),
		Username:        u.Username,
		IP:              ip,
	}
}
