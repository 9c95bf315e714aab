package team

import (
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

const AggregateTypeMember = "Member"
const AggregateTypeCommission = "CommissionRecord"

// Event type constants
const (
	EventTypeMemberJoined       = "team.member_joined"
	EventTypeMemberRoleChanged  = "team.member_role_changed"
	EventTypeCommissionComputed = "team.commission_computed"
	EventTypeCommissionReviewed = "team.commission_reviewed"
	EventTypeCommissionSettled  = "team.commission_settled"
)

// MemberJoinedEvent is raised when a member enters the program
type MemberJoinedEvent struct {
	shared.BaseDomainEvent
	UserID   string  `json:"user_id"`
	Nickname string  `json:"nickname"`
	ParentID *string `json:"parent_id,omitempty"`
}

// NewMemberJoinedEvent creates a member joined event
func NewMemberJoinedEvent(m *Member) *MemberJoinedEvent {
	var parentID *string
	if m.ParentID != nil {
		s := m.ParentID.String()
		parentID = &s
	}
	return &MemberJoinedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberJoined, AggregateTypeMember, m.ID),
		UserID:          m.UserID.String(),
		Nickname:        m.Nickname,
		ParentID:        parentID,
	}
}

// MemberRoleChangedEvent is raised on promotion or admin role override
type MemberRoleChangedEvent struct {
	shared.BaseDomainEvent
	UserID  string `json:"user_id"`
	OldRole Role   `json:"old_role"`
	NewRole Role   `json:"new_role"`
}

// NewMemberRoleChangedEvent creates a role changed event
func NewMemberRoleChangedEvent(m *Member, oldRole, newRole Role) *MemberRoleChangedEvent {
	return &MemberRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMemberRoleChanged, AggregateTypeMember, m.ID),
		UserID:          m.UserID.String(),
		OldRole:         oldRole,
		NewRole:         newRole,
	}
}

// CommissionComputedEvent is raised when a period commission record is created
type CommissionComputedEvent struct {
	shared.BaseDomainEvent
	MemberID string          `json:"member_id"`
	Period   Period          `json:"period"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewCommissionComputedEvent creates a commission computed event
func NewCommissionComputedEvent(c *CommissionRecord) *CommissionComputedEvent {
	return &CommissionComputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionComputed, AggregateTypeCommission, c.ID),
		MemberID:        c.MemberID.String(),
		Period:          c.Period,
		Amount:          c.Amount,
	}
}

// CommissionReviewedEvent is raised when finance approves or rejects a record
type CommissionReviewedEvent struct {
	shared.BaseDomainEvent
	MemberID string           `json:"member_id"`
	Period   Period           `json:"period"`
	Status   CommissionStatus `json:"status"`
}

// NewCommissionReviewedEvent creates a commission reviewed event
func NewCommissionReviewedEvent(c *CommissionRecord) *CommissionReviewedEvent {
	return &CommissionReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionReviewed, AggregateTypeCommission, c.ID),
		MemberID:        c.MemberID.String(),
		Period:          c.Period,
		Status:          c.Status,
	}
}

// CommissionSettledEvent is raised when an approved commission is paid out
type CommissionSettledEvent struct {
	shared.BaseDomainEvent
	MemberID string          `json:"member_id"`
	Period   Period          `json:"period"`
	Amount   decimal.Decimal `json:"amount"`
}

// NewCommissionSettledEvent creates a commission settled event
func NewCommissionSettledEvent(c *CommissionRecord) *CommissionSettledEvent {
	return &CommissionSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCommissionSettled, AggregateTypeCommission, c.ID),
		MemberID:        c.MemberID.String(),
		Period:          c.Period,
		Amount:          c.Amount,
	}
}
