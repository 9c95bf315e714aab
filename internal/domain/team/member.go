package team

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// Role is the MLM tier of a team member. Higher tiers earn higher commission
// rates and unlock promotion of their downline.
type Role string

const (
	RoleCaptain      Role = "CAPTAIN"
	RoleSilverLeader Role = "SILVER_LEADER"
	RoleGoldLeader   Role = "GOLD_LEADER"
	RoleDirector     Role = "DIRECTOR"
	RoleAmbassador   Role = "AMBASSADOR"
)

// roleOrder defines the promotion ladder, lowest first
var roleOrder = []Role{
	RoleCaptain,
	RoleSilverLeader,
	RoleGoldLeader,
	RoleDirector,
	RoleAmbassador,
}

// IsValid returns true if the role is a known tier
func (r Role) IsValid() bool {
	return r.Rank() >= 0
}

// Rank returns the position of the role on the ladder (0 = lowest), -1 if unknown
func (r Role) Rank() int {
	for i, candidate := range roleOrder {
		if candidate == r {
			return i
		}
	}
	return -1
}

// Next returns the next role on the ladder, or empty when already at the top
func (r Role) Next() Role {
	rank := r.Rank()
	if rank < 0 || rank >= len(roleOrder)-1 {
		return ""
	}
	return roleOrder[rank+1]
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// AllRoles returns the ladder, lowest tier first
func AllRoles() []Role {
	out := make([]Role, len(roleOrder))
	copy(out, roleOrder)
	return out
}

// MemberStatus represents the activity state of a member
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
)

// Member is a participant in the team/commission program. The materialized
// Path ("/rootID/.../parentID/") makes multi-level downline queries a prefix
// match instead of a recursive walk.
type Member struct {
	shared.AuditedAggregateRoot
	UserID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	Nickname string       `gorm:"size:64;not null"`
	Role     Role         `gorm:"size:24;not null;default:CAPTAIN;index"`
	ParentID *uuid.UUID   `gorm:"type:uuid;index"`
	Path     string       `gorm:"size:1024;not null;default:'/';index"`
	Status   MemberStatus `gorm:"size:16;not null;default:ACTIVE"`
	JoinedAt time.Time    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "team_members"
}

func newMember(userID uuid.UUID, nickname string) (*Member, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if nickname == "" {
		return nil, shared.NewDomainError("INVALID_NICKNAME", "Nickname is required")
	}

	return &Member{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		UserID:               userID,
		Nickname:             nickname,
		Role:                 RoleCaptain,
		Path:                 "/",
		Status:               MemberStatusActive,
		JoinedAt:             time.Now(),
	}, nil
}

// NewMember creates a root member (no sponsor)
func NewMember(userID uuid.UUID, nickname string) (*Member, error) {
	m, err := newMember(userID, nickname)
	if err != nil {
		return nil, err
	}
	m.AddDomainEvent(NewMemberJoinedEvent(m))
	return m, nil
}

// NewMemberUnder creates a member sponsored by parent. The new member's path
// extends the parent's path with the parent's ID.
func NewMemberUnder(userID uuid.UUID, nickname string, parent *Member) (*Member, error) {
	if parent == nil {
		return nil, shared.NewDomainError("INVALID_PARENT", "Parent member is required")
	}
	if parent.Status != MemberStatusActive {
		return nil, shared.NewDomainError("INACTIVE_PARENT", "Cannot join under an inactive member")
	}
	m, err := newMember(userID, nickname)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	m.ParentID = &parentID
	m.Path = parent.Path + parent.ID.String() + "/"
	m.AddDomainEvent(NewMemberJoinedEvent(m))
	return m, nil
}

// Depth returns how many ancestors the member has
func (m *Member) Depth() int {
	return strings.Count(m.Path, "/") - 1
}

// DepthRelativeTo returns the downline depth of this member below the given
// ancestor: 1 for a direct recruit, 2 for a recruit's recruit, and so on.
// Returns 0 when the ancestor is not on this member's path.
func (m *Member) DepthRelativeTo(ancestor *Member) int {
	prefix := ancestor.Path + ancestor.ID.String() + "/"
	if !strings.HasPrefix(m.Path, prefix) {
		return 0
	}
	return strings.Count(strings.TrimPrefix(m.Path, prefix), "/") + 1
}

// ChangeRole sets the member's role. Used both by promotion and by admin
// overrides; the caller is responsible for auditing.
func (m *Member) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown team role")
	}
	if role == m.Role {
		return nil
	}

	old := m.Role
	m.Role = role
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	m.AddDomainEvent(NewMemberRoleChangedEvent(m, old, role))
	return nil
}

// Promote moves the member one tier up the ladder
func (m *Member) Promote() error {
	next := m.Role.Next()
	if next == "" {
		return shared.NewDomainError("AT_TOP_TIER", "Member already holds the highest role")
	}
	return m.ChangeRole(next)
}

// Deactivate removes the member from active ranking and roll-ups
func (m *Member) Deactivate() {
	m.Status = MemberStatusInactive
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// IsActive returns true if the member participates in the program
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
