package identity

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// Actor identifies the admin performing a mutation. It flows from the
// authenticated request into audit entries.
type Actor struct {
	ID   uuid.UUID
	Name string
	IP   string
}

// AuditAction names what an admin did
type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionLogin   AuditAction = "LOGIN"
	AuditActionLogout  AuditAction = "LOGOUT"
	AuditActionApprove AuditAction = "APPROVE"
	AuditActionReject  AuditAction = "REJECT"
	AuditActionSettle  AuditAction = "SETTLE"
	AuditActionImport  AuditAction = "IMPORT"
	AuditActionExport  AuditAction = "EXPORT"
)

// AuditLog is one immutable record of an admin mutation. Before and After
// hold JSON snapshots of the touched entity where applicable.
type AuditLog struct {
	shared.BaseEntity
	ActorID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	ActorName  string      `gorm:"size:100;not null"`
	Action     AuditAction `gorm:"size:16;not null;index"`
	EntityType string      `gorm:"size:64;not null;index"`
	EntityID   string      `gorm:"size:64;index"`
	Before     string      `gorm:"type:jsonb"`
	After      string      `gorm:"type:jsonb"`
	IP         string      `gorm:"size:45"`
	Remark     string      `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates an audit entry for an admin action
func NewAuditLog(actorID uuid.UUID, actorName string, action AuditAction, entityType, entityID string) (*AuditLog, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	if entityType == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY_TYPE", "Entity type is required")
	}

	return &AuditLog{
		BaseEntity: shared.NewBaseEntity(),
		ActorID:    actorID,
		ActorName:  actorName,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}, nil
}

// WithBefore attaches the pre-mutation snapshot
func (a *AuditLog) WithBefore(v any) *AuditLog {
	if data, err := json.Marshal(v); err == nil {
		a.Before = string(data)
	}
	return a
}

// WithAfter attaches the post-mutation snapshot
func (a *AuditLog) WithAfter(v any) *AuditLog {
	if data, err := json.Marshal(v); err == nil {
		a.After = string(data)
	}
	return a
}

// WithIP records the request origin
func (a *AuditLog) WithIP(ip string) *AuditLog {
	a.IP = ip
	return a
}

// WithRemark adds a free-form note
func (a *AuditLog) WithRemark(remark string) *AuditLog {
	a.Remark = remark
	return a
}
