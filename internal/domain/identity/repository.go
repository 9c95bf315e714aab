package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// UserRepository defines the persistence port for admin users
type UserRepository interface {
	shared.Repository[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*User], error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// AuditLogRepository defines the persistence port for audit entries.
// Audit logs are append-only; there is no update or delete.
type AuditLogRepository interface {
	Save(ctx context.Context, entry *AuditLog) error
	FindByID(ctx context.Context, id uuid.UUID) (*AuditLog, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*AuditLog], error)
	FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*AuditLog], error)
}
