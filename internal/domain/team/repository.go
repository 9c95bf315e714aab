package team

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// MemberRepository defines the persistence port for team members
type MemberRepository interface {
	shared.Repository[Member]
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Member, error)
	FindByParentID(ctx context.Context, parentID uuid.UUID) ([]*Member, error)
	// FindDownline returns every active member whose path has the given
	// member on it, the whole subtree regardless of depth.
	FindDownline(ctx context.Context, ancestor *Member) ([]*Member, error)
	CountDirects(ctx context.Context, memberID uuid.UUID) (int64, error)
	List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*Member], error)
	SaveWithLock(ctx context.Context, member *Member) error
}

// CommissionRecordRepository defines the persistence port for commissions
type CommissionRecordRepository interface {
	shared.Repository[CommissionRecord]
	FindByMemberAndPeriod(ctx context.Context, memberID uuid.UUID, period Period) (*CommissionRecord, error)
	FindByPeriod(ctx context.Context, period Period, filter shared.Filter) (*shared.Paginated[*CommissionRecord], error)
	FindByStatus(ctx context.Context, status CommissionStatus, filter shared.Filter) (*shared.Paginated[*CommissionRecord], error)
	SumAmountByPeriod(ctx context.Context, period Period) (decimal.Decimal, error)
	SaveWithLock(ctx context.Context, record *CommissionRecord) error
}

// MemberSales is one member's order total over a time range
type MemberSales struct {
	MemberID uuid.UUID
	Total    decimal.Decimal
}

// SalesReader supplies settled order totals for performance computation.
// Implementations read the order/sales store, which this module does not own.
type SalesReader interface {
	// SalesForMember returns the member's own order total within [from, to)
	SalesForMember(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	// SalesForMembers returns per-member order totals within [from, to)
	SalesForMembers(ctx context.Context, memberIDs []uuid.UUID, from, to time.Time) ([]MemberSales, error)
}
