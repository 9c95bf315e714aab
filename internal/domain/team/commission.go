package team

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// CommissionTier holds the commission parameters for one role. Tiers are
// config-driven (system_configs group "team") with compiled-in defaults.
type CommissionTier struct {
	Role              Role            `json:"role"`
	Rate              decimal.Decimal `json:"rate"`               // commission rate applied to the weighted base
	PersonalThreshold decimal.Decimal `json:"personal_threshold"` // personal sales required for the role
	TeamThreshold     decimal.Decimal `json:"team_threshold"`     // weighted team sales required for the role
	MinDirects        int             `json:"min_directs"`        // direct downline count required for the role
}

// TierTable is the full ladder of commission tiers, ordered lowest role first
type TierTable []CommissionTier

// DefaultTierTable returns the built-in commission ladder used when no
// override rows exist in system configuration.
func DefaultTierTable() TierTable {
	return TierTable{
		{Role: RoleCaptain, Rate: decimal.RequireFromString("0.05"), PersonalThreshold: decimal.Zero, TeamThreshold: decimal.Zero, MinDirects: 0},
		{Role: RoleSilverLeader, Rate: decimal.RequireFromString("0.08"), PersonalThreshold: decimal.NewFromInt(5000), TeamThreshold: decimal.NewFromInt(20000), MinDirects: 3},
		{Role: RoleGoldLeader, Rate: decimal.RequireFromString("0.10"), PersonalThreshold: decimal.NewFromInt(10000), TeamThreshold: decimal.NewFromInt(50000), MinDirects: 5},
		{Role: RoleDirector, Rate: decimal.RequireFromString("0.12"), PersonalThreshold: decimal.NewFromInt(20000), TeamThreshold: decimal.NewFromInt(150000), MinDirects: 8},
		{Role: RoleAmbassador, Rate: decimal.RequireFromString("0.15"), PersonalThreshold: decimal.NewFromInt(50000), TeamThreshold: decimal.NewFromInt(500000), MinDirects: 10},
	}
}

// TierFor returns the tier for the given role
func (t TierTable) TierFor(role Role) (CommissionTier, error) {
	for _, tier := range t {
		if tier.Role == role {
			return tier, nil
		}
	}
	return CommissionTier{}, shared.NewDomainError("INVALID_ROLE", "No commission tier for role")
}

// Validate checks the ladder is complete and rates/thresholds are
// monotonically non-decreasing with tier rank.
func (t TierTable) Validate() error {
	if len(t) != len(AllRoles()) {
		return shared.NewDomainError("INVALID_TIER_TABLE", "Tier table must cover every role")
	}
	for i, tier := range t {
		if tier.Role != AllRoles()[i] {
			return shared.NewDomainError("INVALID_TIER_TABLE", "Tier table roles out of ladder order")
		}
		if tier.Rate.IsNegative() || tier.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return shared.NewDomainError("INVALID_TIER_TABLE", "Commission rate must be within [0, 1]")
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if tier.Rate.LessThan(prev.Rate) {
			return shared.NewDomainError("INVALID_TIER_TABLE", "Commission rate must not decrease with tier")
		}
		if tier.PersonalThreshold.LessThan(prev.PersonalThreshold) ||
			tier.TeamThreshold.LessThan(prev.TeamThreshold) ||
			tier.MinDirects < prev.MinDirects {
			return shared.NewDomainError("INVALID_TIER_TABLE", "Thresholds must not decrease with tier")
		}
	}
	return nil
}

// CommissionStatus is the review state of a commission record
type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "PENDING"
	CommissionApproved CommissionStatus = "APPROVED"
	CommissionRejected CommissionStatus = "REJECTED"
	CommissionSettled  CommissionStatus = "SETTLED"
)

// CommissionRecord is one member's commission for one period, subject to
// finance review before settlement.
type CommissionRecord struct {
	shared.AuditedAggregateRoot
	MemberID   uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_commission_member_period,priority:1"`
	Period     Period           `gorm:"size:7;not null;uniqueIndex:idx_commission_member_period,priority:2"`
	Role       Role             `gorm:"size:24;not null"` // role at computation time
	BaseAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Rate       decimal.Decimal  `gorm:"type:decimal(8,4);not null"`
	Amount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Status     CommissionStatus `gorm:"size:16;not null;default:PENDING;index"`
	Remark     string           `gorm:"size:255"`
	ReviewedBy *uuid.UUID       `gorm:"type:uuid"`
	ReviewedAt *time.Time
	SettledAt  *time.Time
}

// TableName returns the table name for GORM
func (CommissionRecord) TableName() string {
	return "commission_records"
}

// NewCommissionRecord creates a pending commission for a member and period
func NewCommissionRecord(memberID uuid.UUID, period Period, role Role, base, rate decimal.Decimal) (*CommissionRecord, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member ID cannot be empty")
	}
	if base.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Commission base cannot be negative")
	}

	c := &CommissionRecord{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		MemberID:             memberID,
		Period:               period,
		Role:                 role,
		BaseAmount:           base,
		Rate:                 rate,
		Amount:               base.Mul(rate).Round(4),
		Status:               CommissionPending,
	}
	c.AddDomainEvent(NewCommissionComputedEvent(c))
	return c, nil
}

// Approve passes finance review
func (c *CommissionRecord) Approve(reviewerID uuid.UUID, remark string) error {
	if c.Status != CommissionPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	c.Status = CommissionApproved
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &now
	c.Remark = remark
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionReviewedEvent(c))
	return nil
}

// Reject fails finance review
func (c *CommissionRecord) Reject(reviewerID uuid.UUID, remark string) error {
	if c.Status != CommissionPending {
		return shared.ErrInvalidState
	}
	now := time.Now()
	c.Status = CommissionRejected
	c.ReviewedBy = &reviewerID
	c.ReviewedAt = &now
	c.Remark = remark
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionReviewedEvent(c))
	return nil
}

// Settle marks the approved commission as paid out
func (c *CommissionRecord) Settle() error {
	if c.Status != CommissionApproved {
		return shared.ErrInvalidState
	}
	now := time.Now()
	c.Status = CommissionSettled
	c.SettledAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	c.AddDomainEvent(NewCommissionSettledEvent(c))
	return nil
}
