package team

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/team"
)

// MemberResponse represents a team member in API responses
type MemberResponse struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	Nickname string     `json:"nickname"`
	Role     string     `json:"role"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`
	Depth    int        `json:"depth"`
	Status   string     `json:"status"`
	JoinedAt time.Time  `json:"joined_at"`
}

// ToMemberResponse converts a member aggregate to its response form
func ToMemberResponse(m *team.Member) MemberResponse {
	return MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		Nickname: m.Nickname,
		Role:     m.Role.String(),
		ParentID: m.ParentID,
		Depth:    m.Depth(),
		Status:   string(m.Status),
		JoinedAt: m.JoinedAt,
	}
}

// ToMemberResponses converts a slice of members
func ToMemberResponses(members []*team.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = ToMemberResponse(m)
	}
	return out
}

// JoinRequest enrolls a user into the team program
type JoinRequest struct {
	UserID   uuid.UUID  `json:"user_id" binding:"required"`
	Nickname string     `json:"nickname" binding:"required,min=1,max=64"`
	ParentID *uuid.UUID `json:"parent_id"` // nil enrolls a root member
}

// ChangeRoleRequest overrides a member's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=CAPTAIN SILVER_LEADER GOLD_LEADER DIRECTOR AMBASSADOR"`
}

// DownlineResponse is a member plus its depth below the queried ancestor
type DownlineResponse struct {
	MemberResponse
	RelativeDepth int `json:"relative_depth"`
}

// PerformanceResponse represents computed period performance
type PerformanceResponse struct {
	MemberID      uuid.UUID        `json:"member_id"`
	Nickname      string           `json:"nickname"`
	Period        string           `json:"period"`
	Role          string           `json:"role"`
	PersonalSales decimal.Decimal  `json:"personal_sales"`
	TeamSales     decimal.Decimal  `json:"team_sales"`
	WeightedBase  decimal.Decimal  `json:"weighted_base"`
	Rate          decimal.Decimal  `json:"rate"`
	Commission    decimal.Decimal  `json:"commission"`
	DirectCount   int              `json:"direct_count"`
	Promotion     *PromotionStatus `json:"promotion,omitempty"`
	ComputedAt    time.Time        `json:"computed_at"`
}

// PromotionStatus reports eligibility for the next role
type PromotionStatus struct {
	NextRole          string          `json:"next_role"`
	Eligible          bool            `json:"eligible"`
	PersonalThreshold decimal.Decimal `json:"personal_threshold"`
	TeamThreshold     decimal.Decimal `json:"team_threshold"`
	MinDirects        int             `json:"min_directs"`
	PersonalMet       bool            `json:"personal_met"`
	TeamMet           bool            `json:"team_met"`
	DirectsMet        bool            `json:"directs_met"`
}

func toPerformanceResponse(m *team.Member, perf *team.Performance) *PerformanceResponse {
	resp := &PerformanceResponse{
		MemberID:      m.ID,
		Nickname:      m.Nickname,
		Period:        perf.Period.String(),
		Role:          perf.Role.String(),
		PersonalSales: perf.PersonalSales,
		TeamSales:     perf.TeamSales,
		WeightedBase:  perf.WeightedBase,
		Rate:          perf.Rate,
		Commission:    perf.Commission,
		DirectCount:   perf.DirectCount,
		ComputedAt:    time.Now(),
	}
	if perf.Promotion != nil {
		resp.Promotion = &PromotionStatus{
			NextRole:          perf.Promotion.NextRole.String(),
			Eligible:          perf.Promotion.Eligible,
			PersonalThreshold: perf.Promotion.PersonalThreshold,
			TeamThreshold:     perf.Promotion.TeamThreshold,
			MinDirects:        perf.Promotion.MinDirects,
			PersonalMet:       perf.Promotion.PersonalMet,
			TeamMet:           perf.Promotion.TeamMet,
			DirectsMet:        perf.Promotion.DirectsMet,
		}
	}
	return resp
}

// LeaderboardResponse is one ranked row of the period leaderboard
type LeaderboardResponse struct {
	Rank      int             `json:"rank"`
	MemberID  uuid.UUID       `json:"member_id"`
	Nickname  string          `json:"nickname"`
	Role      string          `json:"role"`
	TeamSales decimal.Decimal `json:"team_sales"`
}

func toLeaderboardResponses(entries []team.LeaderboardEntry) []LeaderboardResponse {
	out := make([]LeaderboardResponse, 0, len(entries))
	for _, e := range entries {
		id, err := uuid.Parse(e.MemberID)
		if err != nil {
			continue
		}
		out = append(out, LeaderboardResponse{
			Rank:      e.Rank,
			MemberID:  id,
			Nickname:  e.Nickname,
			Role:      e.Role.String(),
			TeamSales: e.TeamSales,
		})
	}
	return out
}

// CommissionResponse represents a commission record in API responses
type CommissionResponse struct {
	ID         uuid.UUID       `json:"id"`
	MemberID   uuid.UUID       `json:"member_id"`
	Period     string          `json:"period"`
	Role       string          `json:"role"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	Remark     string          `json:"remark,omitempty"`
	ReviewedBy *uuid.UUID      `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time      `json:"reviewed_at,omitempty"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToCommissionResponse converts a commission record to its response form
func ToCommissionResponse(c *team.CommissionRecord) CommissionResponse {
	return CommissionResponse{
		ID:         c.ID,
		MemberID:   c.MemberID,
		Period:     c.Period.String(),
		Role:       c.Role.String(),
		BaseAmount: c.BaseAmount,
		Rate:       c.Rate,
		Amount:     c.Amount,
		Status:     string(c.Status),
		Remark:     c.Remark,
		ReviewedBy: c.ReviewedBy,
		ReviewedAt: c.ReviewedAt,
		SettledAt:  c.SettledAt,
		CreatedAt:  c.CreatedAt,
	}
}

// ToCommissionResponses converts a slice of commission records
func ToCommissionResponses(records []*team.CommissionRecord) []CommissionResponse {
	out := make([]CommissionResponse, len(records))
	for i, c := range records {
		out[i] = ToCommissionResponse(c)
	}
	return out
}
