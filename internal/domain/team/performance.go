package team

import (
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// MaxRollupDepth is how many downline levels count toward team sales
const MaxRollupDepth = 3

// LevelWeights maps downline depth to its weight in the team sales roll-up.
// Depth 0 is the member's own sales.
type LevelWeights map[int]decimal.Decimal

// DefaultLevelWeights returns the built-in roll-up weights: direct recruits
// count fully, level 2 at half, level 3 at a quarter, deeper levels not at all.
func DefaultLevelWeights() LevelWeights {
	return LevelWeights{
		0: decimal.NewFromInt(1),
		1: decimal.NewFromInt(1),
		2: decimal.RequireFromString("0.5"),
		3: decimal.RequireFromString("0.25"),
	}
}

// WeightFor returns the weight for a downline depth, zero beyond the cutoff
func (w LevelWeights) WeightFor(depth int) decimal.Decimal {
	if weight, ok := w[depth]; ok {
		return weight
	}
	return decimal.Zero
}

// Performance is the computed result for one member and period
type Performance struct {
	MemberID      string          `json:"member_id"`
	Period        Period          `json:"period"`
	Role          Role            `json:"role"`
	PersonalSales decimal.Decimal `json:"personal_sales"`
	TeamSales     decimal.Decimal `json:"team_sales"`    // weighted downline roll-up, excluding personal
	WeightedBase  decimal.Decimal `json:"weighted_base"` // personal + weighted team sales
	Rate          decimal.Decimal `json:"rate"`
	Commission    decimal.Decimal `json:"commission"`
	DirectCount   int             `json:"direct_count"`
	Promotion     *PromotionCheck `json:"promotion,omitempty"`
}

// PromotionCheck reports eligibility for the next role on the ladder
type PromotionCheck struct {
	NextRole          Role            `json:"next_role"`
	Eligible          bool            `json:"eligible"`
	PersonalThreshold decimal.Decimal `json:"personal_threshold"`
	TeamThreshold     decimal.Decimal `json:"team_threshold"`
	MinDirects        int             `json:"min_directs"`
	PersonalMet       bool            `json:"personal_met"`
	TeamMet           bool            `json:"team_met"`
	DirectsMet        bool            `json:"directs_met"`
}

// SalesByDepth holds the aggregated order totals per downline depth.
// Depth 0 is the member's own sales; each order attributes to exactly one
// member, so levels never double-count.
type SalesByDepth map[int]decimal.Decimal

// ComputePerformance derives the period performance of a member from the
// per-depth sales aggregates and the tier table.
func ComputePerformance(member *Member, period Period, sales SalesByDepth, directCount int, weights LevelWeights, tiers TierTable) (*Performance, error) {
	if member == nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member is required")
	}
	tier, err := tiers.TierFor(member.Role)
	if err != nil {
		return nil, err
	}

	personal := sales[0]
	team := decimal.Zero
	for depth := 1; depth <= MaxRollupDepth; depth++ {
		team = team.Add(sales[depth].Mul(weights.WeightFor(depth)))
	}
	base := personal.Mul(weights.WeightFor(0)).Add(team)

	perf := &Performance{
		MemberID:      member.ID.String(),
		Period:        period,
		Role:          member.Role,
		PersonalSales: personal,
		TeamSales:     team,
		WeightedBase:  base,
		Rate:          tier.Rate,
		Commission:    base.Mul(tier.Rate).Round(4),
		DirectCount:   directCount,
	}

	if next := member.Role.Next(); next != "" {
		nextTier, err := tiers.TierFor(next)
		if err != nil {
			return nil, err
		}
		check := &PromotionCheck{
			NextRole:          next,
			PersonalThreshold: nextTier.PersonalThreshold,
			TeamThreshold:     nextTier.TeamThreshold,
			MinDirects:        nextTier.MinDirects,
			PersonalMet:       personal.GreaterThanOrEqual(nextTier.PersonalThreshold),
			TeamMet:           team.GreaterThanOrEqual(nextTier.TeamThreshold),
			DirectsMet:        directCount >= nextTier.MinDirects,
		}
		check.Eligible = check.PersonalMet && check.TeamMet && check.DirectsMet
		perf.Promotion = check
	}

	return perf, nil
}

// LeaderboardEntry is one row of the period leaderboard
type LeaderboardEntry struct {
	MemberID  string          `json:"member_id"`
	Nickname  string          `json:"nickname"`
	Role      Role            `json:"role"`
	TeamSales decimal.Decimal `json:"team_sales"`
	Rank      int             `json:"rank"`
}

// RankLeaderboard assigns dense ranks to entries sorted by team sales
// descending. Entries with equal sales share a rank.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	rank := 0
	var prev *decimal.Decimal
	for i := range entries {
		if prev == nil || !entries[i].TeamSales.Equal(*prev) {
			rank++
			v := entries[i].TeamSales
			prev = &v
		}
		entries[i].Rank = rank
	}
	return entries
}
