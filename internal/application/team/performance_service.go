package team

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.uber.org/zap"
)

// DefaultCacheTTL is how long computed performance results stay cached
const DefaultCacheTTL = 5 * time.Minute

// PerformanceCache is a TTL cache for computed performance results.
// Computation walks the whole downline, so repeated dashboard reads within
// the TTL reuse the cached result.
type PerformanceCache interface {
	Get(key string) (*PerformanceResponse, bool)
	Set(key string, value *PerformanceResponse, ttl time.Duration)
	// DeleteByPrefix drops every entry whose key starts with prefix.
	// Used to evict all cached periods of one member at once.
	DeleteByPrefix(prefix string)
}

// LeaderboardEntry is one scored member from the leaderboard store
type LeaderboardEntry struct {
	MemberID string
	Score    float64
}

// LeaderboardStore keeps per-period team sales rankings (Redis sorted sets)
type LeaderboardStore interface {
	// UpdateScore upserts the member's team sales score for the period
	UpdateScore(ctx context.Context, period string, memberID string, score float64) error
	// Top returns the highest scored members, best first
	Top(ctx context.Context, period string, limit int64) ([]LeaderboardEntry, error)
}

// TierProvider supplies the active commission tier table. The sysconfig-backed
// implementation allows overriding the compiled-in ladder at runtime.
type TierProvider interface {
	TierTable(ctx context.Context) team.TierTable
}

// StaticTierProvider always returns the built-in ladder
type StaticTierProvider struct{}

// TierTable returns the default tier table
func (StaticTierProvider) TierTable(context.Context) team.TierTable {
	return team.DefaultTierTable()
}

// PerformanceService computes period performance, maintains the leaderboard
// and generates commission records.
type PerformanceService struct {
	memberRepo     team.MemberRepository
	commissionRepo team.CommissionRecordRepository
	salesReader    team.SalesReader
	tierProvider   TierProvider
	cache          PerformanceCache
	leaderboard    LeaderboardStore
	weights        team.LevelWeights
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewPerformanceService creates a new PerformanceService
func NewPerformanceService(
	memberRepo team.MemberRepository,
	commissionRepo team.CommissionRecordRepository,
	salesReader team.SalesReader,
	logger *zap.Logger,
) *PerformanceService {
	return &PerformanceService{
		memberRepo:     memberRepo,
		commissionRepo: commissionRepo,
		salesReader:    salesReader,
		tierProvider:   StaticTierProvider{},
		weights:        team.DefaultLevelWeights(),
		cacheTTL:       DefaultCacheTTL,
		logger:         logger,
	}
}

// SetCache enables result caching
func (s *PerformanceService) SetCache(cache PerformanceCache, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetLeaderboard enables leaderboard score updates
func (s *PerformanceService) SetLeaderboard(store LeaderboardStore) {
	s.leaderboard = store
}

// SetTierProvider overrides the tier table source
func (s *PerformanceService) SetTierProvider(provider TierProvider) {
	s.tierProvider = provider
}

func memberCachePrefix(memberID uuid.UUID) string {
	return "perf:" + memberID.String() + ":"
}

func cacheKey(memberID uuid.UUID, period team.Period) string {
	return memberCachePrefix(memberID) + period.String()
}

// Compute derives the member's performance for a period. Results are cached
// for the configured TTL; pass fresh=true to bypass the cache.
func (s *PerformanceService) Compute(ctx context.Context, memberID uuid.UUID, period team.Period, fresh bool) (*PerformanceResponse, error) {
	key := cacheKey(memberID, period)
	if s.cache != nil && !fresh {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	perf, err := s.compute(ctx, member, period)
	if err != nil {
		return nil, err
	}

	response := toPerformanceResponse(member, perf)
	if s.cache != nil {
		s.cache.Set(key, response, s.cacheTTL)
	}
	if s.leaderboard != nil {
		score, _ := perf.TeamSales.Float64()
		if err := s.leaderboard.UpdateScore(ctx, period.String(), member.ID.String(), score); err != nil {
			s.logger.Warn("leaderboard update failed",
				zap.String("member_id", member.ID.String()), zap.Error(err))
		}
	}
	return response, nil
}

func (s *PerformanceService) compute(ctx context.Context, member *team.Member, period team.Period) (*team.Performance, error) {
	from, to := period.Bounds()

	downline, err := s.memberRepo.FindDownline(ctx, member)
	if err != nil {
		return nil, err
	}

	// Bucket downline member IDs by depth below the queried member.
	// Levels past the roll-up cutoff do not contribute and are skipped.
	depthOf := make(map[uuid.UUID]int, len(downline))
	ids := make([]uuid.UUID, 0, len(downline))
	for _, d := range downline {
		depth := d.DepthRelativeTo(member)
		if depth == 0 || depth > team.MaxRollupDepth {
			continue
		}
		depthOf[d.ID] = depth
		ids = append(ids, d.ID)
	}

	sales := team.SalesByDepth{}
	own, err := s.salesReader.SalesForMember(ctx, member.ID, from, to)
	if err != nil {
		return nil, err
	}
	sales[0] = own

	if len(ids) > 0 {
		totals, err := s.salesReader.SalesForMembers(ctx, ids, from, to)
		if err != nil {
			return nil, err
		}
		for _, t := range totals {
			depth := depthOf[t.MemberID]
			sales[depth] = sales[depth].Add(t.Total)
		}
	}

	directs, err := s.memberRepo.CountDirects(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	return team.ComputePerformance(member, period, sales, int(directs), s.weights, s.tierProvider.TierTable(ctx))
}

// Leaderboard returns the top members for a period. Ranks are dense: members
// with equal team sales share a rank. The sorted-set store serves reads when
// it is configured and reachable; otherwise the board is computed from the
// sales data directly.
func (s *PerformanceService) Leaderboard(ctx context.Context, period team.Period, limit int64) ([]LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	if s.leaderboard != nil {
		entries, err := s.leaderboard.Top(ctx, period.String(), limit)
		if err == nil {
			return s.rankStoreEntries(ctx, entries), nil
		}
		s.logger.Warn("leaderboard store read failed, computing from sales data",
			zap.String("period", period.String()), zap.Error(err))
	}
	return s.leaderboardFromSales(ctx, period, limit)
}

func (s *PerformanceService) rankStoreEntries(ctx context.Context, entries []LeaderboardEntry) []LeaderboardResponse {
	board := make([]team.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		id, err := uuid.Parse(entry.MemberID)
		if err != nil {
			continue
		}
		member, err := s.memberRepo.FindByID(ctx, id)
		if err != nil {
			s.logger.Warn("leaderboard member lookup failed",
				zap.String("member_id", entry.MemberID), zap.Error(err))
			continue
		}
		board = append(board, team.LeaderboardEntry{
			MemberID:  member.ID.String(),
			Nickname:  member.Nickname,
			Role:      member.Role,
			TeamSales: decimal.NewFromFloat(entry.Score),
		})
	}
	return toLeaderboardResponses(team.RankLeaderboard(board))
}

// leaderboardFromSales recomputes the ranking for every active member.
// This is the slow path, taken when no store is wired or a read fails.
func (s *PerformanceService) leaderboardFromSales(ctx context.Context, period team.Period, limit int64) ([]LeaderboardResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters["status"] = string(team.MemberStatusActive)

	board := make([]team.LeaderboardEntry, 0)
	for page := 1; ; page++ {
		filter.Page = page
		members, err := s.memberRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(members.Items) == 0 {
			break
		}

		for _, member := range members.Items {
			perf, err := s.compute(ctx, member, period)
			if err != nil {
				s.logger.Warn("leaderboard computation failed",
					zap.String("member_id", member.ID.String()),
					zap.String("period", period.String()),
					zap.Error(err))
				continue
			}
			board = append(board, team.LeaderboardEntry{
				MemberID:  member.ID.String(),
				Nickname:  member.Nickname,
				Role:      member.Role,
				TeamSales: perf.TeamSales,
			})
		}

		if page >= members.TotalPages {
			break
		}
	}

	sort.SliceStable(board, func(i, j int) bool {
		return board[i].TeamSales.GreaterThan(board[j].TeamSales)
	})
	if int64(len(board)) > limit {
		board = board[:limit]
	}
	return toLeaderboardResponses(team.RankLeaderboard(board)), nil
}

// GenerateCommissions creates pending commission records for every active
// member for the period. Members that already have a record are skipped, so
// the operation can be re-run safely.
func (s *PerformanceService) GenerateCommissions(ctx context.Context, period team.Period) (int, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters["status"] = string(team.MemberStatusActive)

	created := 0
	for page := 1; ; page++ {
		filter.Page = page
		members, err := s.memberRepo.List(ctx, filter)
		if err != nil {
			return created, err
		}
		if len(members.Items) == 0 {
			break
		}

		for _, member := range members.Items {
			if existing, err := s.commissionRepo.FindByMemberAndPeriod(ctx, member.ID, period); err == nil && existing != nil {
				continue
			}

			perf, err := s.compute(ctx, member, period)
			if err != nil {
				s.logger.Error("commission computation failed",
					zap.String("member_id", member.ID.String()),
					zap.String("period", period.String()),
					zap.Error(err))
				continue
			}

			record, err := team.NewCommissionRecord(member.ID, period, member.Role, perf.WeightedBase, perf.Rate)
			if err != nil {
				return created, err
			}
			if err := s.commissionRepo.Save(ctx, record); err != nil {
				return created, err
			}
			record.ClearDomainEvents()
			created++
		}

		if page >= members.TotalPages {
			break
		}
	}

	s.logger.Info("commission generation completed",
		zap.String("period", period.String()), zap.Int("created", created))
	return created, nil
}

// ApplyPromotion promotes the member one tier if the period performance meets
// the next tier's thresholds.
func (s *PerformanceService) ApplyPromotion(ctx context.Context, memberID uuid.UUID, period team.Period) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	perf, err := s.compute(ctx, member, period)
	if err != nil {
		return nil, err
	}
	if perf.Promotion == nil || !perf.Promotion.Eligible {
		return nil, shared.ErrNotEligible
	}

	if err := member.Promote(); err != nil {
		return nil, err
	}
	if err := s.memberRepo.SaveWithLock(ctx, member); err != nil {
		return nil, err
	}
	if s.cache != nil {
		// The new rate applies to every period read from here on
		s.cache.DeleteByPrefix(memberCachePrefix(member.ID))
	}

	response := ToMemberResponse(member)
	return &response, nil
}
