package team

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func buildTree(t *testing.T) (root, l1, l2, l3 *team.Member) {
	t.Helper()
	var err error
	root, err = team.NewMember(uuid.New(), "root")
	require.NoError(t, err)
	l1, err = team.NewMemberUnder(uuid.New(), "l1", root)
	require.NoError(t, err)
	l2, err = team.NewMemberUnder(uuid.New(), "l2", l1)
	require.NoError(t, err)
	l3, err = team.NewMemberUnder(uuid.New(), "l3", l2)
	require.NoError(t, err)
	for _, m := range []*team.Member{root, l1, l2, l3} {
		m.ClearDomainEvents()
	}
	return root, l1, l2, l3
}

func newPerfFixture() (*PerformanceService, *MockMemberRepository, *MockCommissionRepository, *MockSalesReader) {
	members := new(MockMemberRepository)
	commissions := new(MockCommissionRepository)
	sales := new(MockSalesReader)
	service := NewPerformanceService(members, commissions, sales, zap.NewNop())
	return service, members, commissions, sales
}

func TestPerformanceService_Compute(t *testing.T) {
	period := team.Period("2026-08")

	t.Run("rolls up downline sales by depth weight", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		root, l1, l2, l3 := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{l1, l2, l3}, nil)
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(1), nil)
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(1000), nil)
		sales.On("SalesForMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]team.MemberSales{
				{MemberID: l1.ID, Total: decimal.NewFromInt(2000)},
				{MemberID: l2.ID, Total: decimal.NewFromInt(4000)},
				{MemberID: l3.ID, Total: decimal.NewFromInt(8000)},
			}, nil)

		resp, err := service.Compute(context.Background(), root.ID, period, false)

		require.NoError(t, err)
		// 2000*1.0 + 4000*0.5 + 8000*0.25 = 6000
		assert.True(t, resp.TeamSales.Equal(decimal.NewFromInt(6000)), "got %s", resp.TeamSales)
		assert.True(t, resp.WeightedBase.Equal(decimal.NewFromInt(7000)))
		// captain rate 0.05
		assert.True(t, resp.Commission.Equal(decimal.NewFromInt(350)), "got %s", resp.Commission)
	})

	t.Run("serves repeated reads from the cache", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		cache := newFakeCache()
		service.SetCache(cache, time.Minute)
		root, _, _, _ := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil).Once()
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{}, nil).Once()
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(0), nil).Once()
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(500), nil).Once()

		first, err := service.Compute(context.Background(), root.ID, period, false)
		require.NoError(t, err)

		second, err := service.Compute(context.Background(), root.ID, period, false)
		require.NoError(t, err)

		assert.Same(t, first, second)
		members.AssertExpectations(t)
	})

	t.Run("fresh flag bypasses the cache", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		cache := newFakeCache()
		service.SetCache(cache, time.Minute)
		root, _, _, _ := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil).Twice()
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{}, nil).Twice()
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(0), nil).Twice()
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(500), nil).Twice()

		_, err := service.Compute(context.Background(), root.ID, period, false)
		require.NoError(t, err)
		_, err = service.Compute(context.Background(), root.ID, period, true)
		require.NoError(t, err)

		members.AssertExpectations(t)
	})

	t.Run("updates the leaderboard with team sales", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		board := newFakeLeaderboard()
		service.SetLeaderboard(board)
		root, l1, _, _ := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{l1}, nil)
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(1), nil)
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.Zero, nil)
		sales.On("SalesForMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]team.MemberSales{{MemberID: l1.ID, Total: decimal.NewFromInt(300)}}, nil)

		_, err := service.Compute(context.Background(), root.ID, period, false)
		require.NoError(t, err)

		top, err := board.Top(context.Background(), period.String(), 10)
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, root.ID.String(), top[0].MemberID)
		assert.Equal(t, 300.0, top[0].Score)
	})
}

// failingLeaderboard refuses every read, simulating an unreachable store
type failingLeaderboard struct{}

func (failingLeaderboard) UpdateScore(context.Context, string, string, float64) error {
	return nil
}

func (failingLeaderboard) Top(context.Context, string, int64) ([]LeaderboardEntry, error) {
	return nil, context.DeadlineExceeded
}

func TestPerformanceService_Leaderboard(t *testing.T) {
	period := team.Period("2026-08")

	t.Run("members with tied team sales share a rank", func(t *testing.T) {
		service, members, _, _ := newPerfFixture()
		board := newFakeLeaderboard()
		service.SetLeaderboard(board)

		a, err := team.NewMember(uuid.New(), "alice")
		require.NoError(t, err)
		b, err := team.NewMember(uuid.New(), "bob")
		require.NoError(t, err)
		c, err := team.NewMember(uuid.New(), "carol")
		require.NoError(t, err)

		require.NoError(t, board.UpdateScore(context.Background(), period.String(), a.ID.String(), 1000))
		require.NoError(t, board.UpdateScore(context.Background(), period.String(), b.ID.String(), 1000))
		require.NoError(t, board.UpdateScore(context.Background(), period.String(), c.ID.String(), 500))

		members.On("FindByID", mock.Anything, a.ID).Return(a, nil)
		members.On("FindByID", mock.Anything, b.ID).Return(b, nil)
		members.On("FindByID", mock.Anything, c.ID).Return(c, nil)

		out, err := service.Leaderboard(context.Background(), period, 10)

		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 1, out[0].Rank)
		assert.Equal(t, out[0].Rank, out[1].Rank)
		assert.Equal(t, 2, out[2].Rank)
		assert.Equal(t, c.ID, out[2].MemberID)
	})

	t.Run("computes from sales data when no store is configured", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		root, l1, _, _ := buildTree(t)
		solo, err := team.NewMember(uuid.New(), "solo")
		require.NoError(t, err)

		page := shared.NewPaginated([]*team.Member{root, solo}, 2, 1, 200)
		members.On("List", mock.Anything, mock.Anything).Return(&page, nil)

		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{l1}, nil)
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(1), nil)
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(100), nil)
		sales.On("SalesForMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]team.MemberSales{{MemberID: l1.ID, Total: decimal.NewFromInt(300)}}, nil)

		members.On("FindDownline", mock.Anything, solo).Return([]*team.Member{}, nil)
		members.On("CountDirects", mock.Anything, solo.ID).Return(int64(0), nil)
		sales.On("SalesForMember", mock.Anything, solo.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(50), nil)

		out, err := service.Leaderboard(context.Background(), period, 10)

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, root.ID, out[0].MemberID)
		assert.Equal(t, 1, out[0].Rank)
		assert.True(t, out[0].TeamSales.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, solo.ID, out[1].MemberID)
		assert.Equal(t, 2, out[1].Rank)
	})

	t.Run("falls back to sales data when the store read fails", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		service.SetLeaderboard(failingLeaderboard{})
		solo, err := team.NewMember(uuid.New(), "solo")
		require.NoError(t, err)

		page := shared.NewPaginated([]*team.Member{solo}, 1, 1, 200)
		members.On("List", mock.Anything, mock.Anything).Return(&page, nil)
		members.On("FindDownline", mock.Anything, solo).Return([]*team.Member{}, nil)
		members.On("CountDirects", mock.Anything, solo.ID).Return(int64(0), nil)
		sales.On("SalesForMember", mock.Anything, solo.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(50), nil)

		out, err := service.Leaderboard(context.Background(), period, 10)

		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, solo.ID, out[0].MemberID)
		assert.Equal(t, 1, out[0].Rank)
	})
}

func TestPerformanceService_RoleChangeInvalidatesCache(t *testing.T) {
	period := team.Period("2026-08")

	service, members, _, sales := newPerfFixture()
	perfCache := newFakeCache()
	service.SetCache(perfCache, time.Minute)

	audits := new(MockAuditLogRepository)
	teamService := NewTeamService(members, audits, zap.NewNop())
	teamService.SetEventPublisher(newForwardingPublisher(NewPerformanceCacheInvalidator(perfCache, zap.NewNop())))

	root, _, _, _ := buildTree(t)

	members.On("FindByID", mock.Anything, root.ID).Return(root, nil)
	members.On("FindDownline", mock.Anything, root).Return([]*team.Member{}, nil)
	members.On("CountDirects", mock.Anything, root.ID).Return(int64(0), nil)
	sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
		Return(decimal.NewFromInt(500), nil)
	members.On("SaveWithLock", mock.Anything, root).Return(nil)
	audits.On("Save", mock.Anything, mock.Anything).Return(nil)

	first, err := service.Compute(context.Background(), root.ID, period, false)
	require.NoError(t, err)
	assert.Equal(t, team.RoleCaptain.String(), first.Role)

	_, err = teamService.ChangeRole(context.Background(), testActor(), root.ID, ChangeRoleRequest{Role: "DIRECTOR"})
	require.NoError(t, err)

	second, err := service.Compute(context.Background(), root.ID, period, false)
	require.NoError(t, err)
	assert.Equal(t, team.RoleDirector.String(), second.Role)
}

func TestPerformanceService_GenerateCommissions(t *testing.T) {
	period := team.Period("2026-07")

	t.Run("creates pending records and skips existing ones", func(t *testing.T) {
		service, members, commissions, sales := newPerfFixture()
		root, l1, _, _ := buildTree(t)

		page := shared.NewPaginated([]*team.Member{root, l1}, 2, 1, 200)
		members.On("List", mock.Anything, mock.Anything).Return(&page, nil)

		// root already has a record for the period
		existing, err := team.NewCommissionRecord(root.ID, period, root.Role, decimal.NewFromInt(1), decimal.NewFromInt(0))
		require.NoError(t, err)
		commissions.On("FindByMemberAndPeriod", mock.Anything, root.ID, period).Return(existing, nil)
		commissions.On("FindByMemberAndPeriod", mock.Anything, l1.ID, period).Return(nil, shared.ErrNotFound)

		members.On("FindDownline", mock.Anything, l1).Return([]*team.Member{}, nil)
		members.On("CountDirects", mock.Anything, l1.ID).Return(int64(0), nil)
		sales.On("SalesForMember", mock.Anything, l1.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(2000), nil)
		commissions.On("Save", mock.Anything, mock.MatchedBy(func(c *team.CommissionRecord) bool {
			return c.MemberID == l1.ID && c.Status == team.CommissionPending &&
				c.Amount.Equal(decimal.NewFromInt(100)) // 2000 * 0.05
		})).Return(nil)

		created, err := service.GenerateCommissions(context.Background(), period)

		require.NoError(t, err)
		assert.Equal(t, 1, created)
		commissions.AssertExpectations(t)
	})
}

func TestPerformanceService_ApplyPromotion(t *testing.T) {
	period := team.Period("2026-08")

	t.Run("promotes an eligible member", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		root, l1, _, _ := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{l1}, nil)
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(3), nil)
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(6000), nil)
		sales.On("SalesForMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return([]team.MemberSales{{MemberID: l1.ID, Total: decimal.NewFromInt(25000)}}, nil)
		members.On("SaveWithLock", mock.Anything, root).Return(nil)

		resp, err := service.ApplyPromotion(context.Background(), root.ID, period)

		require.NoError(t, err)
		assert.Equal(t, team.RoleSilverLeader.String(), resp.Role)
	})

	t.Run("rejects a member that misses the thresholds", func(t *testing.T) {
		service, members, _, sales := newPerfFixture()
		root, _, _, _ := buildTree(t)

		members.On("FindByID", mock.Anything, root.ID).Return(root, nil)
		members.On("FindDownline", mock.Anything, root).Return([]*team.Member{}, nil)
		members.On("CountDirects", mock.Anything, root.ID).Return(int64(0), nil)
		sales.On("SalesForMember", mock.Anything, root.ID, mock.Anything, mock.Anything).
			Return(decimal.NewFromInt(100), nil)

		_, err := service.ApplyPromotion(context.Background(), root.ID, period)

		require.ErrorIs(t, err, shared.ErrNotEligible)
		members.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}
