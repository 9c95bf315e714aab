package team

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// forwardingPublisher dispatches published events straight to the given
// handlers, standing in for the process event bus
type forwardingPublisher struct {
	handlers []shared.EventHandler
}

func newForwardingPublisher(handlers ...shared.EventHandler) *forwardingPublisher {
	return &forwardingPublisher{handlers: handlers}
}

func (p *forwardingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, h := range p.handlers {
			for _, eventType := range h.EventTypes() {
				if eventType == evt.EventType() {
					_ = h.Handle(ctx, evt)
				}
			}
		}
	}
	return nil
}

// MockAuditLogRepository is a mock implementation of identity.AuditLogRepository
type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Save(ctx context.Context, entry *identity.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.AuditLog], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.AuditLog]), args.Error(1)
}

func (m *MockAuditLogRepository) FindByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[*identity.AuditLog], error) {
	args := m.Called(ctx, actorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.AuditLog]), args.Error(1)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]team.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]team.Member), args.Error(1)
}

func (m *MockMemberRepository) Save(ctx context.Context, member *team.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemberRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*team.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByParentID(ctx context.Context, parentID uuid.UUID) ([]*team.Member, error) {
	args := m.Called(ctx, parentID)
	return args.Get(0).([]*team.Member), args.Error(1)
}

func (m *MockMemberRepository) FindDownline(ctx context.Context, ancestor *team.Member) ([]*team.Member, error) {
	args := m.Called(ctx, ancestor)
	return args.Get(0).([]*team.Member), args.Error(1)
}

func (m *MockMemberRepository) CountDirects(ctx context.Context, memberID uuid.UUID) (int64, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*team.Member], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*team.Member]), args.Error(1)
}

func (m *MockMemberRepository) SaveWithLock(ctx context.Context, member *team.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

// MockCommissionRepository is a mock implementation of CommissionRecordRepository
type MockCommissionRepository struct {
	mock.Mock
}

func (m *MockCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*team.CommissionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]team.CommissionRecord, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]team.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) Save(ctx context.Context, record *team.CommissionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockCommissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommissionRepository) FindByMemberAndPeriod(ctx context.Context, memberID uuid.UUID, period team.Period) (*team.CommissionRecord, error) {
	args := m.Called(ctx, memberID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*team.CommissionRecord), args.Error(1)
}

func (m *MockCommissionRepository) FindByPeriod(ctx context.Context, period team.Period, filter shared.Filter) (*shared.Paginated[*team.CommissionRecord], error) {
	args := m.Called(ctx, period, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*team.CommissionRecord]), args.Error(1)
}

func (m *MockCommissionRepository) FindByStatus(ctx context.Context, status team.CommissionStatus, filter shared.Filter) (*shared.Paginated[*team.CommissionRecord], error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*team.CommissionRecord]), args.Error(1)
}

func (m *MockCommissionRepository) SumAmountByPeriod(ctx context.Context, period team.Period) (decimal.Decimal, error) {
	args := m.Called(ctx, period)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCommissionRepository) SaveWithLock(ctx context.Context, record *team.CommissionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockSalesReader is a mock implementation of SalesReader
type MockSalesReader struct {
	mock.Mock
}

func (m *MockSalesReader) SalesForMember(ctx context.Context, memberID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSalesReader) SalesForMembers(ctx context.Context, memberIDs []uuid.UUID, from, to time.Time) ([]team.MemberSales, error) {
	args := m.Called(ctx, memberIDs, from, to)
	return args.Get(0).([]team.MemberSales), args.Error(1)
}

// fakeCache is an in-memory PerformanceCache without expiry
type fakeCache struct {
	mu    sync.Mutex
	items map[string]*PerformanceResponse
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]*PerformanceResponse)}
}

func (c *fakeCache) Get(key string) (*PerformanceResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value *PerformanceResponse, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *fakeCache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// fakeLeaderboard records score updates in memory
type fakeLeaderboard struct {
	mu     sync.Mutex
	scores map[string]map[string]float64
}

func newFakeLeaderboard() *fakeLeaderboard {
	return &fakeLeaderboard{scores: make(map[string]map[string]float64)}
}

func (l *fakeLeaderboard) UpdateScore(_ context.Context, period, memberID string, score float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.scores[period] == nil {
		l.scores[period] = make(map[string]float64)
	}
	l.scores[period][memberID] = score
	return nil
}

func (l *fakeLeaderboard) Top(_ context.Context, period string, limit int64) ([]LeaderboardEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := make([]LeaderboardEntry, 0, len(l.scores[period]))
	for id, score := range l.scores[period] {
		entries = append(entries, LeaderboardEntry{MemberID: id, Score: score})
	}
	// insertion sort, highest score first
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Score > entries[j-1].Score; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
	if int64(len(entries)) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
