package admin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/sysconfig"
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

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*identity.User], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*identity.User]), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
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

// MockCommissionRepository is a mock implementation of team.CommissionRecordRepository
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

// MockConfigRepository is a mock implementation of sysconfig.ConfigRepository
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) FindByID(ctx context.Context, id uuid.UUID) (*sysconfig.ConfigEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sysconfig.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sysconfig.ConfigEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sysconfig.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) Save(ctx context.Context, entry *sysconfig.ConfigEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockConfigRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockConfigRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockConfigRepository) FindByGroupAndKey(ctx context.Context, group, key string) (*sysconfig.ConfigEntry, error) {
	args := m.Called(ctx, group, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sysconfig.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) FindByGroup(ctx context.Context, group string) ([]*sysconfig.ConfigEntry, error) {
	args := m.Called(ctx, group)
	return args.Get(0).([]*sysconfig.ConfigEntry), args.Error(1)
}

func (m *MockConfigRepository) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*sysconfig.ConfigEntry], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[*sysconfig.ConfigEntry]), args.Error(1)
}

func (m *MockConfigRepository) Upsert(ctx context.Context, entry *sysconfig.ConfigEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// fakeTokenIssuer issues deterministic tokens for tests
type fakeTokenIssuer struct {
	issued int
}

func (f *fakeTokenIssuer) Issue(user *identity.User) (*TokenPair, error) {
	f.issued++
	return &TokenPair{
		AccessToken:  "access-" + user.Username,
		RefreshToken: "refresh-" + user.ID.String(),
		TokenID:      uuid.NewString(),
		ExpiresIn:    900,
	}, nil
}

func (f *fakeTokenIssuer) VerifyRefresh(token string) (string, string, error) {
	if len(token) > 8 && token[:8] == "refresh-" {
		return token[8:], "tid-1", nil
	}
	return "", "", shared.ErrUnauthorized
}

// fakeBlacklist tracks revoked token IDs in memory
type fakeBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{revoked: make(map[string]bool)}
}

func (b *fakeBlacklist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = true
	return nil
}

func (b *fakeBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[tokenID], nil
}

// fakeArchiver records archived documents in memory
type fakeArchiver struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newFakeArchiver() *fakeArchiver {
	return &fakeArchiver{docs: make(map[string][]byte)}
}

func (a *fakeArchiver) Archive(_ context.Context, key string, data []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docs[key] = data
	return "memory://" + key, nil
}
