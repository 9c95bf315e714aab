package inventory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
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

// MockStockRepository is a mock implementation of StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) FindByWarehouseAndProduct(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	args := m.Called(ctx, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) FindByWarehouseAndProductWithBatches(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	args := m.Called(ctx, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.Stock, error) {
	args := m.Called(ctx, warehouseID, filter)
	return args.Get(0).([]inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Stock, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Stock, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) GetOrCreate(ctx context.Context, warehouseID, productID uuid.UUID) (*inventory.Stock, error) {
	args := m.Called(ctx, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Stock), args.Error(1)
}

func (m *MockStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) SaveWithLock(ctx context.Context, stock *inventory.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *MockStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockStockBatchRepository is a mock implementation of StockBatchRepository
type MockStockBatchRepository struct {
	mock.Mock
}

func (m *MockStockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindByStock(ctx context.Context, stockID uuid.UUID) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, stockID)
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) FindExpiringBefore(ctx context.Context, deadline time.Time) ([]inventory.StockBatch, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]inventory.StockBatch), args.Error(1)
}

func (m *MockStockBatchRepository) Save(ctx context.Context, batch *inventory.StockBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockStockBatchRepository) SaveAll(ctx context.Context, batches []*inventory.StockBatch) error {
	args := m.Called(ctx, batches)
	return args.Error(0)
}

// MockInventoryLogRepository is a mock implementation of InventoryLogRepository
type MockInventoryLogRepository struct {
	mock.Mock
}

func (m *MockInventoryLogRepository) Save(ctx context.Context, log *inventory.InventoryLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockInventoryLogRepository) SaveAll(ctx context.Context, logs []*inventory.InventoryLog) error {
	args := m.Called(ctx, logs)
	return args.Error(0)
}

func (m *MockInventoryLogRepository) FindByStock(ctx context.Context, stockID uuid.UUID, filter shared.Filter) ([]inventory.InventoryLog, error) {
	args := m.Called(ctx, stockID, filter)
	return args.Get(0).([]inventory.InventoryLog), args.Error(1)
}

func (m *MockInventoryLogRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryLog, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryLog), args.Error(1)
}

func (m *MockInventoryLogRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockInventoryAlertRepository is a mock implementation of InventoryAlertRepository
type MockInventoryAlertRepository struct {
	mock.Mock
}

func (m *MockInventoryAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryAlert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryAlert), args.Error(1)
}

func (m *MockInventoryAlertRepository) FindActive(ctx context.Context, filter shared.Filter) ([]inventory.InventoryAlert, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryAlert), args.Error(1)
}

func (m *MockInventoryAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryAlert, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.InventoryAlert), args.Error(1)
}

func (m *MockInventoryAlertRepository) HasActiveAlert(ctx context.Context, stockID uuid.UUID, alertType inventory.AlertType, batchNumber string) (bool, error) {
	args := m.Called(ctx, stockID, alertType, batchNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryAlertRepository) Save(ctx context.Context, alert *inventory.InventoryAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockInventoryAlertRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockWarehouseRepository is a mock implementation of WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByCode(ctx context.Context, code string) (*inventory.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Warehouse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindByTier(ctx context.Context, tier inventory.WarehouseTier, filter shared.Filter) ([]inventory.Warehouse, error) {
	args := m.Called(ctx, tier, filter)
	return args.Get(0).([]inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
