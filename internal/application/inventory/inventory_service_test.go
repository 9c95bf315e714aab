package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	service    *InventoryService
	stocks     *MockStockRepository
	batches    *MockStockBatchRepository
	logs       *MockInventoryLogRepository
	alerts     *MockInventoryAlertRepository
	warehouses *MockWarehouseRepository
	publisher  *MockEventPublisher
}

func newServiceFixture() *serviceFixture {
	stocks := new(MockStockRepository)
	batches := new(MockStockBatchRepository)
	logs := new(MockInventoryLogRepository)
	alerts := new(MockInventoryAlertRepository)
	warehouses := new(MockWarehouseRepository)
	publisher := NewMockEventPublisher()

	scope := NewNoOpTransactionScope(stocks, batches, logs, alerts)
	service := NewInventoryService(scope, stocks, logs, warehouses)
	service.SetEventPublisher(publisher)

	return &serviceFixture{
		service:    service,
		stocks:     stocks,
		batches:    batches,
		logs:       logs,
		alerts:     alerts,
		warehouses: warehouses,
		publisher:  publisher,
	}
}

func activeWarehouse(t *testing.T, tier inventory.WarehouseTier) *inventory.Warehouse {
	t.Helper()
	var owner *uuid.UUID
	if tier != inventory.TierPlatform {
		id := uuid.New()
		owner = &id
	}
	w, err := inventory.NewWarehouse("wh-"+string(tier), "WH-"+uuid.NewString()[:8], tier, owner)
	require.NoError(t, err)
	return w
}

func stockWith(t *testing.T, warehouseID, productID uuid.UUID, quantity int64) *inventory.Stock {
	t.Helper()
	s, err := inventory.NewStock(warehouseID, productID)
	require.NoError(t, err)
	if quantity > 0 {
		_, err = s.StockIn(decimal.NewFromInt(quantity), decimal.NewFromInt(10), &inventory.BatchInfo{
			BatchNumber: inventory.GenerateBatchNumber(),
		})
		require.NoError(t, err)
		s.ClearDomainEvents()
	}
	return s
}

func TestInventoryService_StockIn(t *testing.T) {
	t.Run("receives stock and records the movement", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierPlatform)
		productID := uuid.New()
		stock := stockWith(t, wh.ID, productID, 0)

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
		f.stocks.On("GetOrCreate", mock.Anything, wh.ID, productID).Return(stock, nil)
		f.stocks.On("SaveWithLock", mock.Anything, stock).Return(nil)
		f.batches.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockBatch")).Return(nil)
		f.logs.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InventoryLog")).Return(nil)

		resp, err := f.service.StockIn(context.Background(), StockInRequest{
			WarehouseID: wh.ID,
			ProductID:   productID,
			Quantity:    decimal.NewFromInt(100),
			UnitCost:    decimal.NewFromInt(15),
			Reference:   "PO-1001",
		})

		require.NoError(t, err)
		assert.True(t, resp.Quantity.Equal(decimal.NewFromInt(100)))
		assert.True(t, resp.UnitCost.Equal(decimal.NewFromInt(15)))
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeStockIn), 1)
		f.stocks.AssertExpectations(t)
		f.batches.AssertExpectations(t)
		f.logs.AssertExpectations(t)
	})

	t.Run("rejects disabled warehouses", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierPlatform)
		wh.Disable()

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)

		_, err := f.service.StockIn(context.Background(), StockInRequest{
			WarehouseID: wh.ID,
			ProductID:   uuid.New(),
			Quantity:    decimal.NewFromInt(10),
			UnitCost:    decimal.NewFromInt(1),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "WAREHOUSE_DISABLED", domainErr.Code)
	})
}

func TestInventoryService_StockOut(t *testing.T) {
	t.Run("reduces quantity and drains batches", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierLocal)
		productID := uuid.New()
		stock := stockWith(t, wh.ID, productID, 100)

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
		f.stocks.On("FindByWarehouseAndProductWithBatches", mock.Anything, wh.ID, productID).Return(stock, nil)
		f.stocks.On("SaveWithLock", mock.Anything, stock).Return(nil)
		f.batches.On("SaveAll", mock.Anything, mock.Anything).Return(nil)
		f.logs.On("SaveAll", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service.StockOut(context.Background(), StockOutRequest{
			WarehouseID: wh.ID,
			ProductID:   productID,
			Quantity:    decimal.NewFromInt(40),
			Reference:   "SO-2001",
		})

		require.NoError(t, err)
		assert.True(t, resp.Stock.Quantity.Equal(decimal.NewFromInt(60)))
		assert.True(t, resp.Stock.AvailableQuantity.Equal(decimal.NewFromInt(60)))
		require.Len(t, resp.Deductions, 1)
		assert.True(t, resp.Deductions[0].Quantity.Equal(decimal.NewFromInt(40)))
	})

	t.Run("fails when available quantity cannot cover the request", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierLocal)
		productID := uuid.New()
		stock := stockWith(t, wh.ID, productID, 10)

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
		f.stocks.On("FindByWarehouseAndProductWithBatches", mock.Anything, wh.ID, productID).Return(stock, nil)

		_, err := f.service.StockOut(context.Background(), StockOutRequest{
			WarehouseID: wh.ID,
			ProductID:   productID,
			Quantity:    decimal.NewFromInt(50),
		})

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("reserved stock is not available for outbound", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierLocal)
		productID := uuid.New()
		stock := stockWith(t, wh.ID, productID, 100)
		require.NoError(t, stock.Reserve(decimal.NewFromInt(80)))

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
		f.stocks.On("FindByWarehouseAndProductWithBatches", mock.Anything, wh.ID, productID).Return(stock, nil)

		_, err := f.service.StockOut(context.Background(), StockOutRequest{
			WarehouseID: wh.ID,
			ProductID:   productID,
			Quantity:    decimal.NewFromInt(30),
		})

		require.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestInventoryService_Transfer(t *testing.T) {
	t.Run("moves stock along an allowed route", func(t *testing.T) {
		f := newServiceFixture()
		platform := activeWarehouse(t, inventory.TierPlatform)
		cloud := activeWarehouse(t, inventory.TierCloud)
		productID := uuid.New()
		source := stockWith(t, platform.ID, productID, 100)
		target := stockWith(t, cloud.ID, productID, 0)

		f.warehouses.On("FindByID", mock.Anything, platform.ID).Return(platform, nil)
		f.warehouses.On("FindByID", mock.Anything, cloud.ID).Return(cloud, nil)
		f.stocks.On("FindByWarehouseAndProductWithBatches", mock.Anything, platform.ID, productID).Return(source, nil)
		f.stocks.On("GetOrCreate", mock.Anything, cloud.ID, productID).Return(target, nil)
		f.stocks.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.Stock")).Return(nil)
		f.batches.On("FindByID", mock.Anything, mock.Anything).Return(&source.Batches[0], nil)
		f.batches.On("SaveAll", mock.Anything, mock.Anything).Return(nil)
		f.logs.On("SaveAll", mock.Anything, mock.MatchedBy(func(logs []*inventory.InventoryLog) bool {
			return len(logs) == 2 &&
				logs[0].Kind == inventory.MovementTransferOut &&
				logs[1].Kind == inventory.MovementTransferIn
		})).Return(nil)

		resp, err := f.service.Transfer(context.Background(), TransferRequest{
			FromWarehouseID: platform.ID,
			ToWarehouseID:   cloud.ID,
			ProductID:       productID,
			Quantity:        decimal.NewFromInt(30),
		})

		require.NoError(t, err)
		assert.True(t, resp.From.Quantity.Equal(decimal.NewFromInt(70)))
		assert.True(t, resp.To.Quantity.Equal(decimal.NewFromInt(30)))
		f.logs.AssertExpectations(t)
	})

	t.Run("rejects disallowed tier routes", func(t *testing.T) {
		f := newServiceFixture()
		local := activeWarehouse(t, inventory.TierLocal)
		platform := activeWarehouse(t, inventory.TierPlatform)

		f.warehouses.On("FindByID", mock.Anything, local.ID).Return(local, nil)
		f.warehouses.On("FindByID", mock.Anything, platform.ID).Return(platform, nil)

		_, err := f.service.Transfer(context.Background(), TransferRequest{
			FromWarehouseID: local.ID,
			ToWarehouseID:   platform.ID,
			ProductID:       uuid.New(),
			Quantity:        decimal.NewFromInt(5),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSFER_ROUTE", domainErr.Code)
	})

	t.Run("rejects transfer onto itself", func(t *testing.T) {
		f := newServiceFixture()
		id := uuid.New()

		_, err := f.service.Transfer(context.Background(), TransferRequest{
			FromWarehouseID: id,
			ToWarehouseID:   id,
			ProductID:       uuid.New(),
			Quantity:        decimal.NewFromInt(5),
		})

		require.Error(t, err)
	})
}

func TestInventoryService_Damage(t *testing.T) {
	t.Run("writes off expired batches too", func(t *testing.T) {
		f := newServiceFixture()
		wh := activeWarehouse(t, inventory.TierLocal)
		productID := uuid.New()

		stock, err := inventory.NewStock(wh.ID, productID)
		require.NoError(t, err)
		past := time.Now().Add(-24 * time.Hour)
		_, err = stock.StockIn(decimal.NewFromInt(50), decimal.NewFromInt(10), &inventory.BatchInfo{
			BatchNumber: "B-EXPIRED",
			ExpiryDate:  &past,
		})
		require.NoError(t, err)
		stock.ClearDomainEvents()

		f.warehouses.On("FindByID", mock.Anything, wh.ID).Return(wh, nil)
		f.stocks.On("FindByWarehouseAndProductWithBatches", mock.Anything, wh.ID, productID).Return(stock, nil)
		f.stocks.On("SaveWithLock", mock.Anything, stock).Return(nil)
		f.batches.On("SaveAll", mock.Anything, mock.Anything).Return(nil)
		f.logs.On("Save", mock.Anything, mock.MatchedBy(func(log *inventory.InventoryLog) bool {
			return log.Kind == inventory.MovementDamage
		})).Return(nil)

		resp, err := f.service.Damage(context.Background(), DamageRequest{
			WarehouseID: wh.ID,
			ProductID:   productID,
			Quantity:    decimal.NewFromInt(50),
			Reason:      "water damage",
		})

		require.NoError(t, err)
		assert.True(t, resp.Stock.Quantity.IsZero())
		require.Len(t, resp.Deductions, 1)
		assert.Equal(t, "B-EXPIRED", resp.Deductions[0].BatchNumber)
	})
}

func TestInventoryService_ReserveRelease(t *testing.T) {
	f := newServiceFixture()
	wh := activeWarehouse(t, inventory.TierCloud)
	productID := uuid.New()
	stock := stockWith(t, wh.ID, productID, 100)

	f.stocks.On("FindByWarehouseAndProduct", mock.Anything, wh.ID, productID).Return(stock, nil)
	f.stocks.On("SaveWithLock", mock.Anything, stock).Return(nil)
	f.logs.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.Reserve(context.Background(), ReserveRequest{
		WarehouseID: wh.ID,
		ProductID:   productID,
		Quantity:    decimal.NewFromInt(40),
		Reference:   "SO-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.ReservedQuantity.Equal(decimal.NewFromInt(40)))
	assert.True(t, resp.AvailableQuantity.Equal(decimal.NewFromInt(60)))

	resp, err = f.service.Release(context.Background(), ReleaseRequest{
		WarehouseID: wh.ID,
		ProductID:   productID,
		Quantity:    decimal.NewFromInt(15),
		Reference:   "SO-1",
	})
	require.NoError(t, err)
	assert.True(t, resp.ReservedQuantity.Equal(decimal.NewFromInt(25)))

	// Releasing more than is reserved must fail
	_, err = f.service.Release(context.Background(), ReleaseRequest{
		WarehouseID: wh.ID,
		ProductID:   productID,
		Quantity:    decimal.NewFromInt(100),
		Reference:   "SO-1",
	})
	require.Error(t, err)
}

func TestInventoryService_SetThresholds(t *testing.T) {
	f := newServiceFixture()
	wh := activeWarehouse(t, inventory.TierLocal)
	productID := uuid.New()
	stock := stockWith(t, wh.ID, productID, 0)

	f.stocks.On("GetOrCreate", mock.Anything, wh.ID, productID).Return(stock, nil)
	f.stocks.On("SaveWithLock", mock.Anything, stock).Return(nil)

	minQ := decimal.NewFromInt(10)
	maxQ := decimal.NewFromInt(100)
	resp, err := f.service.SetThresholds(context.Background(), SetThresholdsRequest{
		WarehouseID: wh.ID,
		ProductID:   productID,
		MinQuantity: &minQ,
		MaxQuantity: &maxQ,
	})

	require.NoError(t, err)
	assert.True(t, resp.MinQuantity.Equal(minQ))
	assert.True(t, resp.MaxQuantity.Equal(maxQ))

	// min above max is rejected
	badMin := decimal.NewFromInt(500)
	_, err = f.service.SetThresholds(context.Background(), SetThresholdsRequest{
		WarehouseID: wh.ID,
		ProductID:   productID,
		MinQuantity: &badMin,
	})
	require.Error(t, err)
}
