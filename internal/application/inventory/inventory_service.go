package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// InventoryService handles stock movement operations. Multi-row mutations
// (transfers, outbound with batch deductions) run inside a TransactionScope.
type InventoryService struct {
	txScope        TransactionScope
	stockRepo      inventory.StockRepository
	logRepo        inventory.InventoryLogRepository
	warehouseRepo  inventory.WarehouseRepository
	eventPublisher shared.EventPublisher
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	txScope TransactionScope,
	stockRepo inventory.StockRepository,
	logRepo inventory.InventoryLogRepository,
	warehouseRepo inventory.WarehouseRepository,
) *InventoryService {
	return &InventoryService{
		txScope:       txScope,
		stockRepo:     stockRepo,
		logRepo:       logRepo,
		warehouseRepo: warehouseRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InventoryService) publishDomainEvents(ctx context.Context, stocks ...*inventory.Stock) {
	if s.eventPublisher == nil {
		return
	}
	for _, stock := range stocks {
		events := stock.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		// Errors are logged by the event bus, not propagated
		_ = s.eventPublisher.Publish(ctx, events...)
		stock.ClearDomainEvents()
	}
}

func (s *InventoryService) activeWarehouse(ctx context.Context, warehouseID uuid.UUID) (*inventory.Warehouse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("WAREHOUSE_DISABLED", "Warehouse does not accept stock operations")
	}
	return warehouse, nil
}

// GetStock returns the stock row for a warehouse-product combination
func (s *InventoryService) GetStock(ctx context.Context, warehouseID, productID uuid.UUID) (*StockResponse, error) {
	stock, err := s.stockRepo.FindByWarehouseAndProduct(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockResponse(stock)
	return &response, nil
}

// ListStocks returns stock rows with filtering and pagination
func (s *InventoryService) ListStocks(ctx context.Context, filter StockListFilter) ([]StockResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.BelowMinimum != nil && *filter.BelowMinimum {
		domainFilter.Filters["below_minimum"] = true
	}
	if filter.HasStock != nil {
		if *filter.HasStock {
			domainFilter.Filters["has_stock"] = true
		} else {
			domainFilter.Filters["no_stock"] = true
		}
	}

	stocks, err := s.stockRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockResponses(stocks), total, nil
}

// StockIn receives quantity into a warehouse, creating a batch and recording
// the movement. The weighted average unit cost is updated on the stock row.
func (s *InventoryService) StockIn(ctx context.Context, req StockInRequest) (*StockResponse, error) {
	if _, err := s.activeWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	batchNumber := req.BatchNumber
	if batchNumber == "" {
		batchNumber = inventory.GenerateBatchNumber()
	}

	var response StockResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().GetOrCreate(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		before := stock.Quantity
		batch, err := stock.StockIn(req.Quantity, req.UnitCost, &inventory.BatchInfo{
			BatchNumber: batchNumber,
			ExpiryDate:  req.ExpiryDate,
		})
		if err != nil {
			return err
		}

		if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
			return err
		}
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		log := inventory.NewInventoryLog(stock, inventory.MovementIn, req.Quantity, before, stock.Quantity).
			WithBatchNumber(batchNumber).
			WithReference(req.Reference).
			WithReason(req.Reason)
		if req.OperatorID != nil {
			log = log.WithOperator(*req.OperatorID)
		}
		if err := repos.LogRepo().Save(ctx, log); err != nil {
			return err
		}

		s.publishDomainEvents(ctx, stock)
		response = ToStockResponse(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// StockOut ships quantity out of a warehouse, draining batches FIFO by
// expiry date. Expired batches are never picked for sales outbound.
func (s *InventoryService) StockOut(ctx context.Context, req StockOutRequest) (*StockOutResponse, error) {
	if _, err := s.activeWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	var response StockOutResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().FindByWarehouseAndProductWithBatches(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		before := stock.Quantity
		if err := stock.StockOut(req.Quantity); err != nil {
			return err
		}

		batches := make([]*inventory.StockBatch, len(stock.Batches))
		for i := range stock.Batches {
			batches[i] = &stock.Batches[i]
		}
		pick, err := inventory.PickBatchesFIFO(req.Quantity, batches, false)
		if err != nil {
			return err
		}
		if !pick.FullyCovered() {
			return shared.ErrInsufficientStock
		}

		if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveAll(ctx, batches); err != nil {
			return err
		}

		logs := make([]*inventory.InventoryLog, 0, len(pick.Deductions))
		after := before
		for _, d := range pick.Deductions {
			after = after.Sub(d.Quantity)
			log := inventory.NewInventoryLog(stock, inventory.MovementOut, d.Quantity, after.Add(d.Quantity), after).
				WithBatchNumber(d.BatchNumber).
				WithReference(req.Reference).
				WithReason(req.Reason)
			if req.OperatorID != nil {
				log = log.WithOperator(*req.OperatorID)
			}
			logs = append(logs, log)
		}
		if err := repos.LogRepo().SaveAll(ctx, logs); err != nil {
			return err
		}

		s.publishDomainEvents(ctx, stock)
		response = StockOutResponse{
			Stock:      ToStockResponse(stock),
			Deductions: toBatchDeductions(pick.Deductions),
			TotalCost:  pick.TotalCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Transfer moves quantity between two warehouses. The tier pair must be an
// allowed route (PLATFORM<->CLOUD<->LOCAL, or same tier). Both stock rows and
// both movement logs are written in one transaction.
func (s *InventoryService) Transfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target warehouses are the same")
	}

	from, err := s.activeWarehouse(ctx, req.FromWarehouseID)
	if err != nil {
		return nil, err
	}
	to, err := s.activeWarehouse(ctx, req.ToWarehouseID)
	if err != nil {
		return nil, err
	}
	if !from.Tier.CanTransferTo(to.Tier) {
		return nil, shared.NewDomainError("INVALID_TRANSFER_ROUTE",
			"Transfers are not allowed from "+from.Tier.String()+" to "+to.Tier.String())
	}

	var response TransferResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, err := repos.StockRepo().FindByWarehouseAndProductWithBatches(ctx, req.FromWarehouseID, req.ProductID)
		if err != nil {
			return err
		}
		target, err := repos.StockRepo().GetOrCreate(ctx, req.ToWarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		sourceBefore := source.Quantity
		if err := source.StockOut(req.Quantity); err != nil {
			return err
		}

		batches := make([]*inventory.StockBatch, len(source.Batches))
		for i := range source.Batches {
			batches[i] = &source.Batches[i]
		}
		pick, err := inventory.PickBatchesFIFO(req.Quantity, batches, false)
		if err != nil {
			return err
		}
		if !pick.FullyCovered() {
			return shared.ErrInsufficientStock
		}

		// The receiving side inherits the shipped cost and keeps batch
		// identity so expiry tracking survives the move.
		targetBefore := target.Quantity
		for _, d := range pick.Deductions {
			srcBatch, err := repos.BatchRepo().FindByID(ctx, d.BatchID)
			if err != nil {
				return err
			}
			if _, err := target.StockIn(d.Quantity, d.UnitCost, &inventory.BatchInfo{
				BatchNumber: d.BatchNumber,
				ExpiryDate:  srcBatch.ExpiryDate,
			}); err != nil {
				return err
			}
		}

		if err := repos.StockRepo().SaveWithLock(ctx, source); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveAll(ctx, batches); err != nil {
			return err
		}
		if err := repos.StockRepo().SaveWithLock(ctx, target); err != nil {
			return err
		}

		outLog := inventory.NewInventoryLog(source, inventory.MovementTransferOut, req.Quantity, sourceBefore, source.Quantity).
			WithReference(req.Reference).
			WithReason(req.Reason)
		inLog := inventory.NewInventoryLog(target, inventory.MovementTransferIn, req.Quantity, targetBefore, target.Quantity).
			WithReference(req.Reference).
			WithReason(req.Reason)
		if req.OperatorID != nil {
			outLog = outLog.WithOperator(*req.OperatorID)
			inLog = inLog.WithOperator(*req.OperatorID)
		}
		if err := repos.LogRepo().SaveAll(ctx, []*inventory.InventoryLog{outLog, inLog}); err != nil {
			return err
		}

		s.publishDomainEvents(ctx, source, target)
		response = TransferResponse{
			From: ToStockResponse(source),
			To:   ToStockResponse(target),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Damage writes off damaged stock. Expired batches are drained first along
// with the rest in FIFO order, and reserved stock may be consumed when the
// physical goods are gone.
func (s *InventoryService) Damage(ctx context.Context, req DamageRequest) (*StockOutResponse, error) {
	if _, err := s.activeWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	var response StockOutResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().FindByWarehouseAndProductWithBatches(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		before := stock.Quantity
		if err := stock.WriteOff(req.Quantity); err != nil {
			return err
		}

		batches := make([]*inventory.StockBatch, len(stock.Batches))
		for i := range stock.Batches {
			batches[i] = &stock.Batches[i]
		}
		pick, err := inventory.PickBatchesFIFO(req.Quantity, batches, true)
		if err != nil {
			return err
		}

		if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveAll(ctx, batches); err != nil {
			return err
		}

		log := inventory.NewInventoryLog(stock, inventory.MovementDamage, req.Quantity, before, stock.Quantity).
			WithReason(req.Reason)
		if req.OperatorID != nil {
			log = log.WithOperator(*req.OperatorID)
		}
		if err := repos.LogRepo().Save(ctx, log); err != nil {
			return err
		}

		s.publishDomainEvents(ctx, stock)
		response = StockOutResponse{
			Stock:      ToStockResponse(stock),
			Deductions: toBatchDeductions(pick.Deductions),
			TotalCost:  pick.TotalCost,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Reserve holds quantity for a pending order
func (s *InventoryService) Reserve(ctx context.Context, req ReserveRequest) (*StockResponse, error) {
	var response StockResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		if err := stock.Reserve(req.Quantity); err != nil {
			return err
		}
		if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
			return err
		}

		log := inventory.NewInventoryLog(stock, inventory.MovementReserve, req.Quantity, stock.Quantity, stock.Quantity).
			WithReference(req.Reference)
		if req.OperatorID != nil {
			log = log.WithOperator(*req.OperatorID)
		}
		if err := repos.LogRepo().Save(ctx, log); err != nil {
			return err
		}

		response = ToStockResponse(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// Release returns reserved quantity to the available pool
func (s *InventoryService) Release(ctx context.Context, req ReleaseRequest) (*StockResponse, error) {
	var response StockResponse
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := repos.StockRepo().FindByWarehouseAndProduct(ctx, req.WarehouseID, req.ProductID)
		if err != nil {
			return err
		}

		if err := stock.Release(req.Quantity); err != nil {
			return err
		}
		if err := repos.StockRepo().SaveWithLock(ctx, stock); err != nil {
			return err
		}

		log := inventory.NewInventoryLog(stock, inventory.MovementRelease, req.Quantity, stock.Quantity, stock.Quantity).
			WithReference(req.Reference)
		if req.OperatorID != nil {
			log = log.WithOperator(*req.OperatorID)
		}
		if err := repos.LogRepo().Save(ctx, log); err != nil {
			return err
		}

		response = ToStockResponse(stock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// SetThresholds updates the low stock and overstock thresholds of a stock row
func (s *InventoryService) SetThresholds(ctx context.Context, req SetThresholdsRequest) (*StockResponse, error) {
	stock, err := s.stockRepo.GetOrCreate(ctx, req.WarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}

	if err := stock.SetThresholds(req.MinQuantity, req.MaxQuantity); err != nil {
		return nil, err
	}
	if err := s.stockRepo.SaveWithLock(ctx, stock); err != nil {
		return nil, err
	}

	response := ToStockResponse(stock)
	return &response, nil
}

// ListLogs returns movement logs for a stock row
func (s *InventoryService) ListLogs(ctx context.Context, warehouseID, productID uuid.UUID, filter shared.Filter) ([]LogResponse, int64, error) {
	stock, err := s.stockRepo.FindByWarehouseAndProduct(ctx, warehouseID, productID)
	if err != nil {
		return nil, 0, err
	}

	logs, err := s.logRepo.FindByStock(ctx, stock.ID, filter)
	if err != nil {
		return nil, 0, err
	}
	countFilter := filter
	countFilter.Filters = map[string]interface{}{"stock_id": stock.ID}
	total, err := s.logRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLogResponses(logs), total, nil
}
