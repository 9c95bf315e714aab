package inventory

import (
	"context"
	"fmt"

	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// StockBelowThresholdHandler turns StockBelowThreshold events into alert rows
// as soon as a movement drops stock under its minimum, without waiting for
// the periodic sweep.
type StockBelowThresholdHandler struct {
	stockRepo inventory.StockRepository
	alertRepo inventory.InventoryAlertRepository
	logger    *zap.Logger
}

// NewStockBelowThresholdHandler creates a new handler
func NewStockBelowThresholdHandler(
	stockRepo inventory.StockRepository,
	alertRepo inventory.InventoryAlertRepository,
	logger *zap.Logger,
) *StockBelowThresholdHandler {
	return &StockBelowThresholdHandler{
		stockRepo: stockRepo,
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle processes a StockBelowThresholdEvent
func (h *StockBelowThresholdHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	thresholdEvent, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockBelowThreshold, event.EventType())
	}

	h.logger.Warn("stock below threshold",
		zap.String("stock_id", thresholdEvent.StockID.String()),
		zap.String("warehouse_id", thresholdEvent.WarehouseID.String()),
		zap.String("product_id", thresholdEvent.ProductID.String()),
		zap.String("quantity", thresholdEvent.Quantity.String()),
		zap.String("min_quantity", thresholdEvent.MinQuantity.String()),
	)

	exists, err := h.alertRepo.HasActiveAlert(ctx, thresholdEvent.StockID, inventory.AlertLowStock, "")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	stock, err := h.stockRepo.FindByID(ctx, thresholdEvent.StockID)
	if err != nil {
		return err
	}
	alert := inventory.NewInventoryAlert(stock, inventory.AlertLowStock, thresholdEvent.Quantity, thresholdEvent.MinQuantity)
	return h.alertRepo.Save(ctx, alert)
}

var _ shared.EventHandler = (*StockBelowThresholdHandler)(nil)
