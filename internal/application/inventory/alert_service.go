package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultExpiryWindow is how far ahead the sweep looks for expiring batches
const DefaultExpiryWindow = 7 * 24 * time.Hour

// AlertService manages inventory alerts and runs the periodic sweep that
// raises LOW_STOCK, EXPIRING and EXPIRED alerts.
type AlertService struct {
	stockRepo    inventory.StockRepository
	batchRepo    inventory.StockBatchRepository
	alertRepo    inventory.InventoryAlertRepository
	logger       *zap.Logger
	expiryWindow time.Duration
}

// NewAlertService creates a new AlertService
func NewAlertService(
	stockRepo inventory.StockRepository,
	batchRepo inventory.StockBatchRepository,
	alertRepo inventory.InventoryAlertRepository,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		stockRepo:    stockRepo,
		batchRepo:    batchRepo,
		alertRepo:    alertRepo,
		logger:       logger,
		expiryWindow: DefaultExpiryWindow,
	}
}

// SetExpiryWindow overrides how far ahead the sweep flags expiring batches
func (s *AlertService) SetExpiryWindow(window time.Duration) {
	if window > 0 {
		s.expiryWindow = window
	}
}

// SweepResult summarizes one sweep run
type SweepResult struct {
	LowStockAlerts int `json:"low_stock_alerts"`
	ExpiringAlerts int `json:"expiring_alerts"`
	ExpiredAlerts  int `json:"expired_alerts"`
	ExpiredBatches int `json:"expired_batches"`
}

// Sweep scans stock levels and batch expiry dates, raising alerts for rows
// that crossed a threshold. The sweep is idempotent: at most one ACTIVE alert
// exists per stock/type/batch.
func (s *AlertService) Sweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	low, err := s.stockRepo.FindBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	for i := range low {
		stock := &low[i]
		exists, err := s.alertRepo.HasActiveAlert(ctx, stock.ID, inventory.AlertLowStock, "")
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		alert := inventory.NewInventoryAlert(stock, inventory.AlertLowStock, stock.Quantity, stock.MinQuantity)
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
		result.LowStockAlerts++
		s.logger.Warn("low stock alert raised",
			zap.String("stock_id", stock.ID.String()),
			zap.String("warehouse_id", stock.WarehouseID.String()),
			zap.String("product_id", stock.ProductID.String()),
			zap.String("quantity", stock.Quantity.String()),
			zap.String("min_quantity", stock.MinQuantity.String()),
		)
	}

	deadline := time.Now().Add(s.expiryWindow)
	batches, err := s.batchRepo.FindExpiringBefore(ctx, deadline)
	if err != nil {
		return nil, err
	}
	for i := range batches {
		batch := &batches[i]
		if !batch.HasStock() {
			continue
		}

		stock, err := s.stockRepo.FindByID(ctx, batch.StockID)
		if err != nil {
			s.logger.Error("sweep: stock lookup failed",
				zap.String("stock_id", batch.StockID.String()), zap.Error(err))
			continue
		}

		alertType := inventory.AlertExpiring
		if batch.IsExpired() {
			alertType = inventory.AlertExpired
			if batch.Status != inventory.BatchStatusExpired {
				batch.MarkExpired()
				if err := s.batchRepo.Save(ctx, batch); err != nil {
					return nil, err
				}
				result.ExpiredBatches++
			}
		}

		exists, err := s.alertRepo.HasActiveAlert(ctx, batch.StockID, alertType, batch.BatchNumber)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		alert := inventory.NewInventoryAlert(stock, alertType, batch.Quantity, decimal.Zero).
			ForBatch(batch.BatchNumber)
		if err := s.alertRepo.Save(ctx, alert); err != nil {
			return nil, err
		}
		if alertType == inventory.AlertExpired {
			result.ExpiredAlerts++
		} else {
			result.ExpiringAlerts++
		}
	}

	s.logger.Info("inventory alert sweep completed",
		zap.Int("low_stock", result.LowStockAlerts),
		zap.Int("expiring", result.ExpiringAlerts),
		zap.Int("expired", result.ExpiredAlerts),
		zap.Int("expired_batches", result.ExpiredBatches),
	)
	return result, nil
}

// ListAlerts returns alerts with filtering and pagination
func (s *AlertService) ListAlerts(ctx context.Context, activeOnly bool, filter shared.Filter) ([]AlertResponse, int64, error) {
	var (
		alerts []inventory.InventoryAlert
		err    error
	)
	if activeOnly {
		alerts, err = s.alertRepo.FindActive(ctx, filter)
		filter.Filters["status"] = string(inventory.AlertStatusActive)
	} else {
		alerts, err = s.alertRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.alertRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToAlertResponses(alerts), total, nil
}

// ResolveAlert marks an alert as handled
func (s *AlertService) ResolveAlert(ctx context.Context, alertID, userID uuid.UUID) error {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return err
	}
	if err := alert.Resolve(userID); err != nil {
		return err
	}
	return s.alertRepo.Save(ctx, alert)
}

// IgnoreAlert dismisses an alert without action
func (s *AlertService) IgnoreAlert(ctx context.Context, alertID, userID uuid.UUID) error {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return err
	}
	if err := alert.Ignore(userID); err != nil {
		return err
	}
	return s.alertRepo.Save(ctx, alert)
}
