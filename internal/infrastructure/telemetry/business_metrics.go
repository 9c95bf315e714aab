package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// InventoryMetricsProvider supplies point-in-time inventory figures for
// periodic gauge collection
type InventoryMetricsProvider interface {
	LowStockCount(ctx context.Context) (int64, error)
	ActiveAlertCount(ctx context.Context) (int64, error)
}

// BusinessMetrics tracks stock movement, alerting, and commission activity.
// Counters are fed by domain events through the Handle method; gauges are
// refreshed by the periodic collector.
type BusinessMetrics struct {
	logger *zap.Logger

	stockInTotal            *Counter
	stockOutTotal           *Counter
	alertRaisedTotal        *Counter
	commissionComputedTotal *Counter
	commissionReviewedTotal *Counter
	adminLoginTotal         *Counter

	lowStockCount    *Gauge
	activeAlertCount *Gauge

	provider    InventoryMetricsProvider
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics creates the back office metric instruments
func NewBusinessMetrics(meter metric.Meter, provider InventoryMetricsProvider, logger *zap.Logger) (*BusinessMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:   logger,
		provider: provider,
		stopChan: make(chan struct{}),
	}

	var err error
	if bm.stockInTotal, err = NewCounter(meter,
		"backoffice_stock_in_total", "Total inbound stock movements", "{movements}"); err != nil {
		return nil, err
	}
	if bm.stockOutTotal, err = NewCounter(meter,
		"backoffice_stock_out_total", "Total outbound stock movements", "{movements}"); err != nil {
		return nil, err
	}
	if bm.alertRaisedTotal, err = NewCounter(meter,
		"backoffice_inventory_alert_total", "Total inventory alerts raised", "{alerts}"); err != nil {
		return nil, err
	}
	if bm.commissionComputedTotal, err = NewCounter(meter,
		"backoffice_commission_computed_total", "Total commission records computed", "{records}"); err != nil {
		return nil, err
	}
	if bm.commissionReviewedTotal, err = NewCounter(meter,
		"backoffice_commission_reviewed_total", "Total commission review decisions", "{records}"); err != nil {
		return nil, err
	}
	if bm.adminLoginTotal, err = NewCounter(meter,
		"backoffice_admin_login_total", "Total successful admin logins", "{logins}"); err != nil {
		return nil, err
	}
	if bm.lowStockCount, err = NewGauge(meter,
		"backoffice_low_stock_count", "Stocks currently below their minimum threshold", "{stocks}"); err != nil {
		return nil, err
	}
	if bm.activeAlertCount, err = NewGauge(meter,
		"backoffice_active_alert_count", "Inventory alerts currently active", "{alerts}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// EventTypes returns the domain events this recorder subscribes to
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		inventory.EventTypeStockIn,
		inventory.EventTypeStockOut,
		inventory.EventTypeStockBelowThreshold,
		inventory.EventTypeBatchExpired,
		team.EventTypeCommissionComputed,
		team.EventTypeCommissionReviewed,
		identity.EventTypeUserLoggedIn,
	}
}

// Handle increments counters from domain events
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockInEvent:
		bm.stockInTotal.Inc(ctx,
			AttrWarehouseID.String(e.WarehouseID.String()),
		)
	case *inventory.StockOutEvent:
		bm.stockOutTotal.Inc(ctx,
			AttrWarehouseID.String(e.WarehouseID.String()),
		)
	case *inventory.StockBelowThresholdEvent:
		bm.alertRaisedTotal.Inc(ctx,
			AttrAlertType.String(string(inventory.AlertLowStock)),
		)
	case *inventory.BatchExpiredEvent:
		bm.alertRaisedTotal.Inc(ctx,
			AttrAlertType.String(string(inventory.AlertExpired)),
		)
	case *team.CommissionComputedEvent:
		bm.commissionComputedTotal.Inc(ctx)
	case *team.CommissionReviewedEvent:
		bm.commissionReviewedTotal.Inc(ctx,
			AttrCommissionStatus.String(string(e.Status)),
		)
	case *identity.UserLoggedInEvent:
		bm.adminLoginTotal.Inc(ctx)
	}
	return nil
}

// StartPeriodicCollection refreshes inventory gauges on the given interval.
// Non-blocking; call Stop to halt collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go bm.collectLoop(ctx, interval)
	})
}

// Stop halts periodic collection
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

func (bm *BusinessMetrics) collectLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.collect(ctx)

	for {
		select {
		case <-bm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.collect(ctx)
		}
	}
}

func (bm *BusinessMetrics) collect(ctx context.Context) {
	if bm.provider == nil {
		return
	}

	if count, err := bm.provider.LowStockCount(ctx); err != nil {
		bm.logger.Warn("failed to collect low stock count", zap.Error(err))
	} else {
		bm.lowStockCount.Record(ctx, count)
	}

	if count, err := bm.provider.ActiveAlertCount(ctx); err != nil {
		bm.logger.Warn("failed to collect active alert count", zap.Error(err))
	} else {
		bm.activeAlertCount.Record(ctx, count)
	}
}

// Ensure BusinessMetrics can subscribe to the event bus
var _ shared.EventHandler = (*BusinessMetrics)(nil)
