package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

type fakeInventoryProvider struct {
	lowStock     int64
	activeAlerts int64
}

func (f *fakeInventoryProvider) LowStockCount(_ context.Context) (int64, error) {
	return f.lowStock, nil
}

func (f *fakeInventoryProvider) ActiveAlertCount(_ context.Context) (int64, error) {
	return f.activeAlerts, nil
}

func newTestMetrics(t *testing.T, provider InventoryMetricsProvider) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := NewBusinessMetrics(mp.Meter("test"), provider, zap.NewNop())
	require.NoError(t, err)
	return bm, reader
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func gaugeValue(t *testing.T, reader *sdkmetric.ManualReader, name string) (int64, bool) {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			if gauge, ok := m.Data.(metricdata.Gauge[int64]); ok && len(gauge.DataPoints) > 0 {
				return gauge.DataPoints[len(gauge.DataPoints)-1].Value, true
			}
		}
	}
	return 0, false
}

func testStock() *inventory.Stock {
	return &inventory.Stock{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(),
		WarehouseID:          uuid.New(),
		ProductID:            uuid.New(),
		Quantity:             decimal.NewFromInt(5),
		MinQuantity:          decimal.NewFromInt(10),
	}
}

func TestBusinessMetrics_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("counts stock movements", func(t *testing.T) {
		bm, reader := newTestMetrics(t, nil)
		stock := testStock()

		require.NoError(t, bm.Handle(ctx, inventory.NewStockInEvent(stock, decimal.NewFromInt(10), decimal.NewFromInt(2), nil)))
		require.NoError(t, bm.Handle(ctx, inventory.NewStockOutEvent(stock, decimal.NewFromInt(3))))
		require.NoError(t, bm.Handle(ctx, inventory.NewStockOutEvent(stock, decimal.NewFromInt(1))))

		assert.Equal(t, int64(1), counterValue(t, reader, "backoffice_stock_in_total"))
		assert.Equal(t, int64(2), counterValue(t, reader, "backoffice_stock_out_total"))
	})

	t.Run("counts threshold alerts", func(t *testing.T) {
		bm, reader := newTestMetrics(t, nil)

		require.NoError(t, bm.Handle(ctx, inventory.NewStockBelowThresholdEvent(testStock())))

		assert.Equal(t, int64(1), counterValue(t, reader, "backoffice_inventory_alert_total"))
	})

	t.Run("counts commission review decisions", func(t *testing.T) {
		bm, reader := newTestMetrics(t, nil)

		record, err := team.NewCommissionRecord(uuid.New(), team.Period("2026-07"), team.RoleCaptain,
			decimal.NewFromInt(1000), decimal.NewFromFloat(0.1))
		require.NoError(t, err)
		require.NoError(t, record.Approve(uuid.New(), "ok"))

		require.NoError(t, bm.Handle(ctx, team.NewCommissionReviewedEvent(record)))

		assert.Equal(t, int64(1), counterValue(t, reader, "backoffice_commission_reviewed_total"))
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		bm, reader := newTestMetrics(t, nil)
		member, err := team.NewMember(uuid.New(), "alice")
		require.NoError(t, err)

		require.NoError(t, bm.Handle(ctx, team.NewMemberJoinedEvent(member)))

		assert.Equal(t, int64(0), counterValue(t, reader, "backoffice_stock_in_total"))
	})
}

func TestBusinessMetrics_PeriodicCollection(t *testing.T) {
	provider := &fakeInventoryProvider{lowStock: 4, activeAlerts: 7}
	bm, reader := newTestMetrics(t, provider)
	defer bm.Stop()

	bm.StartPeriodicCollection(context.Background(), time.Hour)

	assert.Eventually(t, func() bool {
		low, okLow := gaugeValue(t, reader, "backoffice_low_stock_count")
		active, okActive := gaugeValue(t, reader, "backoffice_active_alert_count")
		return okLow && okActive && low == 4 && active == 7
	}, time.Second, 10*time.Millisecond)
}
