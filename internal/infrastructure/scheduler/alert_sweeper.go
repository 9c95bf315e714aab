// Package scheduler runs the periodic background jobs of the back office.
package scheduler

import (
	"context"
	"sync"
	"time"

	appinv "github.com/shopx/backoffice/internal/application/inventory"
	"github.com/shopx/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StockSweeper scans inventory for threshold and expiry conditions
type StockSweeper interface {
	Sweep(ctx context.Context) (*appinv.SweepResult, error)
}

// AlertSweeper runs the inventory alert sweep on a fixed interval.
// One sweep runs immediately on start so a restarted instance does not
// wait a full interval before raising overdue alerts.
type AlertSweeper struct {
	sweeper  StockSweeper
	interval time.Duration
	logger   *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewAlertSweeper creates a sweeper from alert configuration
func NewAlertSweeper(cfg config.AlertSweepConfig, sweeper StockSweeper, logger *zap.Logger) *AlertSweeper {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &AlertSweeper{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the sweep loop
func (s *AlertSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Alert sweeper started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the sweep loop, waiting for an in-flight sweep to finish
func (s *AlertSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Alert sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Alert sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *AlertSweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *AlertSweeper) runOnce(ctx context.Context) {
	started := time.Now()

	result, err := s.sweeper.Sweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("inventory alert sweep failed", zap.Error(err))
		return
	}

	s.logger.Info("inventory alert sweep completed",
		zap.Int("low_stock_alerts", result.LowStockAlerts),
		zap.Int("expiring_alerts", result.ExpiringAlerts),
		zap.Int("expired_alerts", result.ExpiredAlerts),
		zap.Int("expired_batches", result.ExpiredBatches),
		zap.Duration("took", time.Since(started)),
	)
}
