package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	inventoryapp "github.com/shopx/backoffice/internal/application/inventory"
	teamapp "github.com/shopx/backoffice/internal/application/team"
	"github.com/shopx/backoffice/internal/infrastructure/auth"
	"github.com/shopx/backoffice/internal/infrastructure/cache"
	"github.com/shopx/backoffice/internal/infrastructure/config"
	"github.com/shopx/backoffice/internal/infrastructure/event"
	"github.com/shopx/backoffice/internal/infrastructure/logger"
	"github.com/shopx/backoffice/internal/infrastructure/persistence"
	"github.com/shopx/backoffice/internal/infrastructure/scheduler"
	"github.com/shopx/backoffice/internal/infrastructure/storage"
	"github.com/shopx/backoffice/internal/infrastructure/telemetry"
	"github.com/shopx/backoffice/internal/interfaces/http/handler"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
	"github.com/shopx/backoffice/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting backoffice",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracerConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("tracer shutdown failed", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("meter shutdown failed", zap.Error(err))
		}
	}()

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			SlowQueryThresh: 200 * time.Millisecond,
		}, log)
		if err := plugin.Register(db.DB); err != nil {
			log.Error("failed to register database tracing", zap.Error(err))
		}
	}

	// Redis is optional: without it the blacklist and performance cache fall
	// back to in-process implementations and the leaderboard is disabled.
	var blacklist admin.TokenBlacklist
	var leaderboard *cache.RedisLeaderboard
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, using in-memory fallbacks", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		leaderboard = cache.NewRedisLeaderboard(redisClient)
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	batchRepo := persistence.NewGormStockBatchRepository(db.DB)
	logRepo := persistence.NewGormInventoryLogRepository(db.DB)
	alertRepo := persistence.NewGormInventoryAlertRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	commissionRepo := persistence.NewGormCommissionRepository(db.DB)
	salesReader := persistence.NewGormSalesReader(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	configRepo := persistence.NewGormConfigRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	bus := event.NewBus(log)

	thresholdHandler := inventoryapp.NewStockBelowThresholdHandler(stockRepo, alertRepo, log)
	bus.Subscribe(thresholdHandler)

	businessMetrics, err := telemetry.NewBusinessMetrics(
		meterProvider.Meter("backoffice"),
		telemetry.NewGormInventoryMetricsProvider(db.DB),
		log,
	)
	if err != nil {
		log.Fatal("failed to create business metrics", zap.Error(err))
	}
	bus.Subscribe(businessMetrics)
	if cfg.Telemetry.Enabled {
		businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
		defer businessMetrics.Stop()
	}

	if err := bus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = bus.Stop(context.Background())
	}()

	// Application services
	inventoryService := inventoryapp.NewInventoryService(txScope, stockRepo, logRepo, warehouseRepo)
	inventoryService.SetEventPublisher(bus)

	alertService := inventoryapp.NewAlertService(stockRepo, batchRepo, alertRepo, log)
	if cfg.Alerts.ExpiryWarningDays > 0 {
		alertService.SetExpiryWindow(time.Duration(cfg.Alerts.ExpiryWarningDays) * 24 * time.Hour)
	}

	warehouseService := inventoryapp.NewWarehouseService(warehouseRepo, stockRepo)

	teamService := teamapp.NewTeamService(memberRepo, auditRepo, log)
	teamService.SetEventPublisher(bus)

	perfCache := cache.NewMemoryPerformanceCache(log)
	defer func() {
		_ = perfCache.Close()
	}()
	// Role changes move the member to a different commission rate, so their
	// cached results are evicted as soon as the event lands.
	bus.Subscribe(teamapp.NewPerformanceCacheInvalidator(perfCache, log))

	performanceService := teamapp.NewPerformanceService(memberRepo, commissionRepo, salesReader, log)
	performanceService.SetCache(perfCache, teamapp.DefaultCacheTTL)
	performanceService.SetTierProvider(teamapp.NewConfigTierProvider(configRepo, log))
	if leaderboard != nil {
		performanceService.SetLeaderboard(leaderboard)
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	authService := admin.NewAuthService(userRepo, auditRepo, jwtService, log)
	authService.SetBlacklist(blacklist)
	authService.SetEventPublisher(bus)

	userService := admin.NewUserService(userRepo, auditRepo, log)
	userService.SetEventPublisher(bus)

	reviewService := admin.NewCommissionReviewService(commissionRepo, auditRepo, log)
	reviewService.SetEventPublisher(bus)

	configService := admin.NewConfigService(configRepo, auditRepo, log)
	if cfg.Storage.Enabled {
		archiver, err := storage.NewS3ConfigArchiver(&cfg.Storage, log)
		if err != nil {
			log.Error("failed to create config archiver", zap.Error(err))
		} else if err := archiver.EnsureBucket(ctx); err != nil {
			log.Error("failed to ensure archive bucket", zap.Error(err))
		} else {
			configService.SetArchiver(archiver)
			log.Info("config export archiving enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	auditService := admin.NewAuditService(auditRepo)

	// Background alert sweeper
	if cfg.Alerts.Enabled {
		sweeper := scheduler.NewAlertSweeper(cfg.Alerts, alertService, log)
		if err := sweeper.Start(ctx); err != nil {
			log.Fatal("failed to start alert sweeper", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = sweeper.Stop(stopCtx)
		}()
	}

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log))
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	opts := router.DefaultOptions()
	opts.JWTService = jwtService
	opts.Blacklist = blacklist
	opts.Logger = log
	opts.CORS = corsConfig
	opts.MaxBodyBytes = cfg.HTTP.MaxBodySize
	opts.TracingEnabled = cfg.Telemetry.Enabled
	opts.ServiceName = cfg.Telemetry.ServiceName
	if !cfg.HTTP.RateLimitEnabled {
		opts.RateLimit = 0
	} else {
		opts.RateLimit = cfg.HTTP.RateLimitRequests
		opts.RateWindow = cfg.HTTP.RateLimitWindow
	}

	cleanup := router.Setup(engine, router.Handlers{
		Health:      handler.NewHealthHandler(db.DB, version),
		Auth:        handler.NewAuthHandler(authService, userService),
		Users:       handler.NewUserHandler(userService),
		Warehouses:  handler.NewWarehouseHandler(warehouseService),
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Alerts:      handler.NewAlertHandler(alertService),
		Team:        handler.NewTeamHandler(teamService),
		Performance: handler.NewPerformanceHandler(performanceService),
		Commissions: handler.NewCommissionHandler(reviewService),
		Configs:     handler.NewConfigHandler(configService),
		Audit:       handler.NewAuditHandler(auditService),
	}, opts)
	defer cleanup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
