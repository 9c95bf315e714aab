// Package router wires handlers and middleware into the API route tree.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopx/backoffice/internal/application/admin"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/infrastructure/auth"
	"github.com/shopx/backoffice/internal/interfaces/http/handler"
	"github.com/shopx/backoffice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers bundles every API handler for registration
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Warehouses  *handler.WarehouseHandler
	Inventory   *handler.InventoryHandler
	Alerts      *handler.AlertHandler
	Team        *handler.TeamHandler
	Performance *handler.PerformanceHandler
	Commissions *handler.CommissionHandler
	Configs     *handler.ConfigHandler
	Audit       *handler.AuditHandler
}

// Options configures the middleware stack
type Options struct {
	JWTService     *auth.JWTService
	Blacklist      admin.TokenBlacklist
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	MaxBodyBytes   int64
	RateLimit      int
	RateWindow     time.Duration
	LoginRateLimit int
	TracingEnabled bool
	ServiceName    string
}

// DefaultOptions returns sensible middleware defaults
func DefaultOptions() Options {
	return Options{
		CORS:           middleware.DefaultCORSConfig(),
		MaxBodyBytes:   4 << 20,
		RateLimit:      300,
		RateWindow:     time.Minute,
		LoginRateLimit: 10,
		ServiceName:    "backoffice",
	}
}

// Setup registers all routes and middleware on the engine. The returned
// cleanup function stops the rate limiters.
func Setup(engine *gin.Engine, h Handlers, opts Options) func() {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(opts.CORS))
	engine.Use(middleware.Secure())
	if opts.TracingEnabled {
		engine.Use(middleware.Tracing(opts.ServiceName), middleware.SpanErrorMarker())
	}
	if opts.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(opts.MaxBodyBytes))
	}

	var cleanups []func()
	if opts.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(opts.RateLimit, opts.RateWindow)
		cleanups = append(cleanups, limiter.Stop)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/healthz", h.Health.Live)
	engine.GET("/readyz", h.Health.Ready)

	api := engine.Group("/api/v1")

	// Login gets its own tighter limiter to slow credential stuffing
	loginGroup := api.Group("/auth")
	if opts.LoginRateLimit > 0 {
		loginLimiter := middleware.NewRateLimiter(opts.LoginRateLimit, time.Minute)
		cleanups = append(cleanups, loginLimiter.Stop)
		loginGroup.Use(middleware.RateLimit(loginLimiter))
	}
	loginGroup.POST("/login", h.Auth.Login)
	loginGroup.POST("/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.Authenticated(opts.JWTService, opts.Blacklist, opts.Logger))

	registerAuthRoutes(authed, h)
	registerAdminRoutes(authed, h)
	registerInventoryRoutes(authed, h)
	registerTeamRoutes(authed, h)

	return func() {
		for _, stop := range cleanups {
			stop()
		}
	}
}

func registerAuthRoutes(rg *gin.RouterGroup, h Handlers) {
	authGroup := rg.Group("/auth")
	authGroup.POST("/logout", h.Auth.Logout)
	authGroup.GET("/me", h.Auth.Me)
	authGroup.PUT("/password", h.Auth.ChangePassword)
}

func registerAdminRoutes(rg *gin.RouterGroup, h Handlers) {
	adminOnly := middleware.RequireRole(identity.AdminRoleAdmin)

	users := rg.Group("/users", adminOnly)
	users.POST("", h.Users.Create)
	users.GET("", h.Users.List)
	users.GET("/:id", h.Users.Get)
	users.PUT("/:id", h.Users.Update)
	users.PUT("/:id/role", h.Users.ChangeRole)
	users.PUT("/:id/password", h.Users.ResetPassword)
	users.POST("/:id/disable", h.Users.Disable)
	users.POST("/:id/enable", h.Users.Enable)

	configs := rg.Group("/configs")
	configs.GET("", h.Configs.List)
	configs.GET("/export", adminOnly, h.Configs.Export)
	configs.POST("/import", adminOnly, h.Configs.Import)
	configs.GET("/:group", h.Configs.ListGroup)
	configs.GET("/:group/:key", h.Configs.Get)
	configs.PUT("", adminOnly, h.Configs.Set)
	configs.DELETE("/:id", adminOnly, h.Configs.Delete)

	audit := rg.Group("/audit-logs", middleware.RequireRole(identity.AdminRoleFinance))
	audit.GET("", h.Audit.List)
	audit.GET("/:id", h.Audit.Get)
}

func registerInventoryRoutes(rg *gin.RouterGroup, h Handlers) {
	operator := middleware.RequireRole(identity.AdminRoleOperator)

	warehouses := rg.Group("/warehouses")
	warehouses.GET("", h.Warehouses.List)
	warehouses.GET("/:id", h.Warehouses.Get)
	warehouses.POST("", operator, h.Warehouses.Create)
	warehouses.PUT("/:id", operator, h.Warehouses.Update)
	warehouses.DELETE("/:id", operator, h.Warehouses.Delete)

	inventory := rg.Group("/inventory")
	inventory.GET("/stock", h.Inventory.GetStock)
	inventory.GET("/stocks", h.Inventory.ListStocks)
	inventory.GET("/logs", h.Inventory.ListLogs)
	inventory.POST("/in", operator, h.Inventory.StockIn)
	inventory.POST("/out", operator, h.Inventory.StockOut)
	inventory.POST("/transfer", operator, h.Inventory.Transfer)
	inventory.POST("/damage", operator, h.Inventory.Damage)
	inventory.POST("/reserve", operator, h.Inventory.Reserve)
	inventory.POST("/release", operator, h.Inventory.Release)
	inventory.PUT("/thresholds", operator, h.Inventory.SetThresholds)

	alerts := rg.Group("/alerts")
	alerts.GET("", h.Alerts.List)
	alerts.POST("/sweep", operator, h.Alerts.Sweep)
	alerts.POST("/:id/resolve", operator, h.Alerts.Resolve)
	alerts.POST("/:id/ignore", operator, h.Alerts.Ignore)
}

func registerTeamRoutes(rg *gin.RouterGroup, h Handlers) {
	operator := middleware.RequireRole(identity.AdminRoleOperator)
	finance := middleware.RequireRole(identity.AdminRoleFinance)

	team := rg.Group("/team")
	team.POST("/members", operator, h.Team.Join)
	team.GET("/members", h.Team.List)
	team.GET("/members/:id", h.Team.Get)
	team.GET("/members/:id/downline", h.Team.Downline)
	team.PUT("/members/:id/role", operator, h.Team.ChangeRole)
	team.POST("/members/:id/deactivate", operator, h.Team.Deactivate)

	team.GET("/members/:id/performance", h.Performance.Compute)
	team.GET("/leaderboard", h.Performance.Leaderboard)
	team.POST("/members/:id/promote", operator, h.Performance.ApplyPromotion)

	commissions := rg.Group("/commissions", finance)
	commissions.POST("/generate", h.Performance.GenerateCommissions)
	commissions.GET("", h.Commissions.List)
	commissions.POST("/settle", h.Commissions.SettlePeriod)
	commissions.POST("/:id/approve", h.Commissions.Approve)
	commissions.POST("/:id/reject", h.Commissions.Reject)
	commissions.POST("/:id/settle", h.Commissions.Settle)
}
