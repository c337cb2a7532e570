package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quickdash/backend/internal/infrastructure/auth"
	"github.com/quickdash/backend/internal/infrastructure/config"
	"github.com/quickdash/backend/internal/infrastructure/logger"
	"github.com/quickdash/backend/internal/interfaces/http/handler"
	"github.com/quickdash/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Inventory *handler.InventoryHandler
	Order     *handler.OrderHandler
	Analytics *handler.AnalyticsHandler
	System    *handler.SystemHandler
}

// Options carries router construction settings.
type Options struct {
	Config     *config.Config
	Logger     *zap.Logger
	JWTService *auth.JWTService
	Handlers   Handlers
}

// New builds the gin engine with middleware and all API routes mounted
// under /api/v1. Health probes stay outside the authenticated group.
func New(opts Options) *gin.Engine {
	cfg := opts.Config

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(opts.Logger))
	engine.Use(logger.Recovery(opts.Logger))
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		engine.Use(middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins))
	}

	engine.GET("/health", opts.Handlers.System.Health)
	engine.GET("/ready", opts.Handlers.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.Auth(middleware.AuthConfig{
		JWTService:          opts.JWTService,
		AllowHeaderFallback: !cfg.IsProduction(),
		Logger:              opts.Logger,
	}))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		api.Use(middleware.RateLimit(limiter))
	}

	inv := api.Group("/inventory")
	{
		inv.GET("", opts.Handlers.Inventory.List)
		inv.GET("/alerts", opts.Handlers.Inventory.Alerts)
		inv.GET("/report", opts.Handlers.Inventory.Report)
		inv.POST("/bulk-adjust", opts.Handlers.Inventory.BulkAdjust)
		inv.GET("/:productId", opts.Handlers.Inventory.Get)
		inv.PUT("/:productId", opts.Handlers.Inventory.Upsert)
		inv.POST("/:productId/adjust", opts.Handlers.Inventory.Adjust)
		inv.POST("/:productId/restock", opts.Handlers.Inventory.Restock)
		inv.POST("/:productId/write-off", opts.Handlers.Inventory.WriteOffExpired)
		inv.GET("/:productId/history", opts.Handlers.Inventory.History)
	}

	orders := api.Group("/orders")
	{
		orders.POST("", opts.Handlers.Order.Checkout)
		orders.GET("", opts.Handlers.Order.List)
		orders.GET("/:id", opts.Handlers.Order.Get)
		orders.POST("/:id/status", opts.Handlers.Order.Transition)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/revenue", opts.Handlers.Analytics.Revenue)
	}

	return engine
}
