package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	analyticsapp "github.com/quickdash/backend/internal/application/analytics"
	inventoryapp "github.com/quickdash/backend/internal/application/inventory"
	orderapp "github.com/quickdash/backend/internal/application/order"
	"github.com/quickdash/backend/internal/domain/shared"
	"github.com/quickdash/backend/internal/infrastructure/auth"
	"github.com/quickdash/backend/internal/infrastructure/cache"
	"github.com/quickdash/backend/internal/infrastructure/config"
	"github.com/quickdash/backend/internal/infrastructure/event"
	"github.com/quickdash/backend/internal/infrastructure/logger"
	"github.com/quickdash/backend/internal/infrastructure/persistence"
	"github.com/quickdash/backend/internal/interfaces/http/handler"
	"github.com/quickdash/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting quickdash backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, persistence.NewGormZapLogger(log))
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	idempotencyStore := cache.NewIdempotencyStore(cfg.Redis, log)
	defer func() {
		_ = idempotencyStore.Close()
	}()

	recordRepo := persistence.NewGormRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	eventBus := event.NewInMemoryBus(log)
	eventBus.Subscribe(inventoryapp.NewStockAlertHandler(log))

	inventoryService := inventoryapp.NewService(
		recordRepo,
		movementRepo,
		persistence.NewGormTransactionScope(db.DB),
	)
	inventoryService.SetExpiryWindow(cfg.Alerts.ExpiryWindow)
	inventoryService.SetEventPublisher(eventBus)

	orderService := orderapp.NewService(
		orderRepo,
		inventoryapp.NewStockGateway(inventoryService),
		orderapp.PricingConfig{
			DeliveryFee:    cfg.Pricing.DeliveryFee,
			ServiceFeeRate: cfg.Pricing.ServiceFeeRate,
			TaxRate:        cfg.Pricing.TaxRate,
		},
	)
	orderService.SetIdempotencyStore(idempotencyStore, shared.DefaultIdempotencyConfig())
	orderService.SetEventPublisher(eventBus)

	analyticsService := analyticsapp.NewService(orderRepo)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.New(router.Options{
		Config:     cfg,
		Logger:     log,
		JWTService: jwtService,
		Handlers: router.Handlers{
			Inventory: handler.NewInventoryHandler(inventoryService),
			Order:     handler.NewOrderHandler(orderService),
			Analytics: handler.NewAnalyticsHandler(analyticsService),
			System:    handler.NewSystemHandler(db),
		},
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited gracefully")
}
