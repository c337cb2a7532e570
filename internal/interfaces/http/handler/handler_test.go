package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appanalytics "github.com/quickdash/backend/internal/application/analytics"
	appinventory "github.com/quickdash/backend/internal/application/inventory"
	apporder "github.com/quickdash/backend/internal/application/order"
	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
	"github.com/quickdash/backend/internal/infrastructure/auth"
	"github.com/quickdash/backend/internal/infrastructure/cache"
	"github.com/quickdash/backend/internal/infrastructure/config"
	"github.com/quickdash/backend/internal/infrastructure/persistence"
	"github.com/quickdash/backend/internal/interfaces/http/handler"
	"github.com/quickdash/backend/internal/interfaces/http/router"
)

// newTestServer wires the full stack over an in-memory sqlite database so
// handler tests exercise real routing, binding and persistence.
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&inventory.InventoryRecord{},
		&inventory.StockMovement{},
		&order.Order{},
		&order.OrderItem{},
		&order.TrackingEntry{},
	))

	invService := appinventory.NewService(
		persistence.NewGormRecordRepository(db),
		persistence.NewGormMovementRepository(db),
		persistence.NewGormTransactionScope(db),
	)

	orderService := apporder.NewService(
		persistence.NewGormOrderRepository(db),
		appinventory.NewStockGateway(invService),
		apporder.PricingConfig{
			DeliveryFee:    decimal.NewFromFloat(3.99),
			ServiceFeeRate: decimal.NewFromFloat(0.05),
			TaxRate:        decimal.NewFromFloat(0.08),
		},
	)
	idempotencyStore := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotencyStore.Close() })
	orderService.SetIdempotencyStore(idempotencyStore, shared.DefaultIdempotencyConfig())

	analyticsService := appanalytics.NewService(persistence.NewGormOrderRepository(db))

	cfg := &config.Config{
		App: config.AppConfig{Name: "quickdash-test", Env: "test"},
	}
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-at-least-32-characters-long",
		Expiration: time.Hour,
		Issuer:     "quickdash-test",
	})

	return router.New(router.Options{
		Config:     cfg,
		Logger:     zap.NewNop(),
		JWTService: jwtService,
		Handlers: router.Handlers{
			Inventory: handler.NewInventoryHandler(invService),
			Order:     handler.NewOrderHandler(orderService),
			Analytics: handler.NewAnalyticsHandler(analyticsService),
			System:    handler.NewSystemHandler(nil),
		},
	})
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, businessID uuid.UUID, body any, headers map[string]string) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Business-ID", businessID.String())
	req.Header.Set("X-User-ID", uuid.New().String())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var envelope apiEnvelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "text/csv" {
		_ = json.Unmarshal(w.Body.Bytes(), &envelope)
	}
	return w, envelope
}

// seedInventory creates a record with the given initial stock and returns
// the product ID.
func seedInventory(t *testing.T, engine *gin.Engine, businessID uuid.UUID, name string, initial int64) uuid.UUID {
	t.Helper()

	productID := uuid.New()
	w, _ := doJSON(t, engine, http.MethodPut, "/api/v1/inventory/"+productID.String(), businessID, map[string]any{
		"product_name":  name,
		"initial_stock": initial,
		"minimum_stock": 2,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return productID
}
