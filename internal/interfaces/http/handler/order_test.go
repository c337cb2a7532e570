package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Items  []struct {
		ProductID string `json:"product_id"`
		Quantity  int64  `json:"quantity"`
	} `json:"items"`
	Pricing struct {
		Subtotal string `json:"subtotal"`
		Total    string `json:"total"`
	} `json:"pricing"`
	TrackingLog []struct {
		Status string `json:"status"`
	} `json:"tracking_log"`
}

func placeOrder(t *testing.T, engine *gin.Engine, businessID, productID uuid.UUID, quantity int64) orderPayload {
	t.Helper()

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/orders", businessID, map[string]any{
		"customer_id": uuid.New().String(),
		"items": []map[string]any{
			{"product_id": productID.String(), "product_name": "Oat Latte", "quantity": quantity, "unit_price": "5.00"},
		},
		"delivery_address": "12 Elm St",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var o orderPayload
	require.NoError(t, json.Unmarshal(env.Data, &o))
	return o
}

func transition(t *testing.T, engine *gin.Engine, businessID uuid.UUID, orderID, status string, headers map[string]string) (int, orderPayload, string) {
	t.Helper()

	w, env := doJSON(t, engine, http.MethodPost, "/api/v1/orders/"+orderID+"/status", businessID, map[string]any{
		"status": status,
	}, headers)

	var o orderPayload
	if env.Data != nil {
		_ = json.Unmarshal(env.Data, &o)
	}
	code := ""
	if env.Error != nil {
		code = env.Error.Code
	}
	return w.Code, o, code
}

func currentStock(t *testing.T, engine *gin.Engine, businessID, productID uuid.UUID) int64 {
	t.Helper()

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/inventory/"+productID.String(), businessID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var record struct {
		CurrentStock int64 `json:"current_stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &record))
	return record.CurrentStock
}

func TestOrders_CheckoutComputesPricing(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)

	o := placeOrder(t, engine, businessID, productID, 5)

	assert.Equal(t, "pending", o.Status)
	// 25.00 + 3.99 delivery + 1.25 service + 2.00 tax
	assert.Equal(t, "25", o.Pricing.Subtotal)
	assert.Equal(t, "32.24", o.Pricing.Total)
	require.Len(t, o.TrackingLog, 1)

	// checkout does not touch stock
	assert.Equal(t, int64(10), currentStock(t, engine, businessID, productID))
}

func TestOrders_ConfirmConsumesStock(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 4)

	status, confirmed, _ := transition(t, engine, businessID, o.ID, "confirmed", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", confirmed.Status)
	assert.Len(t, confirmed.TrackingLog, 2)

	assert.Equal(t, int64(6), currentStock(t, engine, businessID, productID))
}

func TestOrders_ConfirmWithInsufficientStockReturns422(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 3)
	o := placeOrder(t, engine, businessID, productID, 5)

	status, _, code := transition(t, engine, businessID, o.ID, "confirmed", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", code)

	// order stays pending, stock untouched
	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/orders/"+o.ID, businessID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched orderPayload
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, "pending", fetched.Status)
	assert.Equal(t, int64(3), currentStock(t, engine, businessID, productID))
}

func TestOrders_IllegalTransitionReturns422(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 1)

	status, _, code := transition(t, engine, businessID, o.ID, "delivered", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", code)
}

func TestOrders_UnknownStatusReturns400(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 1)

	status, _, code := transition(t, engine, businessID, o.ID, "teleported", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_STATUS", code)
}

func TestOrders_CancelReleasesConsumedStock(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 4)

	status, _, _ := transition(t, engine, businessID, o.ID, "confirmed", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(6), currentStock(t, engine, businessID, productID))

	status, cancelled, _ := transition(t, engine, businessID, o.ID, "cancelled", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "cancelled", cancelled.Status)

	assert.Equal(t, int64(10), currentStock(t, engine, businessID, productID))
}

func TestOrders_FullDeliveryChain(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 2)

	chain := []string{"confirmed", "preparing", "ready", "assigned", "picked_up", "on_the_way", "delivered"}
	for _, next := range chain {
		status, got, code := transition(t, engine, businessID, o.ID, next, nil)
		require.Equal(t, http.StatusOK, status, "transition to %s failed: %s", next, code)
		assert.Equal(t, next, got.Status)
	}

	// terminal: refund allowed, anything else rejected
	status, refunded, _ := transition(t, engine, businessID, o.ID, "refunded", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "refunded", refunded.Status)
	assert.Equal(t, int64(10), currentStock(t, engine, businessID, productID))

	status, _, code := transition(t, engine, businessID, o.ID, "confirmed", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", code)
}

func TestOrders_IdempotentConfirmReplay(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 10)
	o := placeOrder(t, engine, businessID, productID, 4)

	headers := map[string]string{"Idempotency-Key": "confirm-once"}

	status, first, _ := transition(t, engine, businessID, o.ID, "confirmed", headers)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", first.Status)

	// replay with the same key: current state back, no second draw-down
	status, second, _ := transition(t, engine, businessID, o.ID, "confirmed", headers)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "confirmed", second.Status)

	assert.Equal(t, int64(6), currentStock(t, engine, businessID, productID))
}

func TestOrders_FailedConfirmKeepsIdempotencyKeyUsable(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 2)
	o := placeOrder(t, engine, businessID, productID, 5)

	headers := map[string]string{"Idempotency-Key": "confirm-short"}

	status, _, code := transition(t, engine, businessID, o.ID, "confirmed", headers)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", code)

	// the retry with the same key reports the shortage again instead of
	// replaying the pending order as a success
	status, _, code = transition(t, engine, businessID, o.ID, "confirmed", headers)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", code)
}

func TestOrders_ListFiltersByStatus(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 20)

	placeOrder(t, engine, businessID, productID, 1)
	confirmedOrder := placeOrder(t, engine, businessID, productID, 1)
	status, _, _ := transition(t, engine, businessID, confirmedOrder.ID, "confirmed", nil)
	require.Equal(t, http.StatusOK, status)

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/orders?status=confirmed", businessID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestOrders_ListFiltersByCustomer(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 20)
	customerID := uuid.New()

	checkout := func(customer uuid.UUID) {
		w, _ := doJSON(t, engine, http.MethodPost, "/api/v1/orders", businessID, map[string]any{
			"customer_id": customer.String(),
			"items": []map[string]any{
				{"product_id": productID.String(), "product_name": "Oat Latte", "quantity": 1, "unit_price": "5.00"},
			},
			"delivery_address": "12 Elm St",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	checkout(customerID)
	checkout(uuid.New())

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/orders?customer_id="+customerID.String(), businessID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	w, _ = doJSON(t, engine, http.MethodGet, "/api/v1/orders?customer_id=not-a-uuid", businessID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
