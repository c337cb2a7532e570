package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_RevenueReport(t *testing.T) {
	engine := newTestServer(t)
	businessID := uuid.New()
	productID := seedInventory(t, engine, businessID, "Oat Latte", 20)

	delivered := placeOrder(t, engine, businessID, productID, 2)
	chain := []string{"confirmed", "preparing", "ready", "assigned", "picked_up", "on_the_way", "delivered"}
	for _, next := range chain {
		status, _, code := transition(t, engine, businessID, delivered.ID, next, nil)
		require.Equal(t, http.StatusOK, status, code)
	}
	placeOrder(t, engine, businessID, productID, 1) // stays pending

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/analytics/revenue?period=7d", businessID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var report struct {
		Period  string `json:"period"`
		Summary struct {
			TotalRevenue string `json:"total_revenue"`
			TotalOrders  int    `json:"total_orders"`
		} `json:"summary"`
		RevenueChart []struct {
			Date string `json:"date"`
		} `json:"revenue_chart"`
		PopularItems []struct {
			ProductName string `json:"product_name"`
			Quantity    int64  `json:"quantity"`
		} `json:"popular_items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))

	assert.Equal(t, "7d", report.Period)
	assert.Equal(t, 2, report.Summary.TotalOrders)
	// only the delivered order counts: 10.00 + 3.99 delivery + 0.50 service + 0.80 tax
	assert.Equal(t, "15.29", report.Summary.TotalRevenue)
	assert.Len(t, report.RevenueChart, 7)
	require.Len(t, report.PopularItems, 1)
	assert.Equal(t, "Oat Latte", report.PopularItems[0].ProductName)
	assert.Equal(t, int64(2), report.PopularItems[0].Quantity)
}

func TestAnalytics_InvalidPeriodReturns400(t *testing.T) {
	engine := newTestServer(t)

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/analytics/revenue?period=14d", uuid.New(), nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAnalytics_DefaultsToSevenDays(t *testing.T) {
	engine := newTestServer(t)

	w, env := doJSON(t, engine, http.MethodGet, "/api/v1/analytics/revenue", uuid.New(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report struct {
		Period string `json:"period"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "7d", report.Period)
}
