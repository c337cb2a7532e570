package inventory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

// StockAlertHandler surfaces stock warnings from the adjustment engine in the
// service log as they happen, ahead of the next on-demand alert read.
type StockAlertHandler struct {
	logger *zap.Logger
}

// NewStockAlertHandler creates a new StockAlertHandler
func NewStockAlertHandler(logger *zap.Logger) *StockAlertHandler {
	return &StockAlertHandler{logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *StockAlertHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockBelowThreshold,
		inventory.EventTypeStockDepleted,
	}
}

// Handle logs the stock warning carried by the event
func (h *StockAlertHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockBelowThresholdEvent:
		h.logger.Warn("stock below minimum",
			zap.String("business_id", e.BusinessID().String()),
			zap.String("product_id", e.ProductID.String()),
			zap.String("product_name", e.ProductName),
			zap.Int64("current_stock", e.CurrentStock),
			zap.Int64("minimum_stock", e.MinimumStock),
		)
	case *inventory.StockDepletedEvent:
		h.logger.Warn("stock depleted",
			zap.String("business_id", e.BusinessID().String()),
			zap.String("product_id", e.ProductID.String()),
			zap.String("product_name", e.ProductName),
		)
	default:
		return fmt.Errorf("unexpected event type %s", event.EventType())
	}
	return nil
}

var _ shared.EventHandler = (*StockAlertHandler)(nil)
