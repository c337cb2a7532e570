package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockGateway adapts the Service for callers that only care whether a draw
// or release succeeded, such as the order state machine.
type StockGateway struct {
	service *Service
}

// NewStockGateway creates a StockGateway over the inventory Service.
func NewStockGateway(service *Service) *StockGateway {
	return &StockGateway{service: service}
}

// ConsumeForSale draws down stock for one order line.
func (g *StockGateway) ConsumeForSale(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) error {
	_, err := g.service.ConsumeForSale(ctx, businessID, productID, quantity, reason, actorID)
	return err
}

// Release returns stock for one order line.
func (g *StockGateway) Release(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) error {
	_, err := g.service.Release(ctx, businessID, productID, quantity, reason, actorID)
	return err
}
