package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
)

// StockAdjuster is the slice of the inventory service the state machine
// needs: consume on confirmation, release on cancellation or refund.
type StockAdjuster interface {
	ConsumeForSale(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) error
	Release(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) error
}

// PricingConfig is the fee schedule applied at checkout.
// Rates are fractions (0.05 for 5%).
type PricingConfig struct {
	DeliveryFee    decimal.Decimal
	ServiceFeeRate decimal.Decimal
	TaxRate        decimal.Decimal
}

// Service implements the order fulfillment state machine
type Service struct {
	orderRepo        order.Repository
	stock            StockAdjuster
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	pricing          PricingConfig
	eventPublisher   shared.EventPublisher
}

// NewService creates an order Service
func NewService(orderRepo order.Repository, stock StockAdjuster, pricing PricingConfig) *Service {
	return &Service{
		orderRepo:      orderRepo,
		stock:          stock,
		pricing:        pricing,
		idempotencyCfg: shared.DefaultIdempotencyConfig(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables idempotency-key handling on transitions
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyCfg = cfg
}

func (s *Service) publishDomainEvents(ctx context.Context, o *order.Order) {
	if s.eventPublisher == nil {
		return
	}
	events := o.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	o.ClearDomainEvents()
}

// Checkout creates a pending order with pricing computed from the fee
// schedule. Stock is not touched until confirmation.
func (s *Service) Checkout(ctx context.Context, businessID uuid.UUID, req CheckoutRequest) (*Response, error) {
	items := make([]order.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, err := order.NewOrderItem(line.ProductID, line.ProductName, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	pricing := order.ComputePricing(items, s.pricing.DeliveryFee, s.pricing.ServiceFeeRate, s.pricing.TaxRate)
	o, err := order.NewOrder(businessID, req.CustomerID, items, pricing, req.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	o.Notes = req.Notes

	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, o)
	response := ToResponse(o)
	return &response, nil
}

// Get retrieves an order scoped to a business
func (s *Service) Get(ctx context.Context, businessID, orderID uuid.UUID) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToResponse(o)
	return &response, nil
}

// List retrieves orders for a business with pagination
func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (*shared.Paginated[Response], error) {
	page, err := s.orderRepo.FindByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]Response, len(page.Items))
	for i, o := range page.Items {
		items[i] = ToResponse(o)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Transition moves an order along the fulfillment graph.
//
// Confirmation consumes stock per line item before the order is admitted; if
// any line fails, already-applied consumptions are compensated and the order
// stays pending. Cancellation and refund release consumed stock. The save
// uses optimistic locking without retry: a version conflict means a
// concurrent transition won and the caller should re-read.
//
// idempotencyKey, when non-empty, makes client retries safe: a key that
// already completed a transition within the TTL returns the current order
// without re-applying it, while a failed attempt leaves the key unconsumed
// so the retry surfaces the same error.
func (s *Service) Transition(ctx context.Context, businessID, orderID uuid.UUID, req TransitionRequest, idempotencyKey string) (*Response, error) {
	storeKey := s.idempotencyStoreKey(orderID, idempotencyKey)
	if replayed, resp, err := s.replayIdempotent(ctx, businessID, orderID, storeKey); replayed || err != nil {
		return resp, err
	}

	o, err := s.orderRepo.FindByID(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}

	// Validate the edge before any stock side effects
	if !req.Status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+req.Status.String())
	}
	if !o.Status.CanTransitionTo(req.Status) {
		return nil, shared.ErrInvalidTransition
	}

	releaseReason := ""
	switch req.Status {
	case order.StatusConfirmed:
		if err := s.consumeStock(ctx, o, req.ActorID); err != nil {
			return nil, err
		}
	case order.StatusCancelled:
		releaseReason = "order cancelled"
	case order.StatusRefunded:
		releaseReason = "order refunded"
	}

	// Orders cancelled before confirmation never consumed stock, so there
	// is nothing to release.
	releaseStock := releaseReason != "" && o.StockConsumed
	if releaseStock {
		if err := o.MarkStockReleased(); err != nil {
			return nil, err
		}
	}

	if err := o.TransitionTo(req.Status, req.ActorID, req.Notes); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		if req.Status == order.StatusConfirmed {
			// the draw-down is not covered by the order save; undo it so a
			// lost race does not leak consumed stock
			s.compensate(ctx, o, o.Items, req.ActorID)
		}
		return nil, err
	}

	// Stock moves only after the released state is committed. A conflicted
	// save releases nothing, so a retried cancel cannot release the same
	// stock twice.
	if releaseStock {
		s.releaseStock(ctx, o, releaseReason, req.ActorID)
	}

	s.markIdempotent(ctx, storeKey)
	s.publishDomainEvents(ctx, o)
	response := ToResponse(o)
	return &response, nil
}

func (s *Service) idempotencyStoreKey(orderID uuid.UUID, key string) string {
	if key == "" || s.idempotencyStore == nil || !s.idempotencyCfg.Enabled {
		return ""
	}
	return fmt.Sprintf("order-transition:%s:%s", orderID, key)
}

// replayIdempotent returns (true, current order, nil) when the key already
// completed a transition within the TTL.
func (s *Service) replayIdempotent(ctx context.Context, businessID, orderID uuid.UUID, storeKey string) (bool, *Response, error) {
	if storeKey == "" {
		return false, nil, nil
	}

	seen, err := s.idempotencyStore.IsProcessed(ctx, storeKey)
	if err != nil {
		// the store is an availability optimization, not authoritative state
		return false, nil, nil
	}
	if !seen {
		return false, nil, nil
	}

	resp, err := s.Get(ctx, businessID, orderID)
	return true, resp, err
}

// markIdempotent records the key only after the transition committed, so a
// failed attempt does not consume the client's key.
func (s *Service) markIdempotent(ctx context.Context, storeKey string) {
	if storeKey == "" {
		return
	}
	_, _ = s.idempotencyStore.MarkProcessed(ctx, storeKey, s.idempotencyCfg.TTL)
}

// consumeStock draws down each line item. On failure the already-applied
// consumptions are reversed so no partial draw survives, since there is no
// multi-record transaction across products.
func (s *Service) consumeStock(ctx context.Context, o *order.Order, actorID uuid.UUID) error {
	if err := o.MarkStockConsumed(); err != nil {
		return err
	}

	reason := fmt.Sprintf("order %s confirmed", o.ID)
	applied := make([]order.OrderItem, 0, len(o.Items))

	for _, item := range o.Items {
		if err := s.stock.ConsumeForSale(ctx, o.BusinessID, item.ProductID, item.Quantity, reason, actorID); err != nil {
			s.compensate(ctx, o, applied, actorID)
			_ = o.MarkStockReleased()
			return err
		}
		applied = append(applied, item)
	}

	return nil
}

func (s *Service) compensate(ctx context.Context, o *order.Order, applied []order.OrderItem, actorID uuid.UUID) {
	reason := fmt.Sprintf("order %s confirmation reversed", o.ID)
	for _, item := range applied {
		// best effort: a failed reversal leaves a reconciliation trail in the
		// movement history rather than blocking the error return
		_ = s.stock.Release(ctx, o.BusinessID, item.ProductID, item.Quantity, reason, actorID)
	}
}

// releaseStock returns each line item to the ledger after the released state
// has been committed on the order.
func (s *Service) releaseStock(ctx context.Context, o *order.Order, reason string, actorID uuid.UUID) {
	for _, item := range o.Items {
		// best effort: a failed release is left to ledger reconciliation
		// rather than unwinding a committed cancellation
		_ = s.stock.Release(ctx, o.BusinessID, item.ProductID, item.Quantity, reason, actorID)
	}
}
