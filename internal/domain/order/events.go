package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/shared"
)

// Event type constants for the order context
const (
	EventTypeOrderCreated   = "order.created"
	EventTypeOrderConfirmed = "order.confirmed"
	EventTypeOrderDelivered = "order.delivered"
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeOrderRefunded  = "order.refunded"
)

// OrderCreatedEvent is emitted at checkout
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	ItemCount  int             `json:"item_count"`
	Total      decimal.Decimal `json:"total"`
}

// NewOrderCreatedEvent creates an order created event
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", o.ID, o.BusinessID),
		CustomerID:      o.CustomerID,
		ItemCount:       len(o.Items),
		Total:           o.Pricing.Total,
	}
}

// EventType returns the event type
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderConfirmedEvent is emitted when stock has been consumed and the order admitted
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewOrderConfirmedEvent creates an order confirmed event
func NewOrderConfirmedEvent(o *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, "Order", o.ID, o.BusinessID),
		CustomerID:      o.CustomerID,
		Total:           o.Pricing.Total,
	}
}

// EventType returns the event type
func (e *OrderConfirmedEvent) EventType() string {
	return EventTypeOrderConfirmed
}

// OrderDeliveredEvent is emitted on completion of the delivery chain
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	Total       decimal.Decimal `json:"total"`
	DeliveredAt time.Time       `json:"delivered_at"`
}

// NewOrderDeliveredEvent creates an order delivered event
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	var deliveredAt time.Time
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, "Order", o.ID, o.BusinessID),
		CustomerID:      o.CustomerID,
		Total:           o.Pricing.Total,
		DeliveredAt:     deliveredAt,
	}
}

// EventType returns the event type
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}

// OrderCancelledEvent is emitted when an order is cancelled pre-delivery
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Reason     string    `json:"reason"`
}

// NewOrderCancelledEvent creates an order cancelled event
func NewOrderCancelledEvent(o *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "Order", o.ID, o.BusinessID),
		CustomerID:      o.CustomerID,
		Reason:          reason,
	}
}

// EventType returns the event type
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}

// OrderRefundedEvent is emitted when a delivered order is refunded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
}

// NewOrderRefundedEvent creates an order refunded event
func NewOrderRefundedEvent(o *Order) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, "Order", o.ID, o.BusinessID),
		CustomerID:      o.CustomerID,
		Total:           o.Pricing.Total,
	}
}

// EventType returns the event type
func (e *OrderRefundedEvent) EventType() string {
	return EventTypeOrderRefunded
}
