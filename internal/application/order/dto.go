package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/order"
)

// CheckoutItem is one requested line at checkout
type CheckoutItem struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,min=1,max=255"`
	Quantity    int64           `json:"quantity" binding:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// CheckoutRequest creates a pending order
type CheckoutRequest struct {
	CustomerID      uuid.UUID      `json:"customer_id" binding:"required"`
	Items           []CheckoutItem `json:"items" binding:"required,min=1,max=50,dive"`
	DeliveryAddress string         `json:"delivery_address" binding:"omitempty,max=500"`
	Notes           string         `json:"notes" binding:"omitempty,max=500"`
}

// TransitionRequest moves an order to a target status
type TransitionRequest struct {
	Status  order.OrderStatus `json:"status" binding:"required"`
	Notes   string            `json:"notes" binding:"omitempty,max=500"`
	ActorID uuid.UUID         `json:"-"`
}

// ItemResponse represents an order line in API responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// TrackingEntryResponse represents one tracking log entry
type TrackingEntryResponse struct {
	Status    order.OrderStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// PricingResponse represents the order pricing block
type PricingResponse struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Response represents an order in API responses
type Response struct {
	ID              uuid.UUID               `json:"id"`
	BusinessID      uuid.UUID               `json:"business_id"`
	CustomerID      uuid.UUID               `json:"customer_id"`
	Status          order.OrderStatus       `json:"status"`
	Items           []ItemResponse          `json:"items"`
	Pricing         PricingResponse         `json:"pricing"`
	TrackingLog     []TrackingEntryResponse `json:"tracking_log"`
	DeliveryAddress string                  `json:"delivery_address,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	CancelReason    string                  `json:"cancel_reason,omitempty"`
	CancelledAt     *time.Time              `json:"cancelled_at,omitempty"`
	DeliveredAt     *time.Time              `json:"delivered_at,omitempty"`
	RefundedAt      *time.Time              `json:"refunded_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToResponse converts a domain order to its API representation
func ToResponse(o *order.Order) Response {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
	}

	tracking := make([]TrackingEntryResponse, len(o.TrackingLog))
	for i, entry := range o.TrackingLog {
		tracking[i] = TrackingEntryResponse{
			Status:    entry.Status,
			Notes:     entry.Notes,
			Timestamp: entry.Timestamp,
		}
	}

	return Response{
		ID:         o.ID,
		BusinessID: o.BusinessID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Items:      items,
		Pricing: PricingResponse{
			Subtotal:    o.Pricing.Subtotal,
			DeliveryFee: o.Pricing.DeliveryFee,
			ServiceFee:  o.Pricing.ServiceFee,
			Tax:         o.Pricing.Tax,
			Total:       o.Pricing.Total,
		},
		TrackingLog:     tracking,
		DeliveryAddress: o.DeliveryAddress,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		CancelledAt:     o.CancelledAt,
		DeliveredAt:     o.DeliveredAt,
		RefundedAt:      o.RefundedAt,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
