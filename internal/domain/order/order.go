package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/shared"
)

// OrderItem is one line of an order. Product name and unit price are
// snapshotted at checkout so later catalog changes never rewrite history.
type OrderItem struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// TrackingEntry records one status change. The tracking log is append-only;
// one entry is written per successful transition plus the seed pending entry.
type TrackingEntry struct {
	shared.BaseEntity
	OrderID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status    OrderStatus `gorm:"type:varchar(20);not null"`
	Notes     string      `gorm:"type:varchar(500)"`
	ActorID   uuid.UUID   `gorm:"type:uuid"`
	Timestamp time.Time   `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (TrackingEntry) TableName() string {
	return "order_tracking_entries"
}

// Pricing holds the amounts computed once at checkout
type Pricing struct {
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ServiceFee  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Tax         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// Order is the fulfillment aggregate. Its content is immutable after
// checkout; only Status, the tracking log and the cancellation/refund
// bookkeeping ever change.
type Order struct {
	shared.BusinessAggregateRoot
	CustomerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID"`
	Pricing         Pricing         `gorm:"embedded;embeddedPrefix:pricing_"`
	TrackingLog     []TrackingEntry `gorm:"foreignKey:OrderID"`
	StockConsumed   bool            `gorm:"not null;default:false"`
	DeliveryAddress string          `gorm:"type:varchar(500)"`
	Notes           string          `gorm:"type:varchar(500)"`
	CancelReason    string          `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time      `gorm:"type:timestamptz"`
	DeliveredAt     *time.Time      `gorm:"type:timestamptz"`
	RefundedAt      *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderItem creates an order line with the subtotal computed
func NewOrderItem(productID uuid.UUID, productName string, quantity int64, unitPrice decimal.Decimal) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity <= 0 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return OrderItem{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(quantity)),
	}, nil
}

// NewOrder creates a pending order with its seed tracking entry
func NewOrder(businessID, customerID uuid.UUID, items []OrderItem, pricing Pricing, deliveryAddress string) (*Order, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}

	o := &Order{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		CustomerID:            customerID,
		Status:                StatusPending,
		Items:                 make([]OrderItem, len(items)),
		Pricing:               pricing,
		DeliveryAddress:       deliveryAddress,
	}
	copy(o.Items, items)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	o.TrackingLog = []TrackingEntry{{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		Status:     StatusPending,
		Notes:      "order placed",
		ActorID:    customerID,
		Timestamp:  o.CreatedAt,
	}}

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// TransitionTo moves the order to the target status, enforcing the
// fulfillment graph, and appends exactly one tracking entry.
func (o *Order) TransitionTo(target OrderStatus, actorID uuid.UUID, notes string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+target.String())
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.ErrInvalidTransition
	}

	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.IncrementVersion()

	o.TrackingLog = append(o.TrackingLog, TrackingEntry{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		Status:     target,
		Notes:      notes,
		ActorID:    actorID,
		Timestamp:  now,
	})

	switch target {
	case StatusConfirmed:
		o.AddDomainEvent(NewOrderConfirmedEvent(o))
	case StatusDelivered:
		o.DeliveredAt = &now
		o.AddDomainEvent(NewOrderDeliveredEvent(o))
	case StatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = notes
		o.AddDomainEvent(NewOrderCancelledEvent(o, notes))
	case StatusRefunded:
		o.RefundedAt = &now
		o.AddDomainEvent(NewOrderRefundedEvent(o))
	}

	return nil
}

// MarkStockConsumed flags the order's stock as consumed.
// Guards against consuming twice.
func (o *Order) MarkStockConsumed() error {
	if o.StockConsumed {
		return shared.NewDomainError("STOCK_ALREADY_CONSUMED", "Order stock has already been consumed")
	}
	o.StockConsumed = true
	return nil
}

// MarkStockReleased flags previously consumed stock as released.
// Guards against releasing stock that was never consumed.
func (o *Order) MarkStockReleased() error {
	if !o.StockConsumed {
		return shared.NewDomainError("STOCK_NOT_CONSUMED", "Order stock was never consumed")
	}
	o.StockConsumed = false
	return nil
}

// TotalQuantity returns the summed quantity across all items
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// ComputePricing derives the pricing block from the item subtotals and the
// business fee schedule. Rates are fractions (0.05 for 5%).
func ComputePricing(items []OrderItem, deliveryFee, serviceFeeRate, taxRate decimal.Decimal) Pricing {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
	}

	serviceFee := subtotal.Mul(serviceFeeRate).Round(2)
	tax := subtotal.Mul(taxRate).Round(2)

	return Pricing{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		ServiceFee:  serviceFee,
		Tax:         tax,
		Total:       subtotal.Add(deliveryFee).Add(serviceFee).Add(tax),
	}
}
