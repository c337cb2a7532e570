package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/shared"
)

// MovementAction classifies why a stock movement happened
type MovementAction string

const (
	ActionInitial    MovementAction = "initial"    // first stock set on record creation
	ActionRestock    MovementAction = "restock"    // supplier delivery
	ActionSale       MovementAction = "sale"       // consumed by order fulfillment
	ActionAdjustment MovementAction = "adjustment" // manual correction
	ActionExpired    MovementAction = "expired"    // written off past expiration
)

// IsValid checks if the movement action is a known value
func (a MovementAction) IsValid() bool {
	switch a {
	case ActionInitial, ActionRestock, ActionSale, ActionAdjustment, ActionExpired:
		return true
	}
	return false
}

// String returns the string representation
func (a MovementAction) String() string {
	return string(a)
}

// StockMovement is one append-only audit entry in a record's stock history.
// Entries are never updated or deleted; consecutive entries for the same
// record chain through PreviousStock == prior entry's NewStock.
//
// Quantity is the applied magnitude |NewStock - PreviousStock|. It matches the
// requested delta except when the zero floor truncates a backorder oversell.
type StockMovement struct {
	shared.BaseEntity
	BusinessID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_business_record,priority:1"`
	RecordID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_movements_business_record,priority:2"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Action        MovementAction  `gorm:"type:varchar(20);not null"`
	Quantity      int64           `gorm:"not null"`
	PreviousStock int64           `gorm:"not null"`
	NewStock      int64           `gorm:"not null"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reason        string          `gorm:"type:varchar(500);not null"`
	PerformedBy   uuid.UUID       `gorm:"type:uuid;not null"`
	OccurredAt    time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an audit entry for an applied stock change
func NewStockMovement(record *InventoryRecord, action MovementAction, previousStock, newStock int64, reason string, performedBy uuid.UUID, unitCost decimal.Decimal) (*StockMovement, error) {
	if record == nil {
		return nil, shared.NewDomainError("INVALID_RECORD", "Inventory record cannot be nil")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid stock movement action")
	}
	if previousStock < 0 || newStock < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock levels cannot be negative")
	}

	quantity := newStock - previousStock
	if quantity < 0 {
		quantity = -quantity
	}

	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		BusinessID:    record.BusinessID,
		RecordID:      record.ID,
		ProductID:     record.ProductID,
		Action:        action,
		Quantity:      quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		UnitCost:      unitCost,
		TotalCost:     unitCost.Mul(decimal.NewFromInt(quantity)),
		Reason:        reason,
		PerformedBy:   performedBy,
		OccurredAt:    time.Now(),
	}, nil
}

// IsInbound returns true if the movement increased stock
func (m *StockMovement) IsInbound() bool {
	return m.NewStock > m.PreviousStock
}

// SignedQuantity returns the quantity with direction applied
func (m *StockMovement) SignedQuantity() int64 {
	return m.NewStock - m.PreviousStock
}
