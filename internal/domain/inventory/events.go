package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/quickdash/backend/internal/domain/shared"
)

// Event type constants for the inventory context
const (
	EventTypeStockAdjusted       = "inventory.stock_adjusted"
	EventTypeStockBelowThreshold = "inventory.stock_below_threshold"
	EventTypeStockDepleted       = "inventory.stock_depleted"
	EventTypeStockExpiringSoon   = "inventory.stock_expiring_soon"
	EventTypeRecordCreated       = "inventory.record_created"
)

// StockAdjustedEvent is emitted whenever a movement is applied to a record
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID      `json:"product_id"`
	ProductName   string         `json:"product_name"`
	Action        MovementAction `json:"action"`
	Quantity      int64          `json:"quantity"`
	PreviousStock int64          `json:"previous_stock"`
	NewStock      int64          `json:"new_stock"`
	Reason        string         `json:"reason"`
	PerformedBy   uuid.UUID      `json:"performed_by"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(record *InventoryRecord, movement *StockMovement) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, "InventoryRecord", record.ID, record.BusinessID),
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
		Action:          movement.Action,
		Quantity:        movement.Quantity,
		PreviousStock:   movement.PreviousStock,
		NewStock:        movement.NewStock,
		Reason:          movement.Reason,
		PerformedBy:     movement.PerformedBy,
	}
}

// EventType returns the event type
func (e *StockAdjustedEvent) EventType() string {
	return EventTypeStockAdjusted
}

// StockBelowThresholdEvent is emitted when stock falls to or below the minimum
type StockBelowThresholdEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CurrentStock int64     `json:"current_stock"`
	MinimumStock int64     `json:"minimum_stock"`
}

// NewStockBelowThresholdEvent creates a low stock event
func NewStockBelowThresholdEvent(record *InventoryRecord) *StockBelowThresholdEvent {
	return &StockBelowThresholdEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowThreshold, "InventoryRecord", record.ID, record.BusinessID),
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
		CurrentStock:    record.CurrentStock,
		MinimumStock:    record.MinimumStock,
	}
}

// EventType returns the event type
func (e *StockBelowThresholdEvent) EventType() string {
	return EventTypeStockBelowThreshold
}

// StockDepletedEvent is emitted when an outbound movement drains stock to zero
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
}

// NewStockDepletedEvent creates a stock depleted event
func NewStockDepletedEvent(record *InventoryRecord) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, "InventoryRecord", record.ID, record.BusinessID),
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
	}
}

// EventType returns the event type
func (e *StockDepletedEvent) EventType() string {
	return EventTypeStockDepleted
}

// StockExpiringSoonEvent is emitted when a record enters the expiry warning window
type StockExpiringSoonEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	BatchNumber    string    `json:"batch_number"`
	ExpirationDate time.Time `json:"expiration_date"`
	CurrentStock   int64     `json:"current_stock"`
}

// NewStockExpiringSoonEvent creates an expiring soon event
func NewStockExpiringSoonEvent(record *InventoryRecord) *StockExpiringSoonEvent {
	var expiry time.Time
	if record.ExpirationDate != nil {
		expiry = *record.ExpirationDate
	}
	return &StockExpiringSoonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockExpiringSoon, "InventoryRecord", record.ID, record.BusinessID),
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
		BatchNumber:     record.BatchNumber,
		ExpirationDate:  expiry,
		CurrentStock:    record.CurrentStock,
	}
}

// EventType returns the event type
func (e *StockExpiringSoonEvent) EventType() string {
	return EventTypeStockExpiringSoon
}

// RecordCreatedEvent is emitted when a new ledger record is created
type RecordCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	InitialStock int64     `json:"initial_stock"`
}

// NewRecordCreatedEvent creates a record created event
func NewRecordCreatedEvent(record *InventoryRecord) *RecordCreatedEvent {
	return &RecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCreated, "InventoryRecord", record.ID, record.BusinessID),
		ProductID:       record.ProductID,
		ProductName:     record.ProductName,
		InitialStock:    record.CurrentStock,
	}
}

// EventType returns the event type
func (e *RecordCreatedEvent) EventType() string {
	return EventTypeRecordCreated
}
