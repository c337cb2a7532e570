package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/shared"
	"github.com/quickdash/backend/internal/domain/shared/valueobject"
)

// InventoryRecord is the authoritative stock ledger for one product at one
// business. It is the aggregate root for all stock operations; the composite
// identifier is BusinessID + ProductID.
type InventoryRecord struct {
	shared.BusinessAggregateRoot
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_record_business_product,priority:2"`
	ProductName     string          `gorm:"type:varchar(255);not null"`
	SKU             string          `gorm:"type:varchar(100)"`
	Category        string          `gorm:"type:varchar(100)"`
	CurrentStock    int64           `gorm:"not null;default:0"`
	MinimumStock    int64           `gorm:"not null;default:0"`
	MaximumStock    *int64          `gorm:""`
	ReorderPoint    *int64          `gorm:""`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TrackInventory  bool            `gorm:"not null;default:true"`
	AllowBackorders bool            `gorm:"not null;default:false"`
	ExpirationDate  *time.Time      `gorm:"type:timestamptz"`
	BatchNumber     string          `gorm:"type:varchar(100)"`
	Location        string          `gorm:"type:varchar(100)"`
	Supplier        string          `gorm:"type:varchar(255)"`
	LastRestocked   *time.Time      `gorm:"type:timestamptz"`
	LastSold        *time.Time      `gorm:"type:timestamptz"`
	IsActive        bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// NewInventoryRecord creates a new ledger record for a business-product combination
func NewInventoryRecord(businessID, productID uuid.UUID, productName string) (*InventoryRecord, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}

	return &InventoryRecord{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		ProductID:             productID,
		ProductName:           productName,
		CostPrice:             decimal.Zero,
		TrackInventory:        true,
		IsActive:              true,
	}, nil
}

// Adjust applies a signed stock delta and returns the audit entry describing it.
// The returned movement must be persisted atomically with the record.
//
// When the delta would drive stock negative and backorders are disabled, the
// call fails with ErrInsufficientStock and the record is unchanged. When
// backorders are allowed, the persisted stock is floored at zero; the movement
// then records the applied magnitude so the audit chain stays contiguous.
func (r *InventoryRecord) Adjust(delta int64, action MovementAction, reason string, actorID uuid.UUID, unitCost decimal.Decimal) (*StockMovement, error) {
	if delta == 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment delta cannot be zero")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid stock movement action")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Adjustment reason is required")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	previous := r.CurrentStock
	target := previous + delta

	if target < 0 && r.TrackInventory && !r.AllowBackorders {
		return nil, shared.ErrInsufficientStock
	}

	// Nonnegative floor: overselling under backorders never persists a
	// negative balance.
	if target < 0 {
		target = 0
	}

	now := time.Now()
	r.CurrentStock = target
	if delta > 0 {
		r.LastRestocked = &now
	} else {
		r.LastSold = &now
	}
	r.UpdatedAt = now
	r.IncrementVersion()

	movement, err := NewStockMovement(r, action, previous, target, reason, actorID, unitCost)
	if err != nil {
		return nil, err
	}

	r.AddDomainEvent(NewStockAdjustedEvent(r, movement))
	if r.TrackInventory && r.IsActive {
		if r.CurrentStock == 0 && delta < 0 {
			r.AddDomainEvent(NewStockDepletedEvent(r))
		} else if r.IsBelowMinimum() {
			r.AddDomainEvent(NewStockBelowThresholdEvent(r))
		}
	}

	return movement, nil
}

// UpdatableFields carries the optional fields of an upsert request.
// Nil pointers leave the corresponding field untouched.
type UpdatableFields struct {
	ProductName     *string
	SKU             *string
	Category        *string
	MinimumStock    *int64
	MaximumStock    *int64
	ReorderPoint    *int64
	CostPrice       *decimal.Decimal
	TrackInventory  *bool
	AllowBackorders *bool
	ExpirationDate  *time.Time
	BatchNumber     *string
	Location        *string
	Supplier        *string
	IsActive        *bool
}

// ApplyFields merges the provided fields into the record. Only non-nil fields
// are written. Threshold invariants are validated against the merged values.
func (r *InventoryRecord) ApplyFields(fields UpdatableFields) error {
	minStock := r.MinimumStock
	if fields.MinimumStock != nil {
		minStock = *fields.MinimumStock
	}
	maxStock := r.MaximumStock
	if fields.MaximumStock != nil {
		maxStock = fields.MaximumStock
	}

	if minStock < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot be negative")
	}
	if maxStock != nil && *maxStock < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Maximum stock cannot be negative")
	}
	if maxStock != nil && minStock > *maxStock {
		return shared.NewDomainError("VALIDATION_ERROR", "Minimum stock cannot exceed maximum stock")
	}
	if fields.ReorderPoint != nil && *fields.ReorderPoint < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Reorder point cannot be negative")
	}
	if fields.CostPrice != nil && fields.CostPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Cost price cannot be negative")
	}
	if fields.ProductName != nil && *fields.ProductName == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}

	if fields.ProductName != nil {
		r.ProductName = *fields.ProductName
	}
	if fields.SKU != nil {
		r.SKU = *fields.SKU
	}
	if fields.Category != nil {
		r.Category = *fields.Category
	}
	r.MinimumStock = minStock
	r.MaximumStock = maxStock
	if fields.ReorderPoint != nil {
		r.ReorderPoint = fields.ReorderPoint
	}
	if fields.CostPrice != nil {
		r.CostPrice = *fields.CostPrice
	}
	if fields.TrackInventory != nil {
		r.TrackInventory = *fields.TrackInventory
	}
	if fields.AllowBackorders != nil {
		r.AllowBackorders = *fields.AllowBackorders
	}
	if fields.ExpirationDate != nil {
		r.ExpirationDate = fields.ExpirationDate
	}
	if fields.BatchNumber != nil {
		r.BatchNumber = *fields.BatchNumber
	}
	if fields.Location != nil {
		r.Location = *fields.Location
	}
	if fields.Supplier != nil {
		r.Supplier = *fields.Supplier
	}
	if fields.IsActive != nil {
		r.IsActive = *fields.IsActive
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// IsOutOfStock returns true if the record has no stock left
func (r *InventoryRecord) IsOutOfStock() bool {
	return r.CurrentStock == 0
}

// IsBelowMinimum returns true if stock is at or below the minimum threshold
func (r *InventoryRecord) IsBelowMinimum() bool {
	return r.MinimumStock > 0 && r.CurrentStock > 0 && r.CurrentStock <= r.MinimumStock
}

// IsExpiringWithin returns true if the record has an expiration date inside the window
func (r *InventoryRecord) IsExpiringWithin(now time.Time, window time.Duration) bool {
	return r.ExpirationDate != nil && !r.ExpirationDate.After(now.Add(window))
}

// CanFulfill returns true if the requested quantity can be consumed
func (r *InventoryRecord) CanFulfill(quantity int64) bool {
	if !r.TrackInventory || r.AllowBackorders {
		return true
	}
	return r.CurrentStock >= quantity
}

// StockValue returns the value of the current stock at cost price
func (r *InventoryRecord) StockValue() valueobject.Money {
	return valueobject.NewMoneyUSD(r.CostPrice.Mul(decimal.NewFromInt(r.CurrentStock)))
}

// StockStatus returns a display status for reporting
func (r *InventoryRecord) StockStatus() string {
	switch {
	case !r.IsActive:
		return "inactive"
	case r.IsOutOfStock():
		return "out_of_stock"
	case r.IsBelowMinimum():
		return "low_stock"
	default:
		return "in_stock"
	}
}
