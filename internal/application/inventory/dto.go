package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/inventory"
)

// RecordResponse represents an inventory record in API responses
type RecordResponse struct {
	ID              uuid.UUID       `json:"id"`
	BusinessID      uuid.UUID       `json:"business_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductName     string          `json:"product_name"`
	SKU             string          `json:"sku,omitempty"`
	Category        string          `json:"category,omitempty"`
	CurrentStock    int64           `json:"current_stock"`
	MinimumStock    int64           `json:"minimum_stock"`
	MaximumStock    *int64          `json:"maximum_stock,omitempty"`
	ReorderPoint    *int64          `json:"reorder_point,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	StockValue      decimal.Decimal `json:"stock_value"`
	Status          string          `json:"status"`
	TrackInventory  bool            `json:"track_inventory"`
	AllowBackorders bool            `json:"allow_backorders"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	Location        string          `json:"location,omitempty"`
	Supplier        string          `json:"supplier,omitempty"`
	LastRestocked   *time.Time      `json:"last_restocked,omitempty"`
	LastSold        *time.Time      `json:"last_sold,omitempty"`
	IsActive        bool            `json:"is_active"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToRecordResponse converts a domain record to its API representation
func ToRecordResponse(r *inventory.InventoryRecord) RecordResponse {
	return RecordResponse{
		ID:              r.ID,
		BusinessID:      r.BusinessID,
		ProductID:       r.ProductID,
		ProductName:     r.ProductName,
		SKU:             r.SKU,
		Category:        r.Category,
		CurrentStock:    r.CurrentStock,
		MinimumStock:    r.MinimumStock,
		MaximumStock:    r.MaximumStock,
		ReorderPoint:    r.ReorderPoint,
		CostPrice:       r.CostPrice,
		StockValue:      r.StockValue().Amount(),
		Status:          r.StockStatus(),
		TrackInventory:  r.TrackInventory,
		AllowBackorders: r.AllowBackorders,
		ExpirationDate:  r.ExpirationDate,
		BatchNumber:     r.BatchNumber,
		Location:        r.Location,
		Supplier:        r.Supplier,
		LastRestocked:   r.LastRestocked,
		LastSold:        r.LastSold,
		IsActive:        r.IsActive,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.GetVersion(),
	}
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID            uuid.UUID                `json:"id"`
	ProductID     uuid.UUID                `json:"product_id"`
	Action        inventory.MovementAction `json:"action"`
	Quantity      int64                    `json:"quantity"`
	PreviousStock int64                    `json:"previous_stock"`
	NewStock      int64                    `json:"new_stock"`
	UnitCost      decimal.Decimal          `json:"unit_cost"`
	TotalCost     decimal.Decimal          `json:"total_cost"`
	Reason        string                   `json:"reason"`
	PerformedBy   uuid.UUID                `json:"performed_by"`
	OccurredAt    time.Time                `json:"occurred_at"`
}

// ToMovementResponse converts a domain movement to its API representation
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Action:        m.Action,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		UnitCost:      m.UnitCost,
		TotalCost:     m.TotalCost,
		Reason:        m.Reason,
		PerformedBy:   m.PerformedBy,
		OccurredAt:    m.OccurredAt,
	}
}

// UpsertRecordRequest carries a partial record update. Nil fields are left
// untouched; InitialStock only applies when the record is being created.
type UpsertRecordRequest struct {
	ProductName     *string          `json:"product_name" binding:"omitempty,min=1,max=255"`
	SKU             *string          `json:"sku" binding:"omitempty,max=100"`
	Category        *string          `json:"category" binding:"omitempty,max=100"`
	BusinessType    string           `json:"business_type" binding:"omitempty,oneof=restaurant grocery pharmacy retail"`
	InitialStock    *int64           `json:"initial_stock" binding:"omitempty,min=0"`
	MinimumStock    *int64           `json:"minimum_stock" binding:"omitempty,min=0"`
	MaximumStock    *int64           `json:"maximum_stock" binding:"omitempty,min=0"`
	ReorderPoint    *int64           `json:"reorder_point" binding:"omitempty,min=0"`
	CostPrice       *decimal.Decimal `json:"cost_price"`
	TrackInventory  *bool            `json:"track_inventory"`
	AllowBackorders *bool            `json:"allow_backorders"`
	ExpirationDate  *time.Time       `json:"expiration_date"`
	BatchNumber     *string          `json:"batch_number" binding:"omitempty,max=100"`
	Location        *string          `json:"location" binding:"omitempty,max=100"`
	Supplier        *string          `json:"supplier" binding:"omitempty,max=255"`
	IsActive        *bool            `json:"is_active"`
	ActorID         uuid.UUID        `json:"-"`
}

// AdjustStockRequest carries one signed stock adjustment
type AdjustStockRequest struct {
	Delta    int64            `json:"delta" binding:"required"`
	Reason   string           `json:"reason" binding:"required,min=1,max=500"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
	ActorID  uuid.UUID        `json:"-"`
}

// RestockRequest carries a supplier delivery
type RestockRequest struct {
	Quantity       int64            `json:"quantity" binding:"required,min=1"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	Supplier       string           `json:"supplier" binding:"omitempty,max=255"`
	BatchNumber    string           `json:"batch_number" binding:"omitempty,max=100"`
	ExpirationDate *time.Time       `json:"expiration_date"`
	ActorID        uuid.UUID        `json:"-"`
}

// BulkAdjustItem is one line of a bulk adjustment
type BulkAdjustItem struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Delta     int64     `json:"delta" binding:"required"`
	Reason    string    `json:"reason" binding:"required,min=1,max=500"`
}

// BulkAdjustRequest carries several independent adjustments.
// Items commit or fail independently; the batch is not atomic.
type BulkAdjustRequest struct {
	Items   []BulkAdjustItem `json:"items" binding:"required,min=1,max=100,dive"`
	ActorID uuid.UUID        `json:"-"`
}

// BulkAdjustItemError describes one failed line of a bulk adjustment
type BulkAdjustItemError struct {
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
}

// BulkAdjustResponse reports per-item outcomes of a bulk adjustment
type BulkAdjustResponse struct {
	Successful int                   `json:"successful"`
	Failed     int                   `json:"failed"`
	Results    []RecordResponse      `json:"results"`
	Errors     []BulkAdjustItemError `json:"errors"`
}

// AlertsResponse bundles current alerts with their summary
type AlertsResponse struct {
	Alerts  []inventory.Alert      `json:"alerts"`
	Summary inventory.AlertSummary `json:"summary"`
}

// ReportRow is one line of the inventory report
type ReportRow struct {
	ProductName   string          `json:"product_name"`
	SKU           string          `json:"sku"`
	Category      string          `json:"category"`
	CurrentStock  int64           `json:"current_stock"`
	MinimumStock  int64           `json:"minimum_stock"`
	Status        string          `json:"status"`
	StockValue    decimal.Decimal `json:"stock_value"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	LastRestocked *time.Time      `json:"last_restocked,omitempty"`
	Supplier      string          `json:"supplier"`
}

// ReportResponse is the full ledger snapshot
type ReportResponse struct {
	GeneratedAt     time.Time       `json:"generated_at"`
	TotalProducts   int             `json:"total_products"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	Rows            []ReportRow     `json:"rows"`
}
