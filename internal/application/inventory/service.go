package inventory

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quickdash/backend/internal/domain/catalog"
	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

// maxAdjustRetries bounds the optimistic-lock retry loop for single
// adjustments. Conflicts past this are surfaced to the caller as retryable.
const maxAdjustRetries = 3

// Service implements the stock ledger and adjustment operations
type Service struct {
	recordRepo     inventory.RecordRepository
	movementRepo   inventory.MovementRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	expiryWindow   time.Duration
}

// NewService creates an inventory Service
func NewService(recordRepo inventory.RecordRepository, movementRepo inventory.MovementRepository, txScope TransactionScope) *Service {
	return &Service{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		expiryWindow: inventory.DefaultExpiryWindow,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetExpiryWindow overrides how far ahead expiring stock is flagged
func (s *Service) SetExpiryWindow(window time.Duration) {
	if window > 0 {
		s.expiryWindow = window
	}
}

func (s *Service) publishDomainEvents(ctx context.Context, record *inventory.InventoryRecord) {
	if s.eventPublisher == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	record.ClearDomainEvents()
}

// Get retrieves the ledger record for a business-product combination
func (s *Service) Get(ctx context.Context, businessID, productID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	response := ToRecordResponse(record)
	return &response, nil
}

// List retrieves ledger records for a business with pagination
func (s *Service) List(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (*shared.Paginated[RecordResponse], error) {
	page, err := s.recordRepo.FindByBusiness(ctx, businessID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]RecordResponse, len(page.Items))
	for i, record := range page.Items {
		items[i] = ToRecordResponse(record)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Upsert creates the ledger record on first configuration of a product or
// merges the provided fields into the existing one. Creation with a nonzero
// initial stock synthesizes one "initial" movement so the history chain
// starts from zero.
func (s *Service) Upsert(ctx context.Context, businessID, productID uuid.UUID, req UpsertRecordRequest) (*RecordResponse, error) {
	if req.Category != nil && req.BusinessType != "" {
		if !catalog.ValidCategory(catalog.BusinessType(req.BusinessType), *req.Category) {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Category %q is not valid for business type %q", *req.Category, req.BusinessType))
		}
	}

	record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
	switch {
	case err == nil:
		return s.updateExisting(ctx, record, req)
	case errors.Is(err, shared.ErrNotFound):
		return s.createNew(ctx, businessID, productID, req)
	default:
		return nil, err
	}
}

func (s *Service) createNew(ctx context.Context, businessID, productID uuid.UUID, req UpsertRecordRequest) (*RecordResponse, error) {
	if req.ProductName == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name is required when creating a record")
	}

	record, err := inventory.NewInventoryRecord(businessID, productID, *req.ProductName)
	if err != nil {
		return nil, err
	}
	if err := record.ApplyFields(toUpdatableFields(req)); err != nil {
		return nil, err
	}
	record.AddDomainEvent(inventory.NewRecordCreatedEvent(record))

	var movement *inventory.StockMovement
	if req.InitialStock != nil && *req.InitialStock > 0 {
		unitCost := record.CostPrice
		movement, err = record.Adjust(*req.InitialStock, inventory.ActionInitial, "initial stock", req.ActorID, unitCost)
		if err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RecordRepo().Save(ctx, record); err != nil {
			return err
		}
		if movement != nil {
			return repos.MovementRepo().Save(ctx, movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)
	response := ToRecordResponse(record)
	return &response, nil
}

func (s *Service) updateExisting(ctx context.Context, record *inventory.InventoryRecord, req UpsertRecordRequest) (*RecordResponse, error) {
	if err := record.ApplyFields(toUpdatableFields(req)); err != nil {
		return nil, err
	}

	if err := s.recordRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)
	response := ToRecordResponse(record)
	return &response, nil
}

func toUpdatableFields(req UpsertRecordRequest) inventory.UpdatableFields {
	return inventory.UpdatableFields{
		ProductName:     req.ProductName,
		SKU:             req.SKU,
		Category:        req.Category,
		MinimumStock:    req.MinimumStock,
		MaximumStock:    req.MaximumStock,
		ReorderPoint:    req.ReorderPoint,
		CostPrice:       req.CostPrice,
		TrackInventory:  req.TrackInventory,
		AllowBackorders: req.AllowBackorders,
		ExpirationDate:  req.ExpirationDate,
		BatchNumber:     req.BatchNumber,
		Location:        req.Location,
		Supplier:        req.Supplier,
		IsActive:        req.IsActive,
	}
}

// Adjust applies one signed stock delta under optimistic locking. On a
// version conflict the record is re-read and the delta re-applied, up to
// maxAdjustRetries attempts; exhaustion surfaces ErrConcurrencyConflict.
func (s *Service) Adjust(ctx context.Context, businessID, productID uuid.UUID, req AdjustStockRequest) (*RecordResponse, error) {
	return s.adjust(ctx, businessID, productID, req.Delta, inventory.ActionAdjustment, req.Reason, req.ActorID, req.UnitCost)
}

func (s *Service) adjust(ctx context.Context, businessID, productID uuid.UUID, delta int64, action inventory.MovementAction, reason string, actorID uuid.UUID, unitCost *decimal.Decimal) (*RecordResponse, error) {
	var lastErr error

	for attempt := 0; attempt < maxAdjustRetries; attempt++ {
		record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
		if err != nil {
			return nil, err
		}

		cost := record.CostPrice
		if unitCost != nil {
			cost = *unitCost
		}

		movement, err := record.Adjust(delta, action, reason, actorID, cost)
		if err != nil {
			return nil, err
		}

		err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
				return err
			}
			return repos.MovementRepo().Save(ctx, movement)
		})
		if err == nil {
			s.publishDomainEvents(ctx, record)
			response := ToRecordResponse(record)
			return &response, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// ConsumeForSale applies a negative delta with action "sale".
// Used by order confirmation.
func (s *Service) ConsumeForSale(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) (*RecordResponse, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
	}
	return s.adjust(ctx, businessID, productID, -quantity, inventory.ActionSale, reason, actorID, nil)
}

// Release returns previously consumed stock to the ledger.
// Used by order cancellation and refunds.
func (s *Service) Release(ctx context.Context, businessID, productID uuid.UUID, quantity int64, reason string, actorID uuid.UUID) (*RecordResponse, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Release quantity must be positive")
	}
	return s.adjust(ctx, businessID, productID, quantity, inventory.ActionAdjustment, reason, actorID, nil)
}

// BulkAdjust applies several adjustments independently. Each item commits or
// fails on its own; the response reports per-item outcomes.
func (s *Service) BulkAdjust(ctx context.Context, businessID uuid.UUID, req BulkAdjustRequest) (*BulkAdjustResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Bulk adjustment requires at least one item")
	}

	response := &BulkAdjustResponse{
		Results: make([]RecordResponse, 0, len(req.Items)),
		Errors:  make([]BulkAdjustItemError, 0),
	}

	for _, item := range req.Items {
		result, err := s.adjust(ctx, businessID, item.ProductID, item.Delta, inventory.ActionAdjustment, item.Reason, req.ActorID, nil)
		if err != nil {
			response.Failed++
			response.Errors = append(response.Errors, BulkAdjustItemError{
				ProductID: item.ProductID,
				Code:      errorCode(err),
				Message:   err.Error(),
			})
			continue
		}
		response.Successful++
		response.Results = append(response.Results, *result)
	}

	return response, nil
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL_ERROR"
}

// Restock applies a supplier delivery: positive adjustment plus the
// supplier/batch/cost metadata carried on the request.
func (s *Service) Restock(ctx context.Context, businessID, productID uuid.UUID, req RestockRequest) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	fields := inventory.UpdatableFields{}
	if req.Supplier != "" {
		fields.Supplier = &req.Supplier
	}
	if req.BatchNumber != "" {
		fields.BatchNumber = &req.BatchNumber
	}
	if req.ExpirationDate != nil {
		fields.ExpirationDate = req.ExpirationDate
	}
	if req.UnitCost != nil {
		fields.CostPrice = req.UnitCost
	}
	if err := record.ApplyFields(fields); err != nil {
		return nil, err
	}

	cost := record.CostPrice
	movement, err := record.Adjust(req.Quantity, inventory.ActionRestock, "supplier restock", req.ActorID, cost)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RecordRepo().SaveWithLock(ctx, record); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, record)
	response := ToRecordResponse(record)
	return &response, nil
}

// WriteOffExpired zeroes the remaining stock of an expired record with one
// "expired" movement. A record with no stock is a no-op error.
func (s *Service) WriteOffExpired(ctx context.Context, businessID, productID uuid.UUID, actorID uuid.UUID) (*RecordResponse, error) {
	record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}
	if record.CurrentStock == 0 {
		return nil, shared.NewDomainError("NOTHING_TO_WRITE_OFF", "Record has no stock to write off")
	}

	return s.adjust(ctx, businessID, productID, -record.CurrentStock, inventory.ActionExpired, "expired stock write-off", actorID, nil)
}

// Alerts recomputes the alert list from the current ledger. Nothing is
// cached or stored, so the view can never go stale.
func (s *Service) Alerts(ctx context.Context, businessID uuid.UUID) (*AlertsResponse, error) {
	records, err := s.recordRepo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	alerts := inventory.GenerateAlerts(records, time.Now(), s.expiryWindow)
	return &AlertsResponse{
		Alerts:  alerts,
		Summary: inventory.SummarizeAlerts(alerts),
	}, nil
}

// Report builds a full ledger snapshot for a business
func (s *Service) Report(ctx context.Context, businessID uuid.UUID) (*ReportResponse, error) {
	records, err := s.recordRepo.FindAllByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	report := &ReportResponse{
		GeneratedAt:     time.Now(),
		TotalProducts:   len(records),
		TotalStockValue: decimal.Zero,
		Rows:            make([]ReportRow, 0, len(records)),
	}

	for _, r := range records {
		value := r.StockValue().Amount()
		report.TotalStockValue = report.TotalStockValue.Add(value)
		report.Rows = append(report.Rows, ReportRow{
			ProductName:   r.ProductName,
			SKU:           r.SKU,
			Category:      r.Category,
			CurrentStock:  r.CurrentStock,
			MinimumStock:  r.MinimumStock,
			Status:        r.StockStatus(),
			StockValue:    value,
			CostPrice:     r.CostPrice,
			LastRestocked: r.LastRestocked,
			Supplier:      r.Supplier,
		})
	}

	return report, nil
}

// ReportCSV renders the ledger snapshot as CSV with a fixed column set
func (s *Service) ReportCSV(ctx context.Context, businessID uuid.UUID) ([]byte, error) {
	report, err := s.Report(ctx, businessID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Product Name", "SKU", "Current Stock", "Minimum Stock", "Status", "Stock Value", "Cost Price", "Last Restocked", "Supplier"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range report.Rows {
		lastRestocked := ""
		if row.LastRestocked != nil {
			lastRestocked = row.LastRestocked.Format(time.RFC3339)
		}
		err := w.Write([]string{
			row.ProductName,
			row.SKU,
			fmt.Sprintf("%d", row.CurrentStock),
			fmt.Sprintf("%d", row.MinimumStock),
			row.Status,
			row.StockValue.StringFixed(2),
			row.CostPrice.StringFixed(2),
			lastRestocked,
			row.Supplier,
		})
		if err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// History retrieves the movement log for a product, newest first
func (s *Service) History(ctx context.Context, businessID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[MovementResponse], error) {
	record, err := s.recordRepo.FindByProduct(ctx, businessID, productID)
	if err != nil {
		return nil, err
	}

	page, err := s.movementRepo.FindByRecord(ctx, businessID, record.ID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]MovementResponse, len(page.Items))
	for i, m := range page.Items {
		items[i] = ToMovementResponse(m)
	}
	result := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &result, nil
}
