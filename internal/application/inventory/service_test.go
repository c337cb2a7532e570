package inventory

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

func newTestService(t *testing.T) (*Service, *MockRecordRepository, *MockMovementRepository) {
	t.Helper()
	recordRepo := new(MockRecordRepository)
	movementRepo := new(MockMovementRepository)
	svc := NewService(recordRepo, movementRepo, NewNoOpTransactionScope(recordRepo, movementRepo))
	return svc, recordRepo, movementRepo
}

func seedRecord(businessID, productID uuid.UUID, stock int64) *inventory.InventoryRecord {
	record, _ := inventory.NewInventoryRecord(businessID, productID, "Sourdough Loaf")
	record.CurrentStock = stock
	return record
}

func TestGet(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 12)

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)

	resp, err := svc.Get(context.Background(), businessID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.CurrentStock)
	assert.Equal(t, productID, resp.ProductID)
}

func TestGet_NotFound(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(nil, shared.ErrNotFound)

	_, err := svc.Get(context.Background(), businessID, productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpsert_CreatesRecordWithInitialMovement(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(nil, shared.ErrNotFound)
	recordRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	name := "Sourdough Loaf"
	initial := int64(20)
	resp, err := svc.Upsert(context.Background(), businessID, productID, UpsertRecordRequest{
		ProductName:  &name,
		InitialStock: &initial,
		ActorID:      uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), resp.CurrentStock)
	movementRepo.AssertNumberOfCalls(t, "Save", 1)
	saved := movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.ActionInitial, saved.Action)
	assert.Equal(t, int64(0), saved.PreviousStock)
	assert.Equal(t, int64(20), saved.NewStock)
}

func TestUpsert_CreateWithoutNameFails(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(nil, shared.ErrNotFound)

	_, err := svc.Upsert(context.Background(), businessID, productID, UpsertRecordRequest{})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestUpsert_MergesExistingFields(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 5)
	record.SKU = "SKU-OLD"

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)
	recordRepo.On("SaveWithLock", mock.Anything, record).Return(nil)

	minStock := int64(3)
	resp, err := svc.Upsert(context.Background(), businessID, productID, UpsertRecordRequest{MinimumStock: &minStock})
	require.NoError(t, err)

	assert.Equal(t, int64(3), resp.MinimumStock)
	assert.Equal(t, "SKU-OLD", resp.SKU)
	assert.Equal(t, int64(5), resp.CurrentStock)
}

func TestUpsert_RejectsInvalidCategoryForBusinessType(t *testing.T) {
	svc, _, _ := newTestService(t)
	category := "produce"

	_, err := svc.Upsert(context.Background(), uuid.New(), uuid.New(), UpsertRecordRequest{
		Category:     &category,
		BusinessType: "restaurant",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestAdjust_Success(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 10)

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)
	recordRepo.On("SaveWithLock", mock.Anything, record).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	resp, err := svc.Adjust(context.Background(), businessID, productID, AdjustStockRequest{
		Delta:   -4,
		Reason:  "damaged goods",
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), resp.CurrentStock)
}

func TestAdjust_InsufficientStock(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 2)

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)

	_, err := svc.Adjust(context.Background(), businessID, productID, AdjustStockRequest{
		Delta:   -5,
		Reason:  "oversell attempt",
		ActorID: uuid.New(),
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	recordRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	movementRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAdjust_RetriesOnVersionConflict(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	// fresh record per read, the way a real repository rehydrates state
	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).
		Return(seedRecord(businessID, productID, 10), nil).Once()
	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).
		Return(seedRecord(businessID, productID, 10), nil).Once()
	recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).
		Return(shared.ErrConcurrencyConflict).Once()
	recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).
		Return(nil).Once()
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	resp, err := svc.Adjust(context.Background(), businessID, productID, AdjustStockRequest{
		Delta:   -3,
		Reason:  "sold at counter",
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.CurrentStock)
	recordRepo.AssertNumberOfCalls(t, "FindByProduct", 2)
}

func TestAdjust_ConflictAfterExhaustedRetries(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).
		Return(seedRecord(businessID, productID, 10), nil)
	recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).
		Return(shared.ErrConcurrencyConflict)

	_, err := svc.Adjust(context.Background(), businessID, productID, AdjustStockRequest{
		Delta:   -3,
		Reason:  "contention",
		ActorID: uuid.New(),
	})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	recordRepo.AssertNumberOfCalls(t, "FindByProduct", 3)
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

func TestAdjust_PublishesStockAlerts(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	publisher := &capturingPublisher{}
	svc.SetEventPublisher(publisher)

	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 6)
	record.MinimumStock = 5

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)
	recordRepo.On("SaveWithLock", mock.Anything, record).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	_, err := svc.Adjust(context.Background(), businessID, productID, AdjustStockRequest{
		Delta:   -2,
		Reason:  "sold at counter",
		ActorID: uuid.New(),
	})
	require.NoError(t, err)

	assert.Contains(t, publisher.eventTypes(), inventory.EventTypeStockAdjusted)
	assert.Contains(t, publisher.eventTypes(), inventory.EventTypeStockBelowThreshold)
}

func TestBulkAdjust_PartialSuccess(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID := uuid.New()
	okProduct, shortProduct, missingProduct := uuid.New(), uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, okProduct).
		Return(seedRecord(businessID, okProduct, 10), nil)
	recordRepo.On("FindByProduct", mock.Anything, businessID, shortProduct).
		Return(seedRecord(businessID, shortProduct, 1), nil)
	recordRepo.On("FindByProduct", mock.Anything, businessID, missingProduct).
		Return(nil, shared.ErrNotFound)
	recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	resp, err := svc.BulkAdjust(context.Background(), businessID, BulkAdjustRequest{
		ActorID: uuid.New(),
		Items: []BulkAdjustItem{
			{ProductID: okProduct, Delta: -2, Reason: "sold"},
			{ProductID: shortProduct, Delta: -5, Reason: "sold"},
			{ProductID: missingProduct, Delta: 1, Reason: "found"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Successful)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Errors[0].Code)
	assert.Equal(t, "NOT_FOUND", resp.Errors[1].Code)
}

func TestRestock_UpdatesMetadataAndStock(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 5)

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)
	recordRepo.On("SaveWithLock", mock.Anything, record).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	cost := decimal.NewFromFloat(1.75)
	resp, err := svc.Restock(context.Background(), businessID, productID, RestockRequest{
		Quantity: 30,
		UnitCost: &cost,
		Supplier: "Acme Foods",
		ActorID:  uuid.New(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(35), resp.CurrentStock)
	assert.Equal(t, "Acme Foods", resp.Supplier)
	assert.True(t, resp.CostPrice.Equal(cost))

	saved := movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.ActionRestock, saved.Action)
	assert.True(t, saved.TotalCost.Equal(decimal.NewFromFloat(52.5)))
}

func TestWriteOffExpired(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).
		Return(seedRecord(businessID, productID, 8), nil)
	recordRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*inventory.InventoryRecord")).Return(nil)
	movementRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	resp, err := svc.WriteOffExpired(context.Background(), businessID, productID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.CurrentStock)

	saved := movementRepo.Calls[0].Arguments.Get(1).(*inventory.StockMovement)
	assert.Equal(t, inventory.ActionExpired, saved.Action)
	assert.Equal(t, int64(8), saved.Quantity)
}

func TestWriteOffExpired_NothingToWriteOff(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).
		Return(seedRecord(businessID, productID, 0), nil)

	_, err := svc.WriteOffExpired(context.Background(), businessID, productID, uuid.New())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOTHING_TO_WRITE_OFF", domainErr.Code)
}

func TestAlerts(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID := uuid.New()

	out := seedRecord(businessID, uuid.New(), 0)
	low := seedRecord(businessID, uuid.New(), 2)
	low.MinimumStock = 5

	recordRepo.On("FindAllByBusiness", mock.Anything, businessID).
		Return([]*inventory.InventoryRecord{out, low}, nil)

	resp, err := svc.Alerts(context.Background(), businessID)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 1, resp.Summary.OutOfStock)
	assert.Equal(t, 1, resp.Summary.LowStock)
	require.Len(t, resp.Alerts, 2)
	assert.Equal(t, inventory.AlertOutOfStock, resp.Alerts[0].Type)
}

func TestReportCSV(t *testing.T) {
	svc, recordRepo, _ := newTestService(t)
	businessID := uuid.New()

	record := seedRecord(businessID, uuid.New(), 10)
	record.SKU = "BRD-001"
	record.CostPrice = decimal.NewFromFloat(2.50)

	recordRepo.On("FindAllByBusiness", mock.Anything, businessID).
		Return([]*inventory.InventoryRecord{record}, nil)

	data, err := svc.ReportCSV(context.Background(), businessID)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Product Name")
	assert.Contains(t, lines[1], "Sourdough Loaf")
	assert.Contains(t, lines[1], "BRD-001")
	assert.Contains(t, lines[1], "25.00")
}

func TestHistory(t *testing.T) {
	svc, recordRepo, movementRepo := newTestService(t)
	businessID, productID := uuid.New(), uuid.New()
	record := seedRecord(businessID, productID, 10)

	movement, err := inventory.NewStockMovement(record, inventory.ActionRestock, 0, 10, "initial", uuid.New(), decimal.Zero)
	require.NoError(t, err)

	recordRepo.On("FindByProduct", mock.Anything, businessID, productID).Return(record, nil)
	movementRepo.On("FindByRecord", mock.Anything, businessID, record.ID, mock.AnythingOfType("shared.Filter")).
		Return(shared.NewPaginated([]*inventory.StockMovement{movement}, 1, 1, 20), nil)

	resp, err := svc.History(context.Background(), businessID, productID, shared.DefaultFilter())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, inventory.ActionRestock, resp.Items[0].Action)
}
