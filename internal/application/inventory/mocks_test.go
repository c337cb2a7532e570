package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

// MockRecordRepository is a testify mock of inventory.RecordRepository
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByProduct(ctx context.Context, businessID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	args := m.Called(ctx, businessID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.InventoryRecord], error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(shared.Paginated[*inventory.InventoryRecord]), args.Error(1)
}

func (m *MockRecordRepository) FindAllByBusiness(ctx context.Context, businessID uuid.UUID) ([]*inventory.InventoryRecord, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) FindExpiringBefore(ctx context.Context, businessID uuid.UUID, cutoff time.Time) ([]*inventory.InventoryRecord, error) {
	args := m.Called(ctx, businessID, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.InventoryRecord), args.Error(1)
}

func (m *MockRecordRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	args := m.Called(ctx, businessID, id)
	return args.Error(0)
}

// MockMovementRepository is a testify mock of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockMovementRepository) FindByRecord(ctx context.Context, businessID, recordID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	args := m.Called(ctx, businessID, recordID, filter)
	return args.Get(0).(shared.Paginated[*inventory.StockMovement]), args.Error(1)
}

func (m *MockMovementRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(shared.Paginated[*inventory.StockMovement]), args.Error(1)
}
