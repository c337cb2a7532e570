package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
)

// MockOrderRepository is a testify mock of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*order.Order], error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(shared.Paginated[*order.Order]), args.Error(1)
}

func (m *MockOrderRepository) FindByDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, businessID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, businessID uuid.UUID) (map[order.OrderStatus]int64, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[order.OrderStatus]int64), args.Error(1)
}

func makeOrder(t *testing.T, businessID, customerID uuid.UUID, status order.OrderStatus, total float64, createdAt time.Time, items ...order.OrderItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		item, err := order.NewOrderItem(uuid.New(), "Burrito", 1, decimal.NewFromFloat(total))
		require.NoError(t, err)
		items = []order.OrderItem{item}
	}
	o, err := order.NewOrder(businessID, customerID, items, order.Pricing{Total: decimal.NewFromFloat(total)}, "")
	require.NoError(t, err)
	o.Status = status
	o.CreatedAt = createdAt
	return o
}

func TestRevenue_InvalidPeriod(t *testing.T) {
	svc := NewService(new(MockOrderRepository))

	_, err := svc.Revenue(context.Background(), uuid.New(), Period("365d"))
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
}

func TestRevenue_Summary(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	businessID := uuid.New()
	customerA, customerB := uuid.New(), uuid.New()
	orders := []*order.Order{
		makeOrder(t, businessID, customerA, order.StatusDelivered, 30.00, now.Add(-2*time.Hour)),
		makeOrder(t, businessID, customerA, order.StatusDelivered, 20.00, now.Add(-26*time.Hour)),
		makeOrder(t, businessID, customerB, order.StatusCancelled, 99.00, now.Add(-3*time.Hour)),
		makeOrder(t, businessID, customerB, order.StatusPending, 15.00, now.Add(-1*time.Hour)),
	}

	repo.On("FindByDateRange", mock.Anything, businessID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(orders, nil)

	report, err := svc.Revenue(context.Background(), businessID, Period7Days)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Summary.TotalOrders)
	assert.Equal(t, 2, report.Summary.UniqueCustomers)
	// delivered orders only: 30 + 20
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.NewFromFloat(50.00)), report.Summary.TotalRevenue.String())
	assert.True(t, report.Summary.AverageOrderValue.Equal(decimal.NewFromFloat(25.00)))
}

func TestRevenue_ChartHasPointPerDay(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	businessID := uuid.New()
	repo.On("FindByDateRange", mock.Anything, businessID, mock.Anything, mock.Anything).
		Return([]*order.Order{
			makeOrder(t, businessID, uuid.New(), order.StatusDelivered, 10.00, now.Add(-2*time.Hour)),
		}, nil)

	report, err := svc.Revenue(context.Background(), businessID, Period7Days)
	require.NoError(t, err)

	// a gapless series, zero-revenue days included
	assert.GreaterOrEqual(t, len(report.RevenueChart), 7)
	last := report.RevenueChart[len(report.RevenueChart)-1]
	assert.Equal(t, "2026-03-10", last.Date)
	assert.True(t, last.Revenue.Equal(decimal.NewFromFloat(10.00)))
	assert.Equal(t, 1, last.Orders)
}

func TestRevenue_StatusDistribution(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo)
	businessID := uuid.New()
	now := time.Now()

	repo.On("FindByDateRange", mock.Anything, businessID, mock.Anything, mock.Anything).
		Return([]*order.Order{
			makeOrder(t, businessID, uuid.New(), order.StatusPending, 1, now),
			makeOrder(t, businessID, uuid.New(), order.StatusPending, 1, now),
			makeOrder(t, businessID, uuid.New(), order.StatusDelivered, 1, now),
		}, nil)

	report, err := svc.Revenue(context.Background(), businessID, PeriodDay)
	require.NoError(t, err)

	require.Len(t, report.OrderStatusDistribution, 2)
	assert.Equal(t, order.StatusPending, report.OrderStatusDistribution[0].Status)
	assert.Equal(t, 2, report.OrderStatusDistribution[0].Count)
	assert.Equal(t, order.StatusDelivered, report.OrderStatusDistribution[1].Status)
}

func TestRevenue_PopularItems(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo)
	businessID := uuid.New()
	now := time.Now()

	tacoID, burritoID := uuid.New(), uuid.New()
	taco, _ := order.NewOrderItem(tacoID, "Taco", 5, decimal.NewFromFloat(3.00))
	burrito, _ := order.NewOrderItem(burritoID, "Burrito", 2, decimal.NewFromFloat(9.00))
	tacoAgain, _ := order.NewOrderItem(tacoID, "Taco", 3, decimal.NewFromFloat(3.00))

	repo.On("FindByDateRange", mock.Anything, businessID, mock.Anything, mock.Anything).
		Return([]*order.Order{
			makeOrder(t, businessID, uuid.New(), order.StatusDelivered, 24.00, now, taco, burrito),
			makeOrder(t, businessID, uuid.New(), order.StatusDelivered, 9.00, now, tacoAgain),
			// pending orders do not count toward popularity
			makeOrder(t, businessID, uuid.New(), order.StatusPending, 9.00, now, burrito),
		}, nil)

	report, err := svc.Revenue(context.Background(), businessID, PeriodDay)
	require.NoError(t, err)

	require.Len(t, report.PopularItems, 2)
	assert.Equal(t, tacoID, report.PopularItems[0].ProductID)
	assert.Equal(t, int64(8), report.PopularItems[0].Quantity)
	assert.True(t, report.PopularItems[0].Revenue.Equal(decimal.NewFromFloat(24.00)))
	assert.Equal(t, burritoID, report.PopularItems[1].ProductID)
}

func TestRevenue_EmptyWindow(t *testing.T) {
	repo := new(MockOrderRepository)
	svc := NewService(repo)
	businessID := uuid.New()

	repo.On("FindByDateRange", mock.Anything, businessID, mock.Anything, mock.Anything).
		Return([]*order.Order{}, nil)

	report, err := svc.Revenue(context.Background(), businessID, Period30Days)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.TotalOrders)
	assert.True(t, report.Summary.TotalRevenue.IsZero())
	assert.True(t, report.Summary.AverageOrderValue.IsZero())
	assert.Empty(t, report.PopularItems)
	assert.Empty(t, report.OrderStatusDistribution)
}
