package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
)

func newOrderRepo(t *testing.T) *GormOrderRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}, &order.TrackingEntry{}))

	return NewGormOrderRepository(db)
}

func persistedOrder(t *testing.T, repo *GormOrderRepository, businessID uuid.UUID) *order.Order {
	t.Helper()

	item, err := order.NewOrderItem(uuid.New(), "Ramen Bowl", 1, decimal.NewFromFloat(14.00))
	require.NoError(t, err)
	pricing := order.ComputePricing([]order.OrderItem{item}, decimal.NewFromFloat(2.99), decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.08))

	o, err := order.NewOrder(businessID, uuid.New(), []order.OrderItem{item}, pricing, "9 Pine Rd")
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), o))
	return o
}

func TestOrderRepo_SaveAndFindByID(t *testing.T) {
	repo := newOrderRepo(t)
	businessID := uuid.New()
	o := persistedOrder(t, repo, businessID)

	found, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Ramen Bowl", found.Items[0].ProductName)
	require.Len(t, found.TrackingLog, 1)
	assert.Equal(t, order.StatusPending, found.TrackingLog[0].Status)
}

func TestOrderRepo_FindByID_WrongBusiness(t *testing.T) {
	repo := newOrderRepo(t)
	o := persistedOrder(t, repo, uuid.New())

	_, err := repo.FindByID(context.Background(), uuid.New(), o.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepo_SaveWithLock_AppendsTrackingEntries(t *testing.T) {
	repo := newOrderRepo(t)
	businessID := uuid.New()
	o := persistedOrder(t, repo, businessID)

	require.NoError(t, o.TransitionTo(order.StatusConfirmed, uuid.New(), "accepted"))
	require.NoError(t, repo.SaveWithLock(context.Background(), o))

	found, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, found.Status)
	require.Len(t, found.TrackingLog, 2)
	assert.Equal(t, order.StatusConfirmed, found.TrackingLog[1].Status)

	// re-saving the same aggregate does not duplicate tracking entries
	require.NoError(t, found.TransitionTo(order.StatusPreparing, uuid.New(), ""))
	require.NoError(t, repo.SaveWithLock(context.Background(), found))

	again, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)
	assert.Len(t, again.TrackingLog, 3)
}

func TestOrderRepo_SaveWithLock_StaleVersionConflicts(t *testing.T) {
	repo := newOrderRepo(t)
	businessID := uuid.New()
	o := persistedOrder(t, repo, businessID)

	first, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)

	require.NoError(t, first.TransitionTo(order.StatusConfirmed, uuid.New(), ""))
	require.NoError(t, repo.SaveWithLock(context.Background(), first))

	require.NoError(t, second.TransitionTo(order.StatusCancelled, uuid.New(), "changed mind"))
	err = repo.SaveWithLock(context.Background(), second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(context.Background(), businessID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, stored.Status)
}

func TestOrderRepo_CountByStatus(t *testing.T) {
	repo := newOrderRepo(t)
	businessID := uuid.New()

	persistedOrder(t, repo, businessID)
	persistedOrder(t, repo, businessID)
	third := persistedOrder(t, repo, businessID)
	require.NoError(t, third.TransitionTo(order.StatusConfirmed, uuid.New(), ""))
	require.NoError(t, repo.SaveWithLock(context.Background(), third))

	counts, err := repo.CountByStatus(context.Background(), businessID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[order.StatusPending])
	assert.Equal(t, int64(1), counts[order.StatusConfirmed])
}
