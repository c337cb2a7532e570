package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quickdash/backend/internal/domain/shared"
)

// Repository persists orders with their items and tracking log
type Repository interface {
	// Save persists a new order with its lines and seed tracking entry
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists an existing order using optimistic locking.
	// A version mismatch means a concurrent transition won; it surfaces as
	// shared.ErrConcurrencyConflict without retry.
	SaveWithLock(ctx context.Context, o *Order) error

	// FindByID retrieves an order scoped to a business, items and tracking log included
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*Order, error)

	// FindByBusiness retrieves orders for a business with pagination.
	// filter.Filters supports "status" and "customer_id".
	FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*Order], error)

	// FindByDateRange retrieves orders created in [from, to), items included.
	// Used by the analytics aggregator.
	FindByDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*Order, error)

	// CountByStatus returns order counts grouped by status
	CountByStatus(ctx context.Context, businessID uuid.UUID) (map[OrderStatus]int64, error)
}
