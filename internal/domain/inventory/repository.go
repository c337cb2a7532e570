package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quickdash/backend/internal/domain/shared"
)

// RecordRepository persists inventory ledger records
type RecordRepository interface {
	// Save persists a new record
	Save(ctx context.Context, record *InventoryRecord) error

	// SaveWithLock persists an existing record using optimistic locking.
	// Returns shared.ErrConcurrencyConflict if the stored version does not
	// match the record's pre-increment version.
	SaveWithLock(ctx context.Context, record *InventoryRecord) error

	// FindByID retrieves a record by its ID scoped to a business
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*InventoryRecord, error)

	// FindByProduct retrieves the record for a business-product combination
	FindByProduct(ctx context.Context, businessID, productID uuid.UUID) (*InventoryRecord, error)

	// FindByBusiness retrieves records for a business with pagination
	FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*InventoryRecord], error)

	// FindAllByBusiness retrieves every record for a business without pagination.
	// Used by the alert engine and reporting which scan the whole ledger.
	FindAllByBusiness(ctx context.Context, businessID uuid.UUID) ([]*InventoryRecord, error)

	// FindExpiringBefore retrieves active tracked records expiring before the cutoff
	FindExpiringBefore(ctx context.Context, businessID uuid.UUID, cutoff time.Time) ([]*InventoryRecord, error)

	// Delete removes a record
	Delete(ctx context.Context, businessID, id uuid.UUID) error
}

// MovementRepository persists the append-only stock movement history
type MovementRepository interface {
	// Save appends a movement entry. Entries are never updated.
	Save(ctx context.Context, movement *StockMovement) error

	// FindByRecord retrieves movements for a record, newest first
	FindByRecord(ctx context.Context, businessID, recordID uuid.UUID, filter shared.Filter) (shared.Paginated[*StockMovement], error)

	// FindByBusiness retrieves movements across a business, newest first
	FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*StockMovement], error)
}
