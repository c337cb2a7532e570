package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

// GormMovementRepository implements inventory.MovementRepository using GORM.
// The table is append-only; this repository deliberately exposes no update
// or delete path.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Save appends a movement entry
func (r *GormMovementRepository) Save(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByRecord finds movements for a record, newest first
func (r *GormMovementRepository) FindByRecord(ctx context.Context, businessID, recordID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	base := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("business_id = ? AND record_id = ?", businessID, recordID)

	if action, ok := filter.Filters["action"].(string); ok && action != "" {
		base = base.Where("action = ?", action)
	}

	return r.paginate(base, filter)
}

// FindByBusiness finds movements across a business, newest first
func (r *GormMovementRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	base := r.db.WithContext(ctx).Model(&inventory.StockMovement{}).
		Where("business_id = ?", businessID)
	return r.paginate(base, filter)
}

func (r *GormMovementRepository) paginate(base *gorm.DB, filter shared.Filter) (shared.Paginated[*inventory.StockMovement], error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*inventory.StockMovement]{}, err
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "occurred_at"
	}

	var movements []*inventory.StockMovement
	if err := applyPagination(base, filter).Find(&movements).Error; err != nil {
		return shared.Paginated[*inventory.StockMovement]{}, err
	}

	return shared.NewPaginated(movements, total, filter.Page, filter.PageSize), nil
}
