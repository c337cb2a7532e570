package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/domain/order"
	"github.com/quickdash/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save creates a new order with its items and seed tracking entry
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// SaveWithLock updates an order's mutable state with optimistic locking and
// appends any new tracking entries. Items are immutable after checkout and
// are not rewritten. A version mismatch surfaces as ErrConcurrencyConflict.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(o).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Updates(map[string]interface{}{
				"status":         o.Status,
				"stock_consumed": o.StockConsumed,
				"cancel_reason":  o.CancelReason,
				"cancelled_at":   o.CancelledAt,
				"delivered_at":   o.DeliveredAt,
				"refunded_at":    o.RefundedAt,
				"version":        o.Version,
				"updated_at":     o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		// tracking entries are append-only; inserting with conflict-free
		// UUIDs makes re-saving existing entries a no-op
		for i := range o.TrackingLog {
			entry := &o.TrackingLog[i]
			if err := tx.Where("id = ?", entry.ID).
				FirstOrCreate(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID finds an order scoped to a business, items and tracking log included
func (r *GormOrderRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("TrackingLog", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp asc")
		}).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByBusiness finds orders for a business with pagination
func (r *GormOrderRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*order.Order], error) {
	base := r.db.WithContext(ctx).Model(&order.Order{}).
		Where("business_id = ?", businessID)

	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		base = base.Where("status = ?", status)
	}
	if customerID, ok := filter.Filters["customer_id"].(uuid.UUID); ok && customerID != uuid.Nil {
		base = base.Where("customer_id = ?", customerID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*order.Order]{}, err
	}

	var orders []*order.Order
	if err := applyPagination(base.Preload("Items"), filter).Find(&orders).Error; err != nil {
		return shared.Paginated[*order.Order]{}, err
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// FindByDateRange finds orders created in [from, to), items included
func (r *GormOrderRepository) FindByDateRange(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*order.Order, error) {
	var orders []*order.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("business_id = ? AND created_at >= ? AND created_at < ?", businessID, from, to).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStatus returns order counts grouped by status
func (r *GormOrderRepository) CountByStatus(ctx context.Context, businessID uuid.UUID) (map[order.OrderStatus]int64, error) {
	type row struct {
		Status order.OrderStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&order.Order{}).
		Select("status, COUNT(*) as count").
		Where("business_id = ?", businessID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[order.OrderStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
