package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/domain/inventory"
	"github.com/quickdash/backend/internal/domain/shared"
)

// GormRecordRepository implements inventory.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// Save creates a new inventory record
func (r *GormRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil && isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}

// SaveWithLock updates an existing record with optimistic locking.
// The record's version has already been incremented by the domain layer; the
// update matches on the pre-increment version, so zero affected rows means a
// concurrent writer won.
func (r *GormRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"product_name":     record.ProductName,
			"sku":              record.SKU,
			"category":         record.Category,
			"current_stock":    record.CurrentStock,
			"minimum_stock":    record.MinimumStock,
			"maximum_stock":    record.MaximumStock,
			"reorder_point":    record.ReorderPoint,
			"cost_price":       record.CostPrice,
			"track_inventory":  record.TrackInventory,
			"allow_backorders": record.AllowBackorders,
			"expiration_date":  record.ExpirationDate,
			"batch_number":     record.BatchNumber,
			"location":         record.Location,
			"supplier":         record.Supplier,
			"last_restocked":   record.LastRestocked,
			"last_sold":        record.LastSold,
			"is_active":        record.IsActive,
			"version":          record.Version,
			"updated_at":       record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a record by ID scoped to a business
func (r *GormRecordRepository) FindByID(ctx context.Context, businessID, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND id = ?", businessID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds the record for a business-product combination
func (r *GormRecordRepository) FindByProduct(ctx context.Context, businessID, productID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND product_id = ?", businessID, productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByBusiness finds records for a business with pagination
func (r *GormRecordRepository) FindByBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.InventoryRecord], error) {
	base := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).
		Where("business_id = ?", businessID)

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		base = base.Where("LOWER(product_name) LIKE ? OR LOWER(sku) LIKE ?", pattern, pattern)
	}
	if category, ok := filter.Filters["category"].(string); ok && category != "" {
		base = base.Where("category = ?", category)
	}
	if active, ok := filter.Filters["is_active"].(bool); ok {
		base = base.Where("is_active = ?", active)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return shared.Paginated[*inventory.InventoryRecord]{}, err
	}

	var records []*inventory.InventoryRecord
	if err := applyPagination(base, filter).Find(&records).Error; err != nil {
		return shared.Paginated[*inventory.InventoryRecord]{}, err
	}

	return shared.NewPaginated(records, total, filter.Page, filter.PageSize), nil
}

// FindAllByBusiness finds every record for a business without pagination
func (r *GormRecordRepository) FindAllByBusiness(ctx context.Context, businessID uuid.UUID) ([]*inventory.InventoryRecord, error) {
	var records []*inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("product_name asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiringBefore finds active tracked records expiring before the cutoff
func (r *GormRecordRepository) FindExpiringBefore(ctx context.Context, businessID uuid.UUID, cutoff time.Time) ([]*inventory.InventoryRecord, error) {
	var records []*inventory.InventoryRecord
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ? AND track_inventory = ? AND expiration_date IS NOT NULL AND expiration_date <= ?",
			businessID, true, true, cutoff).
		Order("expiration_date asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Delete removes a record
func (r *GormRecordRepository) Delete(ctx context.Context, businessID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&inventory.InventoryRecord{}, "business_id = ? AND id = ?", businessID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyPagination applies ordering and pagination from a filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "asc"
	}
	query = query.Order(orderBy + " " + dir)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// isUniqueViolation detects a unique constraint violation from the driver
func isUniqueViolation(err error) bool {
	return err != nil && (errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint"))
}
