package persistence

import (
	"context"

	"gorm.io/gorm"

	appinventory "github.com/quickdash/backend/internal/application/inventory"
	"github.com/quickdash/backend/internal/domain/inventory"
)

// GormTransactionScope executes ledger operations inside one database
// transaction so a record update and its movement append commit atomically.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepos{tx: tx})
	})
}

type gormTransactionalRepos struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepos) RecordRepo() inventory.RecordRepository {
	return NewGormRecordRepository(r.tx)
}

func (r *gormTransactionalRepos) MovementRepo() inventory.MovementRepository {
	return NewGormMovementRepository(r.tx)
}

var _ appinventory.TransactionScope = (*GormTransactionScope)(nil)
