package inventory

import (
	"context"

	"github.com/quickdash/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repositories.
// A record save and its movement append must commit or roll back together so
// the history chain can never diverge from the current stock.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the ledger repositories scoped to one
// transaction. StockMovement rows are append-only; the movement repository
// exposes no update or delete.
type TransactionalRepositories interface {
	// RecordRepo returns the inventory record repository scoped to the current transaction
	RecordRepo() inventory.RecordRepository
	// MovementRepo returns the stock movement repository scoped to the current transaction
	MovementRepo() inventory.MovementRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests and with stores that do their own atomicity.
type NoOpTransactionScope struct {
	recordRepo   inventory.RecordRepository
	movementRepo inventory.MovementRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(recordRepo inventory.RecordRepository, movementRepo inventory.MovementRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		recordRepo:   recordRepo,
		movementRepo: movementRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// RecordRepo returns the inventory record repository.
func (s *NoOpTransactionScope) RecordRepo() inventory.RecordRepository {
	return s.recordRepo
}

// MovementRepo returns the stock movement repository.
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
