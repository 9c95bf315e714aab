package inventory

import (
	"context"

	"github.com/shopx/backoffice/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// When a function is executed within a transaction scope, all repository
// operations are committed or rolled back atomically. Transfers rely on this:
// both stock rows and both movement logs land in one transaction.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to inventory repositories sharing
// one underlying database transaction.
type TransactionalRepositories interface {
	// StockRepo returns the stock repository scoped to the current transaction
	StockRepo() inventory.StockRepository
	// BatchRepo returns the stock batch repository scoped to the current transaction
	BatchRepo() inventory.StockBatchRepository
	// LogRepo returns the movement log repository scoped to the current transaction
	LogRepo() inventory.InventoryLogRepository
	// AlertRepo returns the alert repository scoped to the current transaction
	AlertRepo() inventory.InventoryAlertRepository
}

// NoOpTransactionScope runs the function against plain repositories without a
// real transaction. Used in unit tests.
type NoOpTransactionScope struct {
	stockRepo inventory.StockRepository
	batchRepo inventory.StockBatchRepository
	logRepo   inventory.InventoryLogRepository
	alertRepo inventory.InventoryAlertRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	stockRepo inventory.StockRepository,
	batchRepo inventory.StockBatchRepository,
	logRepo inventory.InventoryLogRepository,
	alertRepo inventory.InventoryAlertRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo: stockRepo,
		batchRepo: batchRepo,
		logRepo:   logRepo,
		alertRepo: alertRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock repository
func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository {
	return s.stockRepo
}

// BatchRepo returns the stock batch repository
func (s *NoOpTransactionScope) BatchRepo() inventory.StockBatchRepository {
	return s.batchRepo
}

// LogRepo returns the movement log repository
func (s *NoOpTransactionScope) LogRepo() inventory.InventoryLogRepository {
	return s.logRepo
}

// AlertRepo returns the alert repository
func (s *NoOpTransactionScope) AlertRepo() inventory.InventoryAlertRepository {
	return s.alertRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
