// Package service defines the contracts between the storage layer and its callers.
package service

import (
	"context"

	"github.com/tallyledger/tally/internal/model"
)

// Store defines the contract for the persistence layer. Implementations
// must return common.ErrNotInitialized from every data operation invoked
// before a successful Migrate.
type Store interface {
	// Transaction operations
	AddTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	TransactionsByDateRange(ctx context.Context, start, end model.Date) ([]model.Transaction, error)
	TransactionsByType(ctx context.Context, txnType model.TransactionType) ([]model.Transaction, error)
	TransactionsByCategory(ctx context.Context, categoryID string) ([]model.Transaction, error)
	ClearTransactions(ctx context.Context) error

	// Category operations
	AddCategory(ctx context.Context, cat *model.Category) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	CategoriesByType(ctx context.Context, catType model.CategoryType) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	SeedDefaultCategories(ctx context.Context) error

	// Backup/restore
	ExportSnapshot(ctx context.Context) (*model.Snapshot, error)
	ImportSnapshot(ctx context.Context, snap *model.Snapshot) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// TransactionReader is the read-only slice of Store used by aggregation.
type TransactionReader interface {
	ListTransactions(ctx context.Context) ([]model.Transaction, error)
}
