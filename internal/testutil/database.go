// Package testutil provides shared fixtures for store-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/tallyledger/tally/internal/model"
	"github.com/tallyledger/tally/internal/storage"
)

// SetupTestStore creates a migrated in-memory store and registers cleanup.
func SetupTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// MustAddTransaction inserts a transaction or fails the test.
func MustAddTransaction(t *testing.T, store *storage.SQLiteStore, txn model.Transaction) *model.Transaction {
	t.Helper()

	added, err := store.AddTransaction(context.Background(), &txn)
	if err != nil {
		t.Fatalf("failed to add transaction: %v", err)
	}
	return added
}

// MustAddCategory inserts a category or fails the test.
func MustAddCategory(t *testing.T, store *storage.SQLiteStore, cat model.Category) *model.Category {
	t.Helper()

	added, err := store.AddCategory(context.Background(), &cat)
	if err != nil {
		t.Fatalf("failed to add category: %v", err)
	}
	return added
}
