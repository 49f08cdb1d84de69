package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

// ExportSnapshot returns a point-in-time copy of all stored transactions
// and categories for backup.
func (s *SQLiteStore) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}

	transactions, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		ExportedAt:   time.Now().UTC(),
		Count:        len(transactions),
		Transactions: transactions,
		Categories:   categories,
	}, nil
}

// ImportSnapshot replaces all stored transactions with the snapshot's
// contents and restores any categories it carries. The whole restore runs
// in one SQL transaction, so a failed import leaves the store unchanged.
// Returns the number of transactions imported.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, snap *model.Snapshot) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := s.ensureReady(); err != nil {
		return 0, err
	}
	if snap == nil || snap.Transactions == nil {
		return 0, fmt.Errorf("%w: missing transactions", common.ErrInvalidFormat)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return 0, fmt.Errorf("failed to clear transactions: %w", err)
	}

	now := time.Now().UTC()

	// Categories first so restored transactions find their referential
	// targets. The destination store may already hold same-named categories
	// under different ids (default seeding assigns fresh uuids per store),
	// so restoring reconciles by name and remaps transaction references to
	// the surviving id.
	remapped := make(map[string]string)
	for i := range snap.Categories {
		record := snap.Categories[i]
		if err := validateCategory(&record); err != nil {
			return 0, fmt.Errorf("category at index %d: %w", i, err)
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		record.UpdatedAt = now
		originalID := record.ID
		surviving, err := s.restoreCategory(ctx, tx, &record)
		if err != nil {
			return 0, fmt.Errorf("category at index %d: %w", i, err)
		}
		if surviving != originalID {
			remapped[originalID] = surviving
		}
	}

	imported := 0
	for i := range snap.Transactions {
		record := snap.Transactions[i]
		if err := validateTransaction(&record); err != nil {
			return 0, fmt.Errorf("transaction at index %d: %w", i, err)
		}
		if id, ok := remapped[record.CategoryID]; ok {
			record.CategoryID = id
		}
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = now
		}
		if record.UpdatedAt.IsZero() {
			record.UpdatedAt = now
		}
		if err := s.insertTransaction(ctx, tx, &record); err != nil {
			return 0, fmt.Errorf("transaction at index %d: %w", i, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("imported snapshot",
		"transactions", imported,
		"categories", len(snap.Categories))
	return imported, nil
}

// restoreCategory writes a snapshot category into the store, reconciling
// collisions with categories that already exist there. A same-named
// category adopts the existing record's id and is updated in place; an id
// taken by a differently named category gets a fresh one. Returns the id
// the category survives under.
func (s *SQLiteStore) restoreCategory(ctx context.Context, q queryable, record *model.Category) (string, error) {
	existing, err := s.getCategoryByNameTx(ctx, q, record.Name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := s.writeCategory(ctx, q, record); err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	var taken bool
	err = q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)
	`, record.ID).Scan(&taken)
	if err != nil {
		return "", fmt.Errorf("failed to check category id: %w", err)
	}
	if taken {
		record.ID = uuid.NewString()
	}

	if err := s.insertCategory(ctx, q, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

// ParseSnapshot decodes a snapshot document, rejecting any payload whose
// transactions field is absent or not array-shaped.
func ParseSnapshot(data []byte) (*model.Snapshot, error) {
	var probe struct {
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	if len(probe.Transactions) == 0 {
		return nil, fmt.Errorf("%w: missing transactions", common.ErrInvalidFormat)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	if snap.Transactions == nil {
		return nil, fmt.Errorf("%w: transactions is not an array", common.ErrInvalidFormat)
	}
	return &snap, nil
}
