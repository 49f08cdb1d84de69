package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

// AddCategory inserts a new category, assigning ID and CreatedAt when
// absent. A name collision with the same id falls back to an
// update-in-place; a name collision under a different id fails with
// ErrDuplicateName. An id collision fails with ErrDuplicateID.
func (s *SQLiteStore) AddCategory(ctx context.Context, cat *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateCategory(cat); err != nil {
		return nil, err
	}

	record := *cat
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.insertCategory(ctx, s.db, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *SQLiteStore) insertCategory(ctx context.Context, q queryable, record *model.Category) error {
	existing, err := s.getCategoryByNameTx(ctx, q, record.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.ID != record.ID {
			return fmt.Errorf("%w: category %q", common.ErrDuplicateName, record.Name)
		}
		// Same id under the colliding name: recover by updating in place.
		record.CreatedAt = existing.CreatedAt
		if err := s.writeCategory(ctx, q, record); err != nil {
			return err
		}
		slog.Debug("updated category in place on name collision", "id", record.ID, "name", record.Name)
		return nil
	}

	var exists bool
	err = q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)
	`, record.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category id: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: category %s", common.ErrDuplicateID, record.ID)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO categories (id, name, type, color, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.Name,
		string(record.Type),
		record.Color,
		record.Icon,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category %s: %w", record.ID, err)
	}

	slog.Debug("added category", "id", record.ID, "name", record.Name, "type", record.Type)
	return nil
}

func (s *SQLiteStore) writeCategory(ctx context.Context, q queryable, record *model.Category) error {
	_, err := q.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, type = ?, color = ?, icon = ?, updated_at = ?
		WHERE id = ?
	`,
		record.Name,
		string(record.Type),
		record.Color,
		record.Icon,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", record.ID, err)
	}
	return nil
}

// GetCategory retrieves a category by ID. A missing id yields (nil, nil).
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, color, icon, created_at, updated_at
		FROM categories
		WHERE id = ?
	`, id)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// GetCategoryByName retrieves a category by its unique name. Names are
// case-sensitive. A missing name yields (nil, nil).
func (s *SQLiteStore) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return s.getCategoryByNameTx(ctx, s.db, name)
}

func (s *SQLiteStore) getCategoryByNameTx(ctx context.Context, q queryable, name string) (*model.Category, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, type, color, icon, created_at, updated_at
		FROM categories
		WHERE name = ?
	`, name)

	cat, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category by name: %w", err)
	}
	return cat, nil
}

// ListCategories returns all categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	return s.queryCategories(ctx, `
		SELECT id, name, type, color, icon, created_at, updated_at
		FROM categories
		ORDER BY name
	`)
}

// CategoriesByType returns the categories with exactly the given type.
func (s *SQLiteStore) CategoriesByType(ctx context.Context, catType model.CategoryType) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if !catType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, catType)
	}

	return s.queryCategories(ctx, `
		SELECT id, name, type, color, icon, created_at, updated_at
		FROM categories
		WHERE type = ?
		ORDER BY name
	`, string(catType))
}

// UpdateCategory merges patch over the stored record and stamps UpdatedAt.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, id string, patch model.CategoryPatch) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, name, type, color, icon, created_at, updated_at
		FROM categories
		WHERE id = ?
	`, id)

	existing, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	patch.Apply(existing)
	if err := validateCategory(existing); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		collision, nameErr := s.getCategoryByNameTx(ctx, tx, existing.Name)
		if nameErr != nil {
			return nil, nameErr
		}
		if collision != nil && collision.ID != id {
			return nil, fmt.Errorf("%w: category %q", common.ErrDuplicateName, existing.Name)
		}
	}

	existing.UpdatedAt = time.Now().UTC()
	if err := s.writeCategory(ctx, tx, existing); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	slog.Debug("updated category", "id", id)
	return existing, nil
}

// DeleteCategory removes a category unless any transaction references it,
// in which case it fails with CategoryInUseError carrying the count. The
// check and the delete run in one SQL transaction.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.ensureReady(); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM transactions WHERE category_id = ?
	`, id).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count referencing transactions: %w", err)
	}
	if count > 0 {
		return &common.CategoryInUseError{CategoryID: id, Count: count}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	slog.Debug("deleted category", "id", id)
	return nil
}

func (s *SQLiteStore) queryCategories(ctx context.Context, query string, args ...any) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		cat, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *cat)
	}

	return categories, rows.Err()
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var cat model.Category
	var catType string
	var color sql.NullString
	var icon sql.NullString

	err := row.Scan(
		&cat.ID,
		&cat.Name,
		&catType,
		&color,
		&icon,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cat.Type = model.CategoryType(catType)
	if color.Valid {
		cat.Color = color.String
	}
	if icon.Valid {
		cat.Icon = icon.String
	}
	return &cat, nil
}
