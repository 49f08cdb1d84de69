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

// AddTransaction inserts a new transaction, assigning ID and CreatedAt when
// absent. The stored record is returned; the caller's copy is not mutated.
func (s *SQLiteStore) AddTransaction(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	record := *txn
	now := time.Now().UTC()
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	if err := s.insertTransaction(ctx, s.db, &record); err != nil {
		return nil, err
	}

	slog.Debug("added transaction", "id", record.ID, "type", record.Type, "amount", record.Amount)
	return &record, nil
}

func (s *SQLiteStore) insertTransaction(ctx context.Context, q queryable, record *model.Transaction) error {
	var exists bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM transactions WHERE id = ?)
	`, record.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check transaction id: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: transaction %s", common.ErrDuplicateID, record.ID)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO transactions (
			id, type, name, description, amount, date, category_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		string(record.Type),
		record.Name,
		record.Description,
		record.Amount,
		record.Date.Format(model.DateLayout),
		nullableString(record.CategoryID),
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", record.ID, err)
	}
	return nil
}

// GetTransaction retrieves a single transaction by ID. A missing id yields
// (nil, nil), not an error.
func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getTransactionTx(ctx, s.db, id)
}

func (s *SQLiteStore) getTransactionTx(ctx context.Context, q queryable, id string) (*model.Transaction, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, type, name, description, amount, date, category_id, created_at, updated_at
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ListTransactions returns all transactions sorted by date descending.
func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	return s.queryTransactions(ctx, `
		SELECT id, type, name, description, amount, date, category_id, created_at, updated_at
		FROM transactions
		ORDER BY date DESC
	`)
}

// UpdateTransaction merges patch over the stored record and stamps
// UpdatedAt. The read and write happen in one SQL transaction.
func (s *SQLiteStore) UpdateTransaction(ctx context.Context, id string, patch model.TransactionPatch) (*model.Transaction, error) {
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

	existing, err := s.getTransactionTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	patch.Apply(existing)
	if err := validateTransaction(existing); err != nil {
		return nil, err
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions
		SET type = ?, name = ?, description = ?, amount = ?, date = ?, category_id = ?, updated_at = ?
		WHERE id = ?
	`,
		string(existing.Type),
		existing.Name,
		existing.Description,
		existing.Amount,
		existing.Date.Format(model.DateLayout),
		nullableString(existing.CategoryID),
		existing.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit update: %w", err)
	}

	slog.Debug("updated transaction", "id", id)
	return existing, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.ensureReady(); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %s", common.ErrNotFound, id)
	}

	slog.Debug("deleted transaction", "id", id)
	return nil
}

// TransactionsByDateRange returns transactions whose date falls inside the
// inclusive [start, end] range, sorted by date descending.
func (s *SQLiteStore) TransactionsByDateRange(ctx context.Context, start, end model.Date) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if start.After(end.Time) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidDateRange, start, end)
	}

	return s.queryTransactions(ctx, `
		SELECT id, type, name, description, amount, date, category_id, created_at, updated_at
		FROM transactions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC
	`, start.Format(model.DateLayout), end.Format(model.DateLayout))
}

// TransactionsByType returns all transactions of the given type.
func (s *SQLiteStore) TransactionsByType(ctx context.Context, txnType model.TransactionType) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if !txnType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, txnType)
	}

	return s.queryTransactions(ctx, `
		SELECT id, type, name, description, amount, date, category_id, created_at, updated_at
		FROM transactions
		WHERE type = ?
		ORDER BY date DESC
	`, string(txnType))
}

// TransactionsByCategory returns all transactions referencing the category.
func (s *SQLiteStore) TransactionsByCategory(ctx context.Context, categoryID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureReady(); err != nil {
		return nil, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	return s.queryTransactions(ctx, `
		SELECT id, type, name, description, amount, date, category_id, created_at, updated_at
		FROM transactions
		WHERE category_id = ?
		ORDER BY date DESC
	`, categoryID)
}

// ClearTransactions empties the transaction table. Used by the restore flow.
func (s *SQLiteStore) ClearTransactions(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.ensureReady(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions`)
	if err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	affected, _ := result.RowsAffected()
	slog.Info("cleared transactions", "count", affected)
	return nil
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		transactions = append(transactions, *txn)
	}

	return transactions, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var txn model.Transaction
	var txnType string
	var description sql.NullString
	var dateStr string
	var categoryID sql.NullString

	err := row.Scan(
		&txn.ID,
		&txnType,
		&txn.Name,
		&description,
		&txn.Amount,
		&dateStr,
		&categoryID,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Type = model.TransactionType(txnType)
	if description.Valid {
		txn.Description = description.String
	}
	if categoryID.Valid {
		txn.CategoryID = categoryID.String
	}

	date, err := model.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored date: %w", err)
	}
	txn.Date = date

	return &txn, nil
}

// nullableString maps "" to NULL so optional foreign keys stay unset.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
