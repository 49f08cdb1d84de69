// Package storage provides the data persistence layer for the tally application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must not be after end date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category type")
	ErrZeroDate         = errors.New("transaction date cannot be zero")
)

// ensureReady guards every data operation against use before Migrate.
func (s *SQLiteStore) ensureReady() error {
	if !s.ready.Load() {
		return common.ErrNotInitialized
	}
	return nil
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction checks the fields the schema requires. Amount
// positivity and name length are UI conventions, not store rules.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if !txn.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, txn.Type)
	}
	if txn.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// validateCategory checks the fields the schema requires.
func validateCategory(cat *model.Category) error {
	if cat == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := validateString(cat.Name, "name"); err != nil {
		return err
	}
	if !cat.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, cat.Type)
	}
	return nil
}
