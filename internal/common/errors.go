// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotInitialized is returned when the store is used before Migrate completes.
	ErrNotInitialized = errors.New("store not initialized")
	// ErrNotFound is returned when an operation targets a missing id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an add collides with an existing id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDuplicateName is returned when a category add collides with an
	// existing name under a different id.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrInvalidFormat is returned when an import payload is malformed.
	ErrInvalidFormat = errors.New("invalid snapshot format")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// CategoryInUseError blocks a category delete that would orphan transactions.
// Count carries the number of transactions still referencing the category.
type CategoryInUseError struct {
	CategoryID string
	Count      int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %s is in use by %d transaction(s)", e.CategoryID, e.Count)
}

// IsCategoryInUse reports whether err is a CategoryInUseError.
func IsCategoryInUse(err error) bool {
	var inUse *CategoryInUseError
	return errors.As(err, &inUse)
}
