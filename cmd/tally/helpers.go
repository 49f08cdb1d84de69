package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tallyledger/tally/internal/config"
	"github.com/tallyledger/tally/internal/model"
	"github.com/tallyledger/tally/internal/service"
	"github.com/tallyledger/tally/internal/storage"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// initStore opens the database, migrates it, and seeds default categories
// on first use.
func initStore(ctx context.Context) (service.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tally/tally.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := store.SeedDefaultCategories(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return store, nil
}

// parseAmount parses a monetary amount, rejecting anything that is not a
// finite positive number. ParseFloat accepts "NaN" and "Inf", and NaN
// slips past a plain <= 0 check since NaN comparisons are always false.
func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("amount must be a positive number, got %v", amount)
	}
	return amount, nil
}

// parseTransactionType accepts "income", "expense" and their one-letter
// shorthands.
func parseTransactionType(s string) (model.TransactionType, error) {
	switch strings.ToLower(s) {
	case "income", "i":
		return model.TypeIncome, nil
	case "expense", "e":
		return model.TypeExpense, nil
	default:
		return "", fmt.Errorf("invalid transaction type %q (want income or expense)", s)
	}
}

// parseCategoryType accepts "income", "expense" or "both".
func parseCategoryType(s string) (model.CategoryType, error) {
	switch strings.ToLower(s) {
	case "income":
		return model.CategoryTypeIncome, nil
	case "expense":
		return model.CategoryTypeExpense, nil
	case "both":
		return model.CategoryTypeBoth, nil
	default:
		return "", fmt.Errorf("invalid category type %q (want income, expense or both)", s)
	}
}

// resolveCategory turns a category flag value into a category id. The
// value may be an id or a (case-sensitive) category name.
func resolveCategory(ctx context.Context, store service.Store, value string) (string, error) {
	if value == "" {
		return "", nil
	}

	if cat, err := store.GetCategory(ctx, value); err != nil {
		return "", err
	} else if cat != nil {
		return cat.ID, nil
	}

	cat, err := store.GetCategoryByName(ctx, value)
	if err != nil {
		return "", err
	}
	if cat == nil {
		return "", fmt.Errorf("unknown category %q", value)
	}
	return cat.ID, nil
}

// categoryNames maps category ids to display names for table rendering.
func categoryNames(ctx context.Context, store service.Store) (map[string]string, error) {
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}
	return names, nil
}
