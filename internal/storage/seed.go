package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tallyledger/tally/internal/model"
)

// defaultCategories is the fixed list seeded into an empty store: three
// income, six expense, and one catch-all usable for either kind.
var defaultCategories = []model.Category{
	{Name: "Salary", Type: model.CategoryTypeIncome, Color: "#4ECDC4", Icon: "briefcase"},
	{Name: "Freelance", Type: model.CategoryTypeIncome, Color: "#95E1D3", Icon: "pen"},
	{Name: "Investments", Type: model.CategoryTypeIncome, Color: "#A8E6CF", Icon: "trending-up"},
	{Name: "Food & Dining", Type: model.CategoryTypeExpense, Color: "#FF6B6B", Icon: "utensils"},
	{Name: "Groceries", Type: model.CategoryTypeExpense, Color: "#FFA94D", Icon: "shopping-cart"},
	{Name: "Transport", Type: model.CategoryTypeExpense, Color: "#FFE66D", Icon: "bus"},
	{Name: "Housing", Type: model.CategoryTypeExpense, Color: "#A29BFE", Icon: "home"},
	{Name: "Entertainment", Type: model.CategoryTypeExpense, Color: "#FD79A8", Icon: "film"},
	{Name: "Health", Type: model.CategoryTypeExpense, Color: "#55E6C1", Icon: "heart"},
	{Name: "Other", Type: model.CategoryTypeBoth, Color: "#B2BEC3", Icon: "tag"},
}

// SeedDefaultCategories inserts the default category set when the store
// holds no categories at all. Seeding is best-effort: a failed insert is
// logged and the remaining categories are still attempted. Partially
// seeded stores are left as they are.
func (s *SQLiteStore) SeedDefaultCategories(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.ensureReady(); err != nil {
		return err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeded := 0
	for _, cat := range defaultCategories {
		if _, err := s.AddCategory(ctx, &cat); err != nil {
			slog.Warn("failed to seed default category", "name", cat.Name, "error", err)
			continue
		}
		seeded++
	}

	slog.Info("seeded default categories", "count", seeded)
	return nil
}
