package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage transaction categories",
		Long:  `List, add, update, and delete the categories used to classify transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var catType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var categories []model.Category
			if catType != "" {
				parsed, parseErr := parseCategoryType(catType)
				if parseErr != nil {
					return parseErr
				}
				categories, err = store.CategoriesByType(ctx, parsed)
			} else {
				categories, err = store.ListCategories(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'tally categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Color"),
				cli.HeaderStyle.Render("Icon"),
				cli.HeaderStyle.Render("ID"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 7),
				strings.Repeat("-", 7),
				strings.Repeat("-", 10),
				strings.Repeat("-", 8))

			for _, cat := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					cat.Name, cat.Type, cat.Color, cat.Icon, cat.ID)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&catType, "type", "t", "", "filter by type (income, expense, both)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		catType string
		color   string
		icon    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			parsed, err := parseCategoryType(catType)
			if err != nil {
				return err
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			added, err := store.AddCategory(ctx, &model.Category{
				Name:  args[0],
				Type:  parsed,
				Color: color,
				Icon:  icon,
			})
			if errors.Is(err, common.ErrDuplicateName) {
				return fmt.Errorf("category %q already exists", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added category %q (%s, id %s)",
				added.Name, added.Type, added.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&catType, "type", "t", "expense", "category type (income, expense, both)")
	cmd.Flags().StringVar(&color, "color", "", "display color (hex)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon name")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name    string
		catType string
		color   string
		icon    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var patch model.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("type") {
				parsed, parseErr := parseCategoryType(catType)
				if parseErr != nil {
					return parseErr
				}
				patch.Type = &parsed
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = &icon
			}

			updated, err := store.UpdateCategory(ctx, args[0], patch)
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no category with id %s", args[0])
			}
			if errors.Is(err, common.ErrDuplicateName) {
				return fmt.Errorf("a category named %q already exists", name)
			}
			if err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %q (%s)", updated.Name, updated.Type)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "category name")
	cmd.Flags().StringVarP(&catType, "type", "t", "", "category type (income, expense, both)")
	cmd.Flags().StringVar(&color, "color", "", "display color (hex)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Delete a category",
		Long:  `Delete a category. Fails if any transaction still references it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categoryID, err := resolveCategory(ctx, store, args[0])
			if err != nil {
				return err
			}

			err = store.DeleteCategory(ctx, categoryID)
			var inUse *common.CategoryInUseError
			if errors.As(err, &inUse) {
				return fmt.Errorf("category is still used by %d transaction(s); reassign them first", inUse.Count)
			}
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no category with id %s", categoryID)
			}
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Deleted category " + args[0]))
			return nil
		},
	}
}
