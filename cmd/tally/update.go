package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/model"
)

func updateCmd() *cobra.Command {
	var (
		txnType     string
		name        string
		dateStr     string
		category    string
		description string
		amountStr   string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a transaction",
		Long:  `Update one or more fields of an existing transaction. Unset flags leave fields unchanged.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var patch model.TransactionPatch

			if cmd.Flags().Changed("type") {
				parsed, parseErr := parseTransactionType(txnType)
				if parseErr != nil {
					return parseErr
				}
				patch.Type = &parsed
			}
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("amount") {
				amount, parseErr := parseAmount(amountStr)
				if parseErr != nil {
					return parseErr
				}
				patch.Amount = &amount
			}
			if cmd.Flags().Changed("date") {
				date, parseErr := model.ParseDate(dateStr)
				if parseErr != nil {
					return parseErr
				}
				patch.Date = &date
			}
			if cmd.Flags().Changed("category") {
				categoryID, resolveErr := resolveCategory(ctx, store, category)
				if resolveErr != nil {
					return resolveErr
				}
				patch.CategoryID = &categoryID
			}

			updated, err := store.UpdateTransaction(ctx, args[0], patch)
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no transaction with id %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %q (%s %.2f on %s)",
				updated.Name, updated.Type, updated.Amount, updated.Date)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txnType, "type", "t", "", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "transaction name")
	cmd.Flags().StringVarP(&amountStr, "amount", "a", "", "transaction amount")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id (empty clears it)")
	cmd.Flags().StringVar(&description, "description", "", "description (empty clears it)")

	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			err = store.DeleteTransaction(ctx, args[0])
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("no transaction with id %s", args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Deleted transaction " + args[0]))
			return nil
		},
	}
}
