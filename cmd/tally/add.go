package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/model"
)

func addCmd() *cobra.Command {
	var (
		txnType     string
		dateStr     string
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <name> <amount>",
		Short: "Record a transaction",
		Long:  `Record an income or expense transaction. The date defaults to today.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			parsedType, err := parseTransactionType(txnType)
			if err != nil {
				return err
			}

			date := model.DateOf(timeNow())
			if dateStr != "" {
				if date, err = model.ParseDate(dateStr); err != nil {
					return err
				}
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categoryID, err := resolveCategory(ctx, store, category)
			if err != nil {
				return err
			}

			added, err := store.AddTransaction(ctx, &model.Transaction{
				Type:        parsedType,
				Name:        args[0],
				Description: description,
				Amount:      amount,
				Date:        date,
				CategoryID:  categoryID,
			})
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %q: %.2f on %s (id %s)",
				added.Type, added.Name, added.Amount, added.Date, added.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&txnType, "type", "t", "expense", "transaction type (income, expense)")
	cmd.Flags().StringVarP(&dateStr, "date", "d", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name or id")
	cmd.Flags().StringVar(&description, "description", "", "optional description")

	return cmd
}
