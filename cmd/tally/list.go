package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/model"
	"github.com/tallyledger/tally/internal/service"
)

func listCmd() *cobra.Command {
	var (
		txnType  string
		category string
		fromStr  string
		toStr    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Long:  `List transactions, newest first, optionally filtered by type, category or date range.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var transactions []model.Transaction
			switch {
			case fromStr != "" || toStr != "":
				if fromStr == "" || toStr == "" {
					return fmt.Errorf("--from and --to must be used together")
				}
				from, parseErr := model.ParseDate(fromStr)
				if parseErr != nil {
					return parseErr
				}
				to, parseErr := model.ParseDate(toStr)
				if parseErr != nil {
					return parseErr
				}
				transactions, err = store.TransactionsByDateRange(ctx, from, to)
			case txnType != "":
				parsed, parseErr := parseTransactionType(txnType)
				if parseErr != nil {
					return parseErr
				}
				transactions, err = store.TransactionsByType(ctx, parsed)
			case category != "":
				categoryID, resolveErr := resolveCategory(ctx, store, category)
				if resolveErr != nil {
					return resolveErr
				}
				transactions, err = store.TransactionsByCategory(ctx, categoryID)
			default:
				transactions, err = store.ListTransactions(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}

			return renderTransactions(cmd, store, transactions)
		},
	}

	cmd.Flags().StringVarP(&txnType, "type", "t", "", "filter by type (income, expense)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "filter by category name or id")
	cmd.Flags().StringVar(&fromStr, "from", "", "range start (YYYY-MM-DD, inclusive)")
	cmd.Flags().StringVar(&toStr, "to", "", "range end (YYYY-MM-DD, inclusive)")

	return cmd
}

func renderTransactions(cmd *cobra.Command, store service.Store, transactions []model.Transaction) error {
	if len(transactions) == 0 {
		fmt.Println(cli.InfoStyle.Render("No transactions found. Use 'tally add' to record one."))
		return nil
	}

	names, err := categoryNames(cmd.Context(), store)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Transactions"))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Type"),
		cli.HeaderStyle.Render("Name"),
		cli.HeaderStyle.Render("Amount"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("ID"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 10),
		strings.Repeat("-", 7),
		strings.Repeat("-", 24),
		strings.Repeat("-", 10),
		strings.Repeat("-", 14),
		strings.Repeat("-", 8))

	for _, txn := range transactions {
		amount := cli.IncomeStyle.Render(fmt.Sprintf("+%.2f", txn.Amount))
		if txn.Type == model.TypeExpense {
			amount = cli.ExpenseStyle.Render(fmt.Sprintf("-%.2f", txn.Amount))
		}

		categoryName := names[txn.CategoryID]
		if categoryName == "" {
			categoryName = cli.SubtleStyle.Render("(none)")
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.Date, txn.Type, txn.Name, amount, categoryName, txn.ID)
	}

	return nil
}
