package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/stats"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show income/expense totals",
		Long:  `Compute total income, total expense, balance and transaction count over all transactions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summary, err := stats.New(store).Compute(ctx)
			if err != nil {
				return fmt.Errorf("failed to compute stats: %w", err)
			}

			content := fmt.Sprintf("%s  %s\n%s  %s\n%s  %.2f\n%s  %d",
				"Income: ", cli.IncomeStyle.Render(fmt.Sprintf("+%.2f", summary.TotalIncome)),
				"Expense:", cli.ExpenseStyle.Render(fmt.Sprintf("-%.2f", summary.TotalExpense)),
				"Balance:", summary.Balance,
				"Count:  ", summary.Count)

			fmt.Println(cli.RenderBox("Totals", content))
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Search transactions by name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			matches, err := stats.New(store).Search(ctx, args[0])
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			return renderTransactions(cmd, store, matches)
		},
	}
}
