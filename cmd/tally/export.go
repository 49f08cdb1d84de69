package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/model"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all transactions and categories to a JSON snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			snap, err := store.ExportSnapshot(ctx)
			if err != nil {
				return fmt.Errorf("failed to export snapshot: %w", err)
			}

			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode snapshot: %w", err)
			}

			if output == "" {
				output = fmt.Sprintf("tally-export-%s.json", snap.ExportedAt.Format(model.DateLayout))
			}
			if err := os.WriteFile(output, data, 0600); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transaction(s) to %s", snap.Count, output)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default tally-export-<date>.json)")

	return cmd
}
