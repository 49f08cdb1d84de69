package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/tallyledger/tally/internal/cli"
	"github.com/tallyledger/tally/internal/common"
	"github.com/tallyledger/tally/internal/ofx"
	"github.com/tallyledger/tally/internal/service"
	"github.com/tallyledger/tally/internal/storage"
)

func importCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import transactions from a snapshot or OFX/QFX export",
		Long: `Import transactions from a file.

A JSON snapshot (as produced by 'tally export') REPLACES all stored
transactions. An OFX/QFX bank export ADDS its transactions to the store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			switch resolveFormat(format, args[0]) {
			case "ofx":
				return importOFX(cmd, store, args[0])
			default:
				return importSnapshot(cmd, store, args[0])
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (json, ofx; default by extension)")

	return cmd
}

func resolveFormat(flag, path string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return "ofx"
	default:
		return "json"
	}
}

func importSnapshot(cmd *cobra.Command, store service.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	snap, err := storage.ParseSnapshot(data)
	if errors.Is(err, common.ErrInvalidFormat) {
		return fmt.Errorf("%s is not a tally snapshot: %w", path, err)
	}
	if err != nil {
		return err
	}

	count, err := store.ImportSnapshot(cmd.Context(), snap)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Restored %d transaction(s) from %s", count, path)))
	return nil
}

func importOFX(cmd *cobra.Command, store service.Store, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	transactions, err := ofx.NewParser().ParseFile(cmd.Context(), file)
	if err != nil {
		return err
	}
	if len(transactions) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in " + path))
		return nil
	}

	bar := progressbar.NewOptions(len(transactions),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	imported, skipped := 0, 0
	for i := range transactions {
		_, err := store.AddTransaction(cmd.Context(), &transactions[i])
		switch {
		case errors.Is(err, common.ErrDuplicateID):
			// Already imported from a previous run of the same statement.
			skipped++
		case err != nil:
			return fmt.Errorf("failed to import transaction %q: %w", transactions[i].Name, err)
		default:
			imported++
		}
		_ = bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)

	msg := fmt.Sprintf("Imported %d transaction(s) from %s", imported, path)
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d duplicate(s) skipped)", skipped)
	}
	fmt.Println(cli.FormatSuccess(msg))
	return nil
}
