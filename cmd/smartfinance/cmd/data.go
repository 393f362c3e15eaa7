package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/smartfinance/internal/csvio"
	"github.com/mmynk/smartfinance/internal/seed"
)

var wipeConfirmed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the sample data into an empty store",
	Long: `Write the sample transactions, bills, assets and settings into the
store. A store that already holds transactions is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		seeded, err := seed.Seed(cmd.Context(), store)
		if err != nil {
			return err
		}
		if seeded {
			fmt.Fprintln(cmd.OutOrStdout(), "Sample data written.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Store already has data; nothing to do.")
		}
		return nil
	},
}

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Erase every stored record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeConfirmed {
			return errors.New("refusing to wipe without --yes")
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Wipe(cmd.Context()); err != nil {
			return err
		}
		slog.Info("All user data wiped", "path", cfg.Storage.Path)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export transactions as CSV",
	Long:  "Export every transaction as CSV to file, or to standard output.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		state, store, err := loadState(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, cerr := os.Create(args[0])
			if cerr != nil {
				return fmt.Errorf("failed to create %s: %w", args[0], cerr)
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			w = f
		}

		txs := state.Transactions.List()
		if err := csvio.Export(w, txs); err != nil {
			return err
		}
		slog.Info("Transactions exported", "count", len(txs))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import transactions from CSV",
	Long:  "Import transactions from a CSV with the columns " + csvio.ImportColumns + ".",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		result, err := csvio.Import(bufio.NewReader(f))
		if err != nil {
			return err
		}

		state, store, err := loadState(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		if _, err := state.Transactions.AddAll(cmd.Context(), result.Transactions); err != nil {
			return err
		}
		for _, row := range result.Skipped {
			slog.Warn("Row skipped", "line", row.Line, "reason", row.Reason)
		}
		fmt.Fprintln(cmd.OutOrStdout(), csvio.Summary(result))
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeConfirmed, "yes", false, "confirm that all data should be erased")
}
