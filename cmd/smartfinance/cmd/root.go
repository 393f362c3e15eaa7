// Package cmd provides the smartfinance CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/smartfinance/internal/config"
	"github.com/mmynk/smartfinance/internal/entity"
	"github.com/mmynk/smartfinance/internal/storage"
	"github.com/mmynk/smartfinance/internal/storage/bolt"
	"github.com/mmynk/smartfinance/internal/storage/sqlite"
	"github.com/mmynk/smartfinance/pkg/logging"
)

var (
	cfgFile string
	debug   bool

	// cfg is loaded before every command runs.
	cfg      *config.Config
	closeLog = func() error { return nil }
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smartfinance",
	Short: "SmartFinance personal finance backend",
	Long: `smartfinance serves the SmartFinance API: stored finance data, the AI
assistant with offline fallbacks, and live voice sessions.

Example:
  smartfinance serve --config smartfinance.yaml
  smartfinance export transactions.csv
  smartfinance wipe --yes`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if debug {
			loaded.Log.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		closeLog, err = logging.Setup(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultFile+" when present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(wipeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// openStore opens the configured storage backend.
func openStore() (storage.Store, error) {
	schema := storage.DefaultSchema()
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		store, err = bolt.New(cfg.Storage.Path, schema)
	default:
		store, err = sqlite.New(cfg.Storage.Path, schema)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Driver, err)
	}
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path, "version", store.Version())
	return store, nil
}

// loadState opens the store and loads every collection, seeding a new store.
func loadState(ctx context.Context) (*entity.State, storage.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	state := entity.NewState(store)
	if err := state.Load(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	return state, store, nil
}
