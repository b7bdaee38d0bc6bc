package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JonMunkholm/recipegrid/internal/config"
	"github.com/JonMunkholm/recipegrid/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any command runs.
var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "recipegrid",
	Short: "Editable recipe price table",
	Long: `recipegrid fetches the recipe list from the remote source and serves it
as a sortable table whose prices can be edited, submitted and reset.

Run without arguments to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env file if it exists (Overload overwrites existing env vars)
		if err := godotenv.Overload(); err != nil {
			slog.Debug("no .env file found, using environment variables")
		} else {
			slog.Info("loaded .env file (overwriting existing env vars)")
		}

		// Load and validate configuration
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		// Setup structured logging based on config
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
	RunE: runServe,
}

// serveCmd starts the web server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

// snapshotCmd is the parent command for snapshot maintenance
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect or clear the submitted edits",
	Long: `Work on the persisted snapshot in the configured store without starting
the server.

Available subcommands:
  show  - Print the submitted records as JSON
  clear - Remove the submitted records`,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the submitted records as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotShow,
}

var snapshotClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the submitted records",
	Long: `Remove the submitted records from the store. Use this when a corrupt
snapshot keeps the server on the loading page.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotClear,
}

func init() {
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
