// ABOUTME: Root Cobra command for health CLI.
// ABOUTME: Loads config and handles store lifecycle via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simon-de-jose/health-clawkit/internal/config"
	"github.com/simon-de-jose/health-clawkit/internal/storage"
	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

var (
	db  *storage.DB
	cfg *config.Config

	flagDBPath string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "health",
	Short: "Health-metric import pipeline and time-series store",
	Long: `Health ingests sparse wide-format health-metric CSV exports into a
normalized SQLite time-series store. An import ledger guarantees that
re-running an import never duplicates data.

QUICK START:

  $ health init                         # Create the store and seed the catalog
  $ health import ~/HealthExport        # Import new export files
  $ health import --dry-run             # Preview without writing
  $ health list --metric "Step Count"   # Browse readings
  $ health validate                     # Run data quality checks

EXPORT FILES:

  Files are routed by name prefix and imported in sorted order:

    HealthMetrics-*.csv, Export-*.csv    wide health metrics (healthkit)
    Workouts-*.csv                       workout sessions
    Medications-*.csv                    medication dose events
    CycleTracking-*.csv                  cycle tracking readings

  Each file's rows and its ledger entry commit as one transaction, so a
  file is either fully imported or not at all. Already-imported files
  are skipped by filename.

CONFIGURATION:

  Settings load from $XDG_CONFIG_HOME/clawkit/config.yaml (see
  'health import --help' for the keys), with HEALTH_DB_PATH and
  HEALTH_EXPORT_FOLDER environment overrides.

MCP INTEGRATION:

  Run 'health mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "health": { "command": "health", "args": ["mcp"] }
    }
  }`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never touch the store skip the open.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		configPath := flagConfig
		if configPath == "" {
			configPath = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		dbPath := cfg.Data.DBPath
		if flagDBPath != "" {
			dbPath = flagDBPath
		}

		db, err = storage.Open(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			err := db.Close()
			db = nil
			return err
		}
		return nil
	},
}

// auditThresholds maps the loaded config onto validator thresholds.
func auditThresholds() validate.Thresholds {
	return validate.Thresholds{
		HeartRateMin:       cfg.Validation.HeartRateMin,
		HeartRateMax:       cfg.Validation.HeartRateMax,
		RestingHRDeviation: cfg.Validation.RestingHRDeviation,
		AnomalySigma:       cfg.Validation.AnomalySigma,
		MinDataPoints:      cfg.Validation.MinDataPoints,
		LookbackDays:       cfg.Validation.LookbackDays,
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to the store database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file")
}
