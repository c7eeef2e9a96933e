// ABOUTME: CLI command for creating the store and seeding the metric catalog.
// ABOUTME: Idempotent; safe to run on every setup.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the store and seed the metric catalog",
	Long: `Create the store (if missing), ensure the schema exists, and pre-seed
the metric catalog with definitions for common export metrics.

Safe to run repeatedly: existing tables and catalog entries are left
untouched. Imports also add catalog entries lazily for metrics the
seed catalog does not know.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := db.SeedMetricDefs(models.DefaultCatalog()); err != nil {
			return fmt.Errorf("failed to seed metric catalog: %w", err)
		}

		defs, err := db.ListMetricDefs()
		if err != nil {
			return fmt.Errorf("failed to list metric catalog: %w", err)
		}

		color.Green("✓ Store ready at %s", db.Path())
		fmt.Printf("Metric catalog: %d definitions\n", len(defs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
