// ABOUTME: CLI command for applying schema migrations to older stores.
// ABOUTME: Supports previewing pending steps with --dry-run.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateDryRun bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations to an older store",
	Long: `Apply any pending schema migrations to a store created by an older
version of this tool. A store created by the current version needs
none.

Currently migrates: the file_hash ledger column used for change
detection on already-imported files.

EXAMPLES:

  health migrate --dry-run   # Show pending migrations
  health migrate             # Apply them`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateDryRun {
			pending, err := db.PendingMigrations()
			if err != nil {
				return fmt.Errorf("failed to check migrations: %w", err)
			}
			if len(pending) == 0 {
				color.Green("✓ Store is up to date")
				return nil
			}
			color.Yellow("Pending migrations (%d):", len(pending))
			for _, name := range pending {
				fmt.Printf("  %s\n", name)
			}
			return nil
		}

		applied, err := db.Migrate()
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		if len(applied) == 0 {
			color.Green("✓ Store is up to date")
			return nil
		}
		for _, name := range applied {
			color.Green("✓ Applied: %s", name)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "show pending migrations without applying them")
	rootCmd.AddCommand(migrateCmd)
}
