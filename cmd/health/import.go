// ABOUTME: CLI command for scanning the export folder and importing new files.
// ABOUTME: Prints the run summary and runs data quality checks afterward.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simon-de-jose/health-clawkit/internal/importer"
	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import [folder]",
	Short: "Scan for export files and import any new ones",
	Long: `Scan a folder for health export CSV files and import any the ledger
has not seen yet. Safe to run repeatedly: already-imported files are
skipped by filename, and the uniqueness constraint on
(timestamp, metric, source) backstops against duplicate readings.

The folder defaults to data.export_folder from the config file.

Each file imports as one atomic unit: its rows and its ledger entry
become visible together, or not at all. Files with bad cells or rows
still import the valid remainder; every problem is listed as a warning.

After a successful real run, the data quality checks run automatically
and report anything needing attention.

EXAMPLES:

  health import                    # Scan the configured export folder
  health import ~/HealthExport     # Scan an explicit folder
  health import --dry-run          # Classify and count, write nothing`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder := cfg.Data.ExportFolder
		if len(args) == 1 {
			folder = args[0]
		}

		summary, err := importer.New(db).Run(folder, importer.Options{DryRun: importDryRun})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		printSummary(summary, importDryRun)

		if !importDryRun && summary.FilesImported > 0 {
			report := validate.NewAuditor(db, auditThresholds()).Audit()
			printReport(report, false)
		}
		return nil
	},
}

func printSummary(s *importer.Summary, dryRun bool) {
	if dryRun {
		color.Yellow("Dry run — nothing was written")
	}

	fmt.Printf("Files scanned:   %d\n", s.FilesScanned)
	if dryRun {
		fmt.Printf("Would import:    %d\n", s.FilesImported)
	} else {
		fmt.Printf("Files imported:  %d\n", s.FilesImported)
	}
	fmt.Printf("Files skipped:   %d\n", s.FilesSkipped)
	if s.FilesFailed > 0 {
		color.Red("Files failed:    %d", s.FilesFailed)
	}
	fmt.Printf("Rows added:      %d\n", s.RowsAdded)

	if len(s.Warnings) > 0 {
		fmt.Println()
		color.Yellow("Warnings (%d):", len(s.Warnings))
		for _, w := range s.Warnings {
			color.Yellow("  %s", w)
		}
	}

	switch {
	case s.FilesFailed > 0:
		color.Yellow("⚠ Some files failed to import")
	case dryRun:
		// Counts above say it all.
	case s.FilesImported > 0:
		color.Green("✓ Import complete")
	default:
		color.Green("✓ All files up to date")
	}
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "classify files and count rows without writing")
	rootCmd.AddCommand(importCmd)
}
