// ABOUTME: CLI command for running read-only data quality checks.
// ABOUTME: Prints warnings, and info-level findings with --verbose.
package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

var validateVerbose bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run data quality checks over the store",
	Long: `Run read-only data quality checks and report findings. The store is
never modified; anomalies are flagged for the operator, not corrected.

CHECKS:

  future_timestamps     readings dated beyond the current time
  heart_rate_range      heart rate values outside the configured bpm range
  duplicate_keys        (timestamp, metric, source) uniqueness sanity check
  metric_outliers       values far from their metric's historical mean
  resting_hr_deviation  daily resting HR straying from its 7-day average
  date_coverage         calendar days with no readings at all

Thresholds come from the validation section of the config file.

EXAMPLES:

  health validate             # Show warnings
  health validate --verbose   # Also show passing checks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := validate.NewAuditor(db, auditThresholds()).Audit()
		printReport(report, validateVerbose)
		return nil
	},
}

func printReport(report *validate.Report, verbose bool) {
	faint := color.New(color.Faint)

	if verbose {
		for _, f := range report.Infos() {
			faint.Printf("  [%s] %s\n", f.Check, f.Message)
		}
	}

	warnings := report.Warnings()
	if len(warnings) == 0 {
		color.Green("✓ No data quality issues found")
		return
	}

	color.Yellow("Data quality warnings (%d):", len(warnings))
	for _, f := range warnings {
		color.Yellow("  [%s] %s", f.Check, f.Message)
	}
}

func init() {
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "include info-level findings")
	rootCmd.AddCommand(validateCmd)
}
