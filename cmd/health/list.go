// ABOUTME: CLI command for browsing stored readings.
// ABOUTME: Supports filtering by metric and source, and limiting results.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	listMetric string
	listSource string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List stored readings",
	Long: `List readings from the store, most recent first.

OUTPUT FORMAT:

  Each line shows: TIMESTAMP  METRIC  VALUE  UNIT  (SOURCE)

FILTERING:

  Use --metric to filter by canonical metric name and --source to
  filter by origin tag (healthkit, workouts, medications,
  cycletracking).

EXAMPLES:

  health list                              # Last 20 readings
  health list --metric "Step Count"        # One metric
  health list --source cycletracking -n 50 # One source, more rows`,
	RunE: func(cmd *cobra.Command, args []string) error {
		readings, err := db.ListReadings(listMetric, listSource, listLimit)
		if err != nil {
			return fmt.Errorf("failed to list readings: %w", err)
		}

		if len(readings) == 0 {
			fmt.Println("No readings found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range readings {
			fmt.Printf("%s %s %.2f %s%s\n",
				faint.Sprint(r.Timestamp.Format("2006-01-02 15:04")),
				padRight(r.Metric, 28),
				r.Value,
				r.Unit,
				faint.Sprintf(" (%s)", r.Source))
		}
		return nil
	},
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listMetric, "metric", "m", "", "filter by canonical metric name")
	listCmd.Flags().StringVarP(&listSource, "source", "s", "", "filter by source tag")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
