// ABOUTME: CLI command for browsing the import ledger.
// ABOUTME: Shows which export files have been applied and when.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importsLimit int

var importsCmd = &cobra.Command{
	Use:   "imports",
	Short: "List import ledger entries",
	Long: `List the import ledger, most recent first. A file listed here has been
fully applied; its rows are in the store and it will be skipped on
future runs.

EXAMPLES:

  health imports          # Last 20 ledger entries
  health imports -n 100   # More history`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := db.ListImports(importsLimit)
		if err != nil {
			return fmt.Errorf("failed to list imports: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No imports recorded.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, rec := range records {
			fmt.Printf("%s %s %s rows=%d\n",
				faint.Sprint(rec.ImportedAt.Format("2006-01-02 15:04")),
				padRight(rec.Filename, 36),
				padRight(rec.Source, 14),
				rec.RowsAdded)
		}
		return nil
	},
}

func init() {
	importsCmd.Flags().IntVarP(&importsLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(importsCmd)
}
