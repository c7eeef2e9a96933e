// ABOUTME: CLI command printing the tool version.
// ABOUTME: Skips config loading and store open entirely.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("health %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
