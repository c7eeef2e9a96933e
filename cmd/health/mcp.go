// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio-based server with signal handling.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simon-de-jose/health-clawkit/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant
integration. The server communicates via stdin/stdout.

CLIENT CONFIGURATION:

  {
    "mcpServers": {
      "health": {
        "command": "health",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  query_readings           List readings by metric and/or source
  latest_reading           Most recent reading for a metric
  list_metric_definitions  Metric catalog
  import_status            Ledger entries and store totals
  run_import               Scan a folder and import new files
  run_validation           Read-only data quality checks

AVAILABLE RESOURCES:

  health://summary         Store totals and latest key metrics
  health://imports/recent  Recent import ledger entries`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(db, auditThresholds())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
