// ABOUTME: MCP tool implementations for the readings store.
// ABOUTME: Read/query tools plus controlled import and validation entry points.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/simon-de-jose/health-clawkit/internal/importer"
	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_readings",
		Description: "List stored readings, optionally filtered by metric and/or source",
	}, s.handleQueryReadings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "latest_reading",
		Description: "Get the most recent reading for a metric",
	}, s.handleLatestReading)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metric_definitions",
		Description: "List the metric catalog (canonical names, categories, units)",
	}, s.handleListMetricDefs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "import_status",
		Description: "Show recent import ledger entries and store totals",
	}, s.handleImportStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_import",
		Description: "Scan a folder for export files and import any not yet in the ledger",
	}, s.handleRunImport)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "run_validation",
		Description: "Run read-only data quality checks over the store",
	}, s.handleRunValidation)
}

// Tool input/output types

type queryReadingsInput struct {
	Metric string `json:"metric,omitempty" jsonschema:"Filter by canonical metric name"`
	Source string `json:"source,omitempty" jsonschema:"Filter by source tag (healthkit, workouts, medications, cycletracking)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type readingOutput struct {
	Timestamp string  `json:"timestamp"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit,omitempty"`
	Source    string  `json:"source"`
}

type latestReadingInput struct {
	Metric string `json:"metric" jsonschema:"Canonical metric name"`
}

type importStatusInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max ledger entries (default 10)"`
}

type importStatusOutput struct {
	TotalImports  int                 `json:"total_imports"`
	TotalReadings int                 `json:"total_readings"`
	Recent        []importEntryOutput `json:"recent"`
}

type importEntryOutput struct {
	Filename   string `json:"filename"`
	ImportedAt string `json:"imported_at"`
	RowsAdded  int    `json:"rows_added"`
	Source     string `json:"source"`
}

type runImportInput struct {
	Folder string `json:"folder" jsonschema:"Folder containing export CSV files"`
	DryRun bool   `json:"dry_run,omitempty" jsonschema:"Classify and count without writing"`
}

type runImportOutput struct {
	FilesScanned  int      `json:"files_scanned"`
	FilesImported int      `json:"files_imported"`
	FilesSkipped  int      `json:"files_skipped"`
	FilesFailed   int      `json:"files_failed"`
	RowsAdded     int      `json:"rows_added"`
	Warnings      []string `json:"warnings,omitempty"`
	DryRun        bool     `json:"dry_run"`
}

type runValidationInput struct {
	Verbose bool `json:"verbose,omitempty" jsonschema:"Include info-level findings"`
}

type findingOutput struct {
	Check    string `json:"check"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Tool handlers

func (s *Server) handleQueryReadings(ctx context.Context, req *mcp.CallToolRequest, input queryReadingsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	readings, err := s.db.ListReadings(input.Metric, input.Source, input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list readings: %w", err)
	}

	if len(readings) == 0 {
		return nil, map[string]interface{}{"message": "No readings found."}, nil
	}

	out := make([]readingOutput, 0, len(readings))
	for _, r := range readings {
		out = append(out, readingOutput{
			Timestamp: r.Timestamp.Format(time.RFC3339),
			Metric:    r.Metric,
			Value:     r.Value,
			Unit:      r.Unit,
			Source:    r.Source,
		})
	}
	return nil, out, nil
}

func (s *Server) handleLatestReading(ctx context.Context, req *mcp.CallToolRequest, input latestReadingInput) (*mcp.CallToolResult, any, error) {
	r, err := s.db.LatestReading(input.Metric)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get latest reading: %w", err)
	}
	if r == nil {
		return nil, map[string]interface{}{"message": fmt.Sprintf("No readings for %s.", input.Metric)}, nil
	}

	return nil, readingOutput{
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Metric:    r.Metric,
		Value:     r.Value,
		Unit:      r.Unit,
		Source:    r.Source,
	}, nil
}

func (s *Server) handleListMetricDefs(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	defs, err := s.db.ListMetricDefs()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list metric definitions: %w", err)
	}
	if len(defs) == 0 {
		return nil, map[string]interface{}{"message": "Metric catalog is empty."}, nil
	}
	return nil, defs, nil
}

func (s *Server) handleImportStatus(ctx context.Context, req *mcp.CallToolRequest, input importStatusInput) (*mcp.CallToolResult, importStatusOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 10
	}

	totalImports, err := s.db.CountImports()
	if err != nil {
		return nil, importStatusOutput{}, fmt.Errorf("failed to count imports: %w", err)
	}
	totalReadings, err := s.db.CountReadings()
	if err != nil {
		return nil, importStatusOutput{}, fmt.Errorf("failed to count readings: %w", err)
	}
	records, err := s.db.ListImports(input.Limit)
	if err != nil {
		return nil, importStatusOutput{}, fmt.Errorf("failed to list imports: %w", err)
	}

	out := importStatusOutput{
		TotalImports:  totalImports,
		TotalReadings: totalReadings,
	}
	for _, rec := range records {
		out.Recent = append(out.Recent, importEntryOutput{
			Filename:   rec.Filename,
			ImportedAt: rec.ImportedAt.Format(time.RFC3339),
			RowsAdded:  rec.RowsAdded,
			Source:     rec.Source,
		})
	}
	return nil, out, nil
}

func (s *Server) handleRunImport(ctx context.Context, req *mcp.CallToolRequest, input runImportInput) (*mcp.CallToolResult, runImportOutput, error) {
	summary, err := importer.New(s.db).Run(input.Folder, importer.Options{DryRun: input.DryRun})
	if err != nil {
		return nil, runImportOutput{}, fmt.Errorf("import failed: %w", err)
	}

	out := runImportOutput{
		FilesScanned:  summary.FilesScanned,
		FilesImported: summary.FilesImported,
		FilesSkipped:  summary.FilesSkipped,
		FilesFailed:   summary.FilesFailed,
		RowsAdded:     summary.RowsAdded,
		DryRun:        input.DryRun,
	}
	for _, w := range summary.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	return nil, out, nil
}

func (s *Server) handleRunValidation(ctx context.Context, req *mcp.CallToolRequest, input runValidationInput) (*mcp.CallToolResult, any, error) {
	report := validate.NewAuditor(s.db, s.thresholds).Audit()

	var out []findingOutput
	for _, f := range report.Findings {
		if f.Severity == validate.SeverityInfo && !input.Verbose {
			continue
		}
		out = append(out, findingOutput{
			Check:    f.Check,
			Severity: string(f.Severity),
			Message:  f.Message,
		})
	}
	if len(out) == 0 {
		return nil, map[string]interface{}{"message": "No data quality issues found."}, nil
	}
	return nil, out, nil
}
