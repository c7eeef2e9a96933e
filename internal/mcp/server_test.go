// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
	"github.com/simon-de-jose/health-clawkit/internal/storage"
	"github.com/simon-de-jose/health-clawkit/internal/validate"
)

// setupServer creates a server over a temp store seeded with one import.
func setupServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	server, err := NewServer(db, validate.DefaultThresholds())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func seedStore(t *testing.T, db *storage.DB) {
	t.Helper()

	tx, err := db.BeginImport()
	if err != nil {
		t.Fatalf("BeginImport: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	base := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)
	readings := []*models.Reading{
		models.NewReading(base, "Step Count", 9200, "count", "healthkit"),
		models.NewReading(base, "Body Mass", 171.2, "lb", "healthkit"),
		models.NewReading(base.AddDate(0, 0, 1), "Step Count", 8100, "count", "healthkit"),
	}
	for _, r := range readings {
		if err := tx.AddReading(r); err != nil {
			t.Fatalf("AddReading: %v", err)
		}
	}
	if err := tx.Record(models.NewImportRecord("Export-2026-02-06.csv", "healthkit", tx.RowsAdded())); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.db == nil {
		t.Error("Expected non-nil db")
	}
}

func TestHandleQueryReadings(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)
	ctx := context.Background()

	_, out, err := server.handleQueryReadings(ctx, nil, queryReadingsInput{Metric: "Step Count"})
	if err != nil {
		t.Fatalf("handleQueryReadings: %v", err)
	}

	readings, ok := out.([]readingOutput)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	if len(readings) != 2 {
		t.Errorf("got %d readings, want 2", len(readings))
	}
	for _, r := range readings {
		if r.Metric != "Step Count" {
			t.Errorf("filter leaked metric %q", r.Metric)
		}
	}
}

func TestHandleQueryReadingsEmpty(t *testing.T) {
	server, _ := setupServer(t)

	_, out, err := server.handleQueryReadings(context.Background(), nil, queryReadingsInput{})
	if err != nil {
		t.Fatalf("handleQueryReadings: %v", err)
	}
	msg, ok := out.(map[string]interface{})
	if !ok || msg["message"] == nil {
		t.Errorf("expected message output for empty store, got %v", out)
	}
}

func TestHandleLatestReading(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)

	_, out, err := server.handleLatestReading(context.Background(), nil, latestReadingInput{Metric: "Step Count"})
	if err != nil {
		t.Fatalf("handleLatestReading: %v", err)
	}

	r, ok := out.(readingOutput)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	if r.Value != 8100 {
		t.Errorf("latest value = %v, want 8100", r.Value)
	}
}

func TestHandleImportStatus(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)

	_, out, err := server.handleImportStatus(context.Background(), nil, importStatusInput{})
	if err != nil {
		t.Fatalf("handleImportStatus: %v", err)
	}

	if out.TotalImports != 1 || out.TotalReadings != 3 {
		t.Errorf("totals = %d imports / %d readings, want 1/3", out.TotalImports, out.TotalReadings)
	}
	if len(out.Recent) != 1 || out.Recent[0].Filename != "Export-2026-02-06.csv" {
		t.Errorf("unexpected recent entries: %+v", out.Recent)
	}
}

func TestHandleRunImport(t *testing.T) {
	server, db := setupServer(t)

	folder := t.TempDir()
	csv := "Date,Step Count (count),Body Mass (lb)\n2026-02-05 08:00,9200,171.2\n"
	if err := os.WriteFile(filepath.Join(folder, "Export-2026-02-05.csv"), []byte(csv), 0600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	_, out, err := server.handleRunImport(context.Background(), nil, runImportInput{Folder: folder})
	if err != nil {
		t.Fatalf("handleRunImport: %v", err)
	}
	if out.FilesImported != 1 || out.RowsAdded != 2 {
		t.Errorf("summary = %+v, want 1 file, 2 rows", out)
	}

	count, err := db.CountReadings()
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if count != 2 {
		t.Errorf("CountReadings = %d, want 2", count)
	}
}

func TestHandleRunImportDryRun(t *testing.T) {
	server, db := setupServer(t)

	folder := t.TempDir()
	csv := "Date,Step Count (count)\n2026-02-05 08:00,9200\n"
	if err := os.WriteFile(filepath.Join(folder, "Export-2026-02-05.csv"), []byte(csv), 0600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	_, out, err := server.handleRunImport(context.Background(), nil, runImportInput{Folder: folder, DryRun: true})
	if err != nil {
		t.Fatalf("handleRunImport: %v", err)
	}
	if !out.DryRun || out.RowsAdded != 1 {
		t.Errorf("summary = %+v, want dry-run with 1 would-be row", out)
	}

	count, err := db.CountReadings()
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if count != 0 {
		t.Errorf("dry run wrote %d readings", count)
	}
}

func TestHandleRunValidation(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)

	_, out, err := server.handleRunValidation(context.Background(), nil, runValidationInput{Verbose: true})
	if err != nil {
		t.Fatalf("handleRunValidation: %v", err)
	}
	findings, ok := out.([]findingOutput)
	if !ok {
		t.Fatalf("unexpected output type %T", out)
	}
	if len(findings) == 0 {
		t.Error("verbose validation should include info findings")
	}
}

func TestSummaryResource(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)

	result, err := server.handleSummaryResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleSummaryResource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}
	text := result.Contents[0].Text
	if !strings.Contains(text, `"readings": 3`) {
		t.Errorf("summary missing reading count: %s", text)
	}
	if !strings.Contains(text, "Step Count") {
		t.Errorf("summary missing key metric: %s", text)
	}
}

func TestRecentImportsResource(t *testing.T) {
	server, db := setupServer(t)
	seedStore(t, db)

	result, err := server.handleRecentImportsResource(context.Background(), nil)
	if err != nil {
		t.Fatalf("handleRecentImportsResource: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, "Export-2026-02-06.csv") {
		t.Errorf("resource missing ledger entry: %s", result.Contents[0].Text)
	}
}
