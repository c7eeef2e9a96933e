// ABOUTME: Tests for the import orchestrator.
// ABOUTME: Covers idempotence, dry-run non-mutation, routing, and per-file failure.
package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simon-de-jose/health-clawkit/internal/storage"
)

const wideCSV = "Date,Step Count (count),Body Mass (lb)\n" +
	"2026-02-05 08:00,9200,171.2\n"

// setupImporter creates a temp store and export folder.
func setupImporter(t *testing.T) (*storage.DB, *Importer, string) {
	t.Helper()

	dir := t.TempDir()
	d, err := storage.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})

	folder := filepath.Join(dir, "exports")
	if err := os.MkdirAll(folder, 0750); err != nil {
		t.Fatalf("Failed to create export folder: %v", err)
	}
	return d, New(d), folder
}

func writeExport(t *testing.T, folder, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(folder, name), []byte(contents), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestRunImportsAndRecordsLedger(t *testing.T) {
	d, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV)

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.FilesScanned != 1 || summary.FilesImported != 1 || summary.RowsAdded != 2 {
		t.Errorf("summary = %+v, want 1 scanned, 1 imported, 2 rows", summary)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", summary.Warnings)
	}

	rec, err := d.GetImport("Export-2026-02-05.csv")
	if err != nil {
		t.Fatalf("GetImport: %v", err)
	}
	if rec == nil {
		t.Fatal("expected ledger record")
	}
	if rec.RowsAdded != 2 || rec.Source != "healthkit" {
		t.Errorf("record = %+v, want 2 rows from healthkit", rec)
	}
	if rec.FileHash == "" {
		t.Error("expected file hash on record")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	d, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV)
	writeExport(t, folder, "Export-2026-02-06.csv",
		"Date,Step Count (count)\n2026-02-06 08:00,8100\n")

	first, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.FilesImported != 2 || first.RowsAdded != 3 {
		t.Fatalf("first summary = %+v, want 2 imported, 3 rows", first)
	}

	second, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if second.RowsAdded != 0 {
		t.Errorf("second run added %d rows, want 0", second.RowsAdded)
	}
	if second.FilesSkipped != second.FilesScanned {
		t.Errorf("second run skipped %d of %d files, want all",
			second.FilesSkipped, second.FilesScanned)
	}

	count, err := d.CountReadings()
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if count != 3 {
		t.Errorf("CountReadings = %d, want 3 after re-run", count)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	d, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV)

	summary, err := imp.Run(folder, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FilesImported != 1 || summary.RowsAdded != 2 {
		t.Errorf("dry-run summary = %+v, want would-import 1 file, 2 rows", summary)
	}

	count, err := d.CountReadings()
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if count != 0 {
		t.Errorf("dry run wrote %d readings", count)
	}
	imports, err := d.CountImports()
	if err != nil {
		t.Fatalf("CountImports: %v", err)
	}
	if imports != 0 {
		t.Errorf("dry run wrote %d ledger records", imports)
	}
}

func TestRunIgnoresUnroutedFiles(t *testing.T) {
	_, imp, folder := setupImporter(t)
	writeExport(t, folder, "notes.txt", "not an export")
	writeExport(t, folder, "random.csv", "Date,Step Count (count)\n2026-02-05,1\n")
	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV)

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1 (non-matching files invisible)", summary.FilesScanned)
	}
	if len(summary.Warnings) != 0 {
		t.Errorf("non-matching files should not warn: %v", summary.Warnings)
	}
}

func TestRunRoutesCompanionExports(t *testing.T) {
	d, imp, folder := setupImporter(t)
	writeExport(t, folder, "Workouts-2026-02-05.csv",
		"Start,End,Type,Duration\n2026-02-05 07:00:00,2026-02-05 07:45:00,Running,00:45:00\n")
	writeExport(t, folder, "Medications-2026-02-05.csv",
		"Date,Medication,Status,Archived\n2026-02-05 08:00:00 -0800,Vitamin D,Taken,No\n")
	writeExport(t, folder, "CycleTracking-2026-02-05.csv",
		"Start,Data,Value\n2026-02-05 00:00:00,Menstrual Flow,Light\n")

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FilesImported != 3 || summary.RowsAdded != 3 {
		t.Fatalf("summary = %+v, want 3 files, 3 rows", summary)
	}

	if n, _ := d.CountWorkouts(); n != 1 {
		t.Errorf("CountWorkouts = %d, want 1", n)
	}
	if n, _ := d.CountMedications(); n != 1 {
		t.Errorf("CountMedications = %d, want 1", n)
	}
	if n, _ := d.CountReadings(); n != 1 {
		t.Errorf("CountReadings = %d, want 1 (cycle tracking)", n)
	}

	for _, name := range []string{"Workouts-2026-02-05.csv", "Medications-2026-02-05.csv", "CycleTracking-2026-02-05.csv"} {
		imported, err := d.IsImported(name)
		if err != nil {
			t.Fatalf("IsImported(%s): %v", name, err)
		}
		if !imported {
			t.Errorf("%s missing from ledger", name)
		}
	}
}

func TestRunFailsSoftPerFile(t *testing.T) {
	d, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv", "Steps,Mass\n9200,171.2\n") // no Date column
	writeExport(t, folder, "Export-2026-02-06.csv",
		"Date,Step Count (count)\n2026-02-06 08:00,8100\n")

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.FilesFailed != 1 || summary.FilesImported != 1 {
		t.Errorf("summary = %+v, want 1 failed and 1 imported", summary)
	}
	if len(summary.Warnings) != 1 {
		t.Fatalf("got %d warnings, want 1 for the failed file", len(summary.Warnings))
	}
	if summary.Warnings[0].File != "Export-2026-02-05.csv" {
		t.Errorf("warning names %q, want the failed file", summary.Warnings[0].File)
	}

	// The failed file left no partial state.
	imported, err := d.IsImported("Export-2026-02-05.csv")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if imported {
		t.Error("failed file must not be marked imported")
	}
	if n, _ := d.CountReadings(); n != 1 {
		t.Errorf("CountReadings = %d, want 1 from the good file only", n)
	}
}

func TestRunPartialFileStillImports(t *testing.T) {
	_, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv",
		"Date,Step Count (count),Body Mass (lb)\n2026-02-05 08:00,N/A,171.2\n")

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FilesImported != 1 || summary.RowsAdded != 1 {
		t.Errorf("summary = %+v, want imported with 1 row", summary)
	}
	if len(summary.Warnings) != 1 {
		t.Errorf("got %d warnings, want exactly 1 for the bad cell", len(summary.Warnings))
	}
}

func TestRunWarnsWhenImportedFileChanges(t *testing.T) {
	_, imp, folder := setupImporter(t)
	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV)

	if _, err := imp.Run(folder, Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	writeExport(t, folder, "Export-2026-02-05.csv", wideCSV+"2026-02-05 09:00,400,\n")

	summary, err := imp.Run(folder, Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if summary.FilesSkipped != 1 || summary.RowsAdded != 0 {
		t.Errorf("changed file should still be skipped: %+v", summary)
	}
	if len(summary.Warnings) != 1 || !strings.Contains(summary.Warnings[0].Message, "changed") {
		t.Errorf("expected a changed-contents warning, got %v", summary.Warnings)
	}
}

func TestRunRejectsMissingFolder(t *testing.T) {
	_, imp, _ := setupImporter(t)

	_, err := imp.Run(filepath.Join(t.TempDir(), "nope"), Options{})
	if err == nil {
		t.Fatal("expected error for missing folder")
	}
}

func TestRouteFor(t *testing.T) {
	tests := []struct {
		filename   string
		wantSource string
		wantOK     bool
	}{
		{"HealthMetrics-2026-02-05.csv", "healthkit", true},
		{"Export-2026-02-05.csv", "healthkit", true},
		{"Workouts-2026-02-05.csv", "workouts", true},
		{"Medications-2026-02-05.csv", "medications", true},
		{"CycleTracking-2026-02-05.csv", "cycletracking", true},
		{"HealthMetrics-2026-02-05.txt", "", false},
		{"glucose-2026-02-05.csv", "", false},
		{"Export-2026-02-05", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			source, ok := routeFor(tt.filename)
			if source != tt.wantSource || ok != tt.wantOK {
				t.Errorf("routeFor(%q) = (%q, %v), want (%q, %v)",
					tt.filename, source, ok, tt.wantSource, tt.wantOK)
			}
		})
	}
}
