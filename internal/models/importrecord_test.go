// ABOUTME: Tests for the ImportRecord ledger model.
// ABOUTME: Validates constructor defaults and the file-hash builder.
package models

import (
	"testing"
	"time"
)

func TestNewImportRecord(t *testing.T) {
	rec := NewImportRecord("HealthMetrics-2026-02-05.csv", "healthkit", 42)

	if rec.ID.String() == "" {
		t.Error("expected UUID to be set")
	}
	if rec.Filename != "HealthMetrics-2026-02-05.csv" {
		t.Errorf("Filename = %s", rec.Filename)
	}
	if rec.Source != "healthkit" {
		t.Errorf("Source = %s, want healthkit", rec.Source)
	}
	if rec.RowsAdded != 42 {
		t.Errorf("RowsAdded = %d, want 42", rec.RowsAdded)
	}
	if rec.FileHash != "" {
		t.Errorf("FileHash = %s, want empty", rec.FileHash)
	}
	if time.Since(rec.ImportedAt) > time.Minute {
		t.Errorf("ImportedAt = %v, want recent", rec.ImportedAt)
	}
}

func TestImportRecordWithFileHash(t *testing.T) {
	rec := NewImportRecord("Workouts-2026-02-05.csv", "workouts", 3).WithFileHash("abc123")

	if rec.FileHash != "abc123" {
		t.Errorf("FileHash = %s, want abc123", rec.FileHash)
	}
}
