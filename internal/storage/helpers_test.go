// ABOUTME: Shared test helpers for storage tests.
// ABOUTME: Provides temp-store setup and import fixtures.
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// setupTestDB creates a store in a temp directory, cleaned up with the
// test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}

	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Failed to close test store: %v", err)
		}
	})

	return d
}

// importReadings commits the readings as one file import and returns
// the ledger record.
func importReadings(t *testing.T, d *DB, filename, source string, readings []*models.Reading) *models.ImportRecord {
	t.Helper()

	tx, err := d.BeginImport()
	if err != nil {
		t.Fatalf("BeginImport: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, r := range readings {
		if err := tx.AddReading(r); err != nil {
			t.Fatalf("AddReading: %v", err)
		}
	}

	rec := models.NewImportRecord(filename, source, tx.RowsAdded())
	if err := tx.Record(rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return rec
}

// ts builds a UTC timestamp for fixtures.
func ts(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}
