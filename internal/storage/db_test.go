// ABOUTME: Tests for store lifecycle and schema creation.
// ABOUTME: Validates open/reopen idempotence and default XDG paths.
package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenCreatesSchema(t *testing.T) {
	d := setupTestDB(t)

	tables := []string{"readings", "metrics", "imports", "workouts", "medications"}
	for _, table := range tables {
		var name string
		err := d.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	indexes := []string{"idx_readings_timestamp", "idx_readings_metric"}
	for _, index := range indexes {
		var name string
		err := d.db.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'index' AND name = ?`, index,
		).Scan(&name)
		if err != nil {
			t.Errorf("index %s missing: %v", index, err)
		}
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "test.db")

	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	d1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Second open must tolerate existing tables and indexes.
	d2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer d2.Close()

	count, err := d2.CountReadings()
	if err != nil {
		t.Fatalf("CountReadings: %v", err)
	}
	if count != 0 {
		t.Errorf("CountReadings = %d, want 0", count)
	}
}

func TestDefaultDBPath(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	want := filepath.Join(tmp, "clawkit", "health.db")
	if got := DefaultDBPath(); got != want {
		t.Errorf("DefaultDBPath = %s, want %s", got, want)
	}
}

func TestPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	d, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if d.Path() != dbPath {
		t.Errorf("Path = %s, want %s", d.Path(), dbPath)
	}
}
