// ABOUTME: ImportTx, the atomic per-file unit of work for imports.
// ABOUTME: Rows and the ledger record commit together or not at all.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ImportTx wraps one source file's import in a single transaction:
// inserted rows and the ledger record become visible together on Commit,
// or not at all. Inserts use INSERT OR IGNORE against the uniqueness
// constraints, so rows already present (from any earlier file) are
// skipped and not counted.
type ImportTx struct {
	tx      *sql.Tx
	added   int
	metrics map[string]string // metric name -> unit, seeded into the catalog on Record
}

// BeginImport starts the transaction for one file's import.
func (d *DB) BeginImport() (*ImportTx, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	return &ImportTx{tx: tx, metrics: make(map[string]string)}, nil
}

// AddReading inserts one reading. A duplicate (timestamp, metric, source)
// tuple is ignored and not counted.
func (t *ImportTx) AddReading(r *models.Reading) error {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO readings (timestamp, metric, value, unit, source)
		VALUES (?, ?, ?, ?, ?)`,
		r.Timestamp.Format(time.RFC3339),
		r.Metric,
		r.Value,
		r.Unit,
		r.Source,
	)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	if n > 0 {
		t.added += int(n)
		if _, seen := t.metrics[r.Metric]; !seen {
			t.metrics[r.Metric] = r.Unit
		}
	}
	return nil
}

// AddWorkout inserts one workout session. A duplicate (start_time, type)
// pair is ignored and not counted.
func (t *ImportTx) AddWorkout(w *models.Workout) error {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO workouts
			(id, start_time, end_time, type, duration_seconds, total_energy_kcal,
			 active_energy_kcal, max_heart_rate, avg_heart_rate, distance_km, step_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID.String(),
		w.StartTime.Format(time.RFC3339),
		timeOrNil(w.EndTime),
		w.Type,
		w.DurationSeconds,
		w.TotalEnergyKcal,
		w.ActiveEnergyKcal,
		w.MaxHeartRate,
		w.AvgHeartRate,
		w.DistanceKm,
		w.StepCount,
	)
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	t.added += int(n)
	return nil
}

// AddMedication inserts one dose event. A duplicate (timestamp, medication)
// pair is ignored and not counted.
func (t *ImportTx) AddMedication(m *models.Medication) error {
	res, err := t.tx.Exec(`
		INSERT OR IGNORE INTO medications
			(id, timestamp, scheduled_at, medication, dosage, scheduled_dosage, unit, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID.String(),
		m.Timestamp.Format(time.RFC3339),
		timeOrNil(m.ScheduledAt),
		m.Name,
		m.Dosage,
		m.ScheduledDosage,
		m.Unit,
		m.Status,
	)
	if err != nil {
		return fmt.Errorf("insert medication: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert medication: %w", err)
	}
	t.added += int(n)
	return nil
}

// RowsAdded returns the number of rows actually inserted so far.
func (t *ImportTx) RowsAdded() int {
	return t.added
}

// Record writes the ledger entry for this import. Fails with
// ErrDuplicateImport if the filename already has a record — the caller
// must have checked IsImported first, so a hit here is a lost-idempotency
// bug and must abort the run. Metric catalog entries for newly-seen
// metrics are seeded in the same transaction.
func (t *ImportTx) Record(rec *models.ImportRecord) error {
	var exists bool
	err := t.tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM imports WHERE filename = ?)`, rec.Filename).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check ledger: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateImport, rec.Filename)
	}

	_, err = t.tx.Exec(`
		INSERT INTO imports (id, filename, imported_at, rows_added, source, file_hash)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID.String(),
		rec.Filename,
		rec.ImportedAt.Format(time.RFC3339),
		rec.RowsAdded,
		rec.Source,
		rec.FileHash,
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	for name, unit := range t.metrics {
		_, err := t.tx.Exec(`
			INSERT OR IGNORE INTO metrics (name, display_name, unit)
			VALUES (?, ?, ?)`,
			name, name, unit,
		)
		if err != nil {
			return fmt.Errorf("seed metric catalog: %w", err)
		}
	}

	return nil
}

// Commit makes the file's rows and ledger entry durable as one unit.
func (t *ImportTx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// Rollback discards the file's writes. Safe to defer after Commit.
func (t *ImportTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// timeOrNil converts an optional timestamp for binding.
func timeOrNil(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}
