// ABOUTME: SQLite schema definition and idempotent creation.
// ABOUTME: Tables for readings, metric catalog, import ledger, workouts, medications.
package storage

// ensureSchema creates any missing tables and indexes. Creating an
// already-existing table or index is a no-op, not an error.
func (d *DB) ensureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		timestamp DATETIME NOT NULL,
		metric TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL,
		PRIMARY KEY (timestamp, metric, source)
	);

	CREATE TABLE IF NOT EXISTS metrics (
		name TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		imported_at DATETIME NOT NULL,
		rows_added INTEGER NOT NULL,
		source TEXT NOT NULL,
		file_hash TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		type TEXT NOT NULL,
		duration_seconds INTEGER,
		total_energy_kcal REAL,
		active_energy_kcal REAL,
		max_heart_rate REAL,
		avg_heart_rate REAL,
		distance_km REAL,
		step_count INTEGER,
		UNIQUE (start_time, type)
	);

	CREATE TABLE IF NOT EXISTS medications (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		scheduled_at DATETIME,
		medication TEXT NOT NULL,
		dosage REAL,
		scheduled_dosage REAL,
		unit TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		UNIQUE (timestamp, medication)
	);

	CREATE INDEX IF NOT EXISTS idx_readings_timestamp ON readings(timestamp);
	CREATE INDEX IF NOT EXISTS idx_readings_metric ON readings(metric);
	CREATE INDEX IF NOT EXISTS idx_imports_imported ON imports(imported_at DESC);
	CREATE INDEX IF NOT EXISTS idx_workouts_start ON workouts(start_time DESC);
	CREATE INDEX IF NOT EXISTS idx_medications_timestamp ON medications(timestamp DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
