// ABOUTME: Schema migrations for stores created by older versions.
// ABOUTME: Currently backfills the imports.file_hash ledger column.
package storage

import (
	"fmt"
)

// migration is one idempotent schema upgrade step.
type migration struct {
	name   string
	needed func(d *DB) (bool, error)
	apply  func(d *DB) error
}

// migrations run in order; each step checks whether it applies before
// touching the store.
var migrations = []migration{
	{
		name: "add imports.file_hash",
		needed: func(d *DB) (bool, error) {
			has, err := d.hasColumn("imports", "file_hash")
			return !has, err
		},
		apply: func(d *DB) error {
			_, err := d.db.Exec(`ALTER TABLE imports ADD COLUMN file_hash TEXT NOT NULL DEFAULT ''`)
			return err
		},
	},
}

// PendingMigrations returns the names of migrations the store still
// needs. A store created by the current version needs none.
func (d *DB) PendingMigrations() ([]string, error) {
	var pending []string
	for _, m := range migrations {
		needed, err := m.needed(d)
		if err != nil {
			return nil, fmt.Errorf("check migration %q: %w", m.name, err)
		}
		if needed {
			pending = append(pending, m.name)
		}
	}
	return pending, nil
}

// Migrate applies any pending schema migrations and returns the names
// of the steps that ran.
func (d *DB) Migrate() ([]string, error) {
	var applied []string
	for _, m := range migrations {
		needed, err := m.needed(d)
		if err != nil {
			return applied, fmt.Errorf("check migration %q: %w", m.name, err)
		}
		if !needed {
			continue
		}
		if err := m.apply(d); err != nil {
			return applied, fmt.Errorf("apply migration %q: %w", m.name, err)
		}
		applied = append(applied, m.name)
	}
	return applied, nil
}

// hasColumn reports whether the table already carries the column.
func (d *DB) hasColumn(table, column string) (bool, error) {
	rows, err := d.db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
