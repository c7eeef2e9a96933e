// ABOUTME: Metric catalog operations: seeding and lookup.
// ABOUTME: The store tolerates readings for metrics with no catalog entry.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// SeedMetricDefs inserts catalog entries, leaving existing ones
// untouched.
func (d *DB) SeedMetricDefs(defs []models.MetricDefinition) error {
	for _, def := range defs {
		_, err := d.db.Exec(`
			INSERT OR IGNORE INTO metrics (name, display_name, category, unit, description)
			VALUES (?, ?, ?, ?, ?)`,
			def.Name, def.DisplayName, def.Category, def.Unit, def.Description,
		)
		if err != nil {
			return fmt.Errorf("seed metric %s: %w", def.Name, err)
		}
	}
	return nil
}

// GetMetricDef returns the catalog entry for a metric name, or nil if
// none exists.
func (d *DB) GetMetricDef(name string) (*models.MetricDefinition, error) {
	var def models.MetricDefinition
	err := d.db.QueryRow(`
		SELECT name, display_name, category, unit, description
		FROM metrics
		WHERE name = ?`, name).
		Scan(&def.Name, &def.DisplayName, &def.Category, &def.Unit, &def.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get metric definition: %w", err)
	}
	return &def, nil
}

// ListMetricDefs returns all catalog entries ordered by name.
func (d *DB) ListMetricDefs() ([]models.MetricDefinition, error) {
	rows, err := d.db.Query(`
		SELECT name, display_name, category, unit, description
		FROM metrics
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list metric definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.MetricDefinition
	for rows.Next() {
		var def models.MetricDefinition
		if err := rows.Scan(&def.Name, &def.DisplayName, &def.Category, &def.Unit, &def.Description); err != nil {
			return nil, fmt.Errorf("scan metric definition: %w", err)
		}
		defs = append(defs, def)
	}
	return defs, rows.Err()
}
