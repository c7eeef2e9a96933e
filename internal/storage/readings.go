// ABOUTME: Read-side queries over normalized readings.
// ABOUTME: Listing, latest-per-metric, counts, and per-source top metrics.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ListReadings returns readings most recent first, optionally filtered
// by metric and/or source. Empty strings mean no filter; limit <= 0
// returns all.
func (d *DB) ListReadings(metric, source string, limit int) ([]*models.Reading, error) {
	query := `
		SELECT timestamp, metric, value, unit, source
		FROM readings
	`
	var conds []string
	var args []interface{}
	if metric != "" {
		conds = append(conds, "metric = ?")
		args = append(args, metric)
	}
	if source != "" {
		conds = append(conds, "source = ?")
		args = append(args, source)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// LatestReading returns the most recent reading for a metric, or nil if
// the store has none.
func (d *DB) LatestReading(metric string) (*models.Reading, error) {
	row := d.db.QueryRow(`
		SELECT timestamp, metric, value, unit, source
		FROM readings
		WHERE metric = ?
		ORDER BY timestamp DESC
		LIMIT 1`, metric)

	var r models.Reading
	var ts string
	err := row.Scan(&ts, &r.Metric, &r.Value, &r.Unit, &r.Source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest reading: %w", err)
	}
	r.Timestamp, _ = time.Parse(time.RFC3339, ts)
	return &r, nil
}

// CountReadings returns the total number of stored readings.
func (d *DB) CountReadings() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count readings: %w", err)
	}
	return n, nil
}

// MetricCount pairs a metric name with its reading count.
type MetricCount struct {
	Metric string
	Count  int
}

// TopMetrics returns the metrics with the most readings, optionally
// restricted to one source.
func (d *DB) TopMetrics(source string, limit int) ([]MetricCount, error) {
	query := `
		SELECT metric, COUNT(*) AS n
		FROM readings
	`
	var args []interface{}
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " GROUP BY metric ORDER BY n DESC, metric"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("top metrics: %w", err)
	}
	defer rows.Close()

	var counts []MetricCount
	for rows.Next() {
		var mc MetricCount
		if err := rows.Scan(&mc.Metric, &mc.Count); err != nil {
			return nil, fmt.Errorf("scan metric count: %w", err)
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}

func scanReadings(rows *sql.Rows) ([]*models.Reading, error) {
	var readings []*models.Reading
	for rows.Next() {
		var r models.Reading
		var ts string
		if err := rows.Scan(&ts, &r.Metric, &r.Value, &r.Unit, &r.Source); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		r.Timestamp, _ = time.Parse(time.RFC3339, ts)
		readings = append(readings, &r)
	}
	return readings, rows.Err()
}
