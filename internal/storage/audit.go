// ABOUTME: Read-only audit scans backing the validator.
// ABOUTME: Future timestamps, duplicates, outliers, heart-rate and coverage checks.
package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// FutureReadings returns readings timestamped after now, earliest first.
func (d *DB) FutureReadings(now time.Time) ([]*models.Reading, error) {
	rows, err := d.db.Query(`
		SELECT timestamp, metric, value, unit, source
		FROM readings
		WHERE timestamp > ?
		ORDER BY timestamp`,
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("future readings: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// DuplicateKey describes a (timestamp, metric, source) tuple stored more
// than once. The primary key makes this impossible under normal
// operation; the scan exists as a defensive invariant check.
type DuplicateKey struct {
	Timestamp string
	Metric    string
	Source    string
	Count     int
}

// DuplicateReadingKeys returns uniqueness-key violations, if any.
func (d *DB) DuplicateReadingKeys() ([]DuplicateKey, error) {
	rows, err := d.db.Query(`
		SELECT timestamp, metric, source, COUNT(*) AS n
		FROM readings
		GROUP BY timestamp, metric, source
		HAVING COUNT(*) > 1
		ORDER BY timestamp`)
	if err != nil {
		return nil, fmt.Errorf("duplicate keys: %w", err)
	}
	defer rows.Close()

	var dups []DuplicateKey
	for rows.Next() {
		var dk DuplicateKey
		if err := rows.Scan(&dk.Timestamp, &dk.Metric, &dk.Source, &dk.Count); err != nil {
			return nil, fmt.Errorf("scan duplicate key: %w", err)
		}
		dups = append(dups, dk)
	}
	return dups, rows.Err()
}

// Outlier is a reading far from its metric's historical distribution.
type Outlier struct {
	Timestamp time.Time
	Metric    string
	Value     float64
	Mean      float64
	StdDev    float64
}

// MetricOutliers returns readings more than sigma standard deviations
// from their metric's mean, for metrics with at least minPoints
// readings. Comparison is done on squared distances so no SQL math
// extension is required.
func (d *DB) MetricOutliers(sigma float64, minPoints int) ([]Outlier, error) {
	rows, err := d.db.Query(`
		WITH stats AS (
			SELECT metric,
			       AVG(value) AS mean,
			       AVG(value * value) - AVG(value) * AVG(value) AS variance
			FROM readings
			GROUP BY metric
			HAVING COUNT(*) >= ?
		)
		SELECT r.timestamp, r.metric, r.value, s.mean, s.variance
		FROM readings r
		JOIN stats s ON s.metric = r.metric
		WHERE s.variance > 0
		  AND (r.value - s.mean) * (r.value - s.mean) > ? * s.variance
		ORDER BY r.metric, r.timestamp`,
		minPoints, sigma*sigma,
	)
	if err != nil {
		return nil, fmt.Errorf("metric outliers: %w", err)
	}
	defer rows.Close()

	var outliers []Outlier
	for rows.Next() {
		var o Outlier
		var ts string
		var variance float64
		if err := rows.Scan(&ts, &o.Metric, &o.Value, &o.Mean, &variance); err != nil {
			return nil, fmt.Errorf("scan outlier: %w", err)
		}
		o.Timestamp, _ = time.Parse(time.RFC3339, ts)
		o.StdDev = math.Sqrt(variance)
		outliers = append(outliers, o)
	}
	return outliers, rows.Err()
}

// HeartRateOutOfRange returns heart-rate readings outside [min, max] bpm.
// Variability and recovery metrics are measured in different units and
// are excluded.
func (d *DB) HeartRateOutOfRange(min, max float64) ([]*models.Reading, error) {
	rows, err := d.db.Query(`
		SELECT timestamp, metric, value, unit, source
		FROM readings
		WHERE metric LIKE '%Heart Rate%'
		  AND metric NOT LIKE '%Variability%'
		  AND metric NOT LIKE '%Recovery%'
		  AND (value < ? OR value > ?)
		ORDER BY timestamp`,
		min, max,
	)
	if err != nil {
		return nil, fmt.Errorf("heart rate range: %w", err)
	}
	defer rows.Close()

	return scanReadings(rows)
}

// DailyDeviation is a day whose resting heart rate strays from its prior
// 7-day rolling average.
type DailyDeviation struct {
	Day        string
	Value      float64
	RollingAvg float64
}

// RestingHRDeviations returns days within the lookback window whose
// average resting heart rate deviates from the prior 7-day rolling
// average by more than threshold bpm.
func (d *DB) RestingHRDeviations(threshold float64, lookbackDays int) ([]DailyDeviation, error) {
	rows, err := d.db.Query(`
		WITH daily AS (
			SELECT DATE(timestamp) AS day, AVG(value) AS hr
			FROM readings
			WHERE metric = 'Resting Heart Rate'
			  AND DATE(timestamp) >= DATE('now', ?)
			GROUP BY DATE(timestamp)
		),
		rolling AS (
			SELECT day, hr,
			       AVG(hr) OVER (ORDER BY day ROWS BETWEEN 7 PRECEDING AND 1 PRECEDING) AS avg7
			FROM daily
		)
		SELECT day, hr, avg7
		FROM rolling
		WHERE avg7 IS NOT NULL AND ABS(hr - avg7) > ?
		ORDER BY day`,
		fmt.Sprintf("-%d days", lookbackDays), threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("resting heart rate deviations: %w", err)
	}
	defer rows.Close()

	var devs []DailyDeviation
	for rows.Next() {
		var dd DailyDeviation
		if err := rows.Scan(&dd.Day, &dd.Value, &dd.RollingAvg); err != nil {
			return nil, fmt.Errorf("scan deviation: %w", err)
		}
		devs = append(devs, dd)
	}
	return devs, rows.Err()
}

// MissingDays returns calendar days with no readings between the store's
// first and last day. Empty store yields no rows.
func (d *DB) MissingDays() ([]string, error) {
	rows, err := d.db.Query(`
		WITH RECURSIVE span(day, last) AS (
			SELECT DATE(MIN(timestamp)), DATE(MAX(timestamp))
			FROM readings
			HAVING MIN(timestamp) IS NOT NULL
			UNION ALL
			SELECT DATE(day, '+1 day'), last FROM span WHERE day < last
		),
		have AS (
			SELECT DISTINCT DATE(timestamp) AS day FROM readings
		)
		SELECT s.day
		FROM span s
		LEFT JOIN have h ON h.day = s.day
		WHERE h.day IS NULL
		ORDER BY s.day`)
	if err != nil {
		return nil, fmt.Errorf("missing days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
