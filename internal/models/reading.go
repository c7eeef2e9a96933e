// ABOUTME: Reading model for normalized health measurements.
// ABOUTME: One row per observation; (timestamp, metric, source) is unique.
package models

import (
	"time"
)

// Reading represents a single observed health measurement in long format.
// Timestamps are source-local; exports rarely carry a timezone.
type Reading struct {
	Timestamp time.Time
	Metric    string
	Value     float64
	Unit      string
	Source    string
}

// NewReading creates a Reading for the given observation.
func NewReading(ts time.Time, metric string, value float64, unit, source string) *Reading {
	return &Reading{
		Timestamp: ts,
		Metric:    metric,
		Value:     value,
		Unit:      unit,
		Source:    source,
	}
}

// Key returns the uniqueness key for the reading. Two readings with the
// same key are the same observation; the store keeps only the first.
func (r *Reading) Key() string {
	return r.Timestamp.Format(time.RFC3339) + "|" + r.Metric + "|" + r.Source
}
