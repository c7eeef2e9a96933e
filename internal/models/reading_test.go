// ABOUTME: Tests for the Reading model.
// ABOUTME: Validates constructor fields and uniqueness key behavior.
package models

import (
	"testing"
	"time"
)

func TestNewReading(t *testing.T) {
	ts := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)
	r := NewReading(ts, "Step Count", 9200, "count", "healthkit")

	if !r.Timestamp.Equal(ts) {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, ts)
	}
	if r.Metric != "Step Count" {
		t.Errorf("Metric = %s, want Step Count", r.Metric)
	}
	if r.Value != 9200 {
		t.Errorf("Value = %f, want 9200", r.Value)
	}
	if r.Unit != "count" {
		t.Errorf("Unit = %s, want count", r.Unit)
	}
	if r.Source != "healthkit" {
		t.Errorf("Source = %s, want healthkit", r.Source)
	}
}

func TestReadingKey(t *testing.T) {
	ts := time.Date(2026, 2, 5, 8, 0, 0, 0, time.UTC)
	base := NewReading(ts, "Step Count", 9200, "count", "healthkit")

	tests := []struct {
		name     string
		other    *Reading
		wantSame bool
	}{
		{
			name:     "identical tuple",
			other:    NewReading(ts, "Step Count", 11000, "count", "healthkit"),
			wantSame: true,
		},
		{
			name:     "different metric",
			other:    NewReading(ts, "Body Mass", 9200, "count", "healthkit"),
			wantSame: false,
		},
		{
			name:     "different timestamp",
			other:    NewReading(ts.Add(time.Minute), "Step Count", 9200, "count", "healthkit"),
			wantSame: false,
		},
		{
			name:     "different source",
			other:    NewReading(ts, "Step Count", 9200, "count", "cycletracking"),
			wantSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			same := base.Key() == tt.other.Key()
			if same != tt.wantSame {
				t.Errorf("key match = %v, want %v (%q vs %q)", same, tt.wantSame, base.Key(), tt.other.Key())
			}
		})
	}
}
