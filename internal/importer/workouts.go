// ABOUTME: Normalizer for workout session CSV exports.
// ABOUTME: Named columns, HH:MM:SS durations, fail-soft optional fields.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// NormalizeWorkouts parses a workout export. Rows missing Start or Type
// are skipped with a warning; optional measurement columns fail soft to
// nil. Workout files are small, so the result is returned as a slice.
func NormalizeWorkouts(r io.Reader, filename string) ([]*models.Workout, []Warning, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", filename, err)
	}

	cols := columnIndex(header)
	if _, ok := cols["Start"]; !ok {
		return nil, nil, fmt.Errorf("%s: no Start column in header", filename)
	}
	if _, ok := cols["Type"]; !ok {
		return nil, nil, fmt.Errorf("%s: no Type column in header", filename)
	}

	var workouts []*models.Workout
	var warnings []Warning
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, warnings, fmt.Errorf("read %s: %w", filename, err)
		}
		line++

		get := func(name string) string { return cell(record, cols, name) }

		workoutType := get("Type")
		start, startErr := parseTimestamp(get("Start"))
		if workoutType == "" || startErr != nil {
			warnings = append(warnings, Warning{File: filename, Line: line, Message: "missing start or type, row skipped"})
			continue
		}

		w := models.NewWorkout(start, workoutType)
		if end, err := parseTimestamp(get("End")); err == nil {
			w.WithEndTime(end)
		}
		if secs, ok := parseDuration(get("Duration")); ok {
			w.WithDuration(secs)
		}
		w.TotalEnergyKcal = optionalFloat(get("Total Energy (kcal)"))
		w.ActiveEnergyKcal = optionalFloat(get("Active Energy (kcal)"))
		w.MaxHeartRate = optionalFloat(get("Max Heart Rate (bpm)"))
		w.AvgHeartRate = optionalFloat(get("Avg Heart Rate (bpm)"))
		w.DistanceKm = optionalFloat(get("Distance (km)"))
		w.StepCount = optionalInt(get("Step Count (count)"))

		workouts = append(workouts, w)
	}
	return workouts, warnings, nil
}

// parseDuration converts "HH:MM:SS" or "MM:SS" to seconds.
func parseDuration(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

// columnIndex maps trimmed header names to their positions. The first
// occurrence of a repeated name wins.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}

// cell returns the trimmed value of a named column, or "" if the column
// is absent or the row is short.
func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// optionalFloat parses a numeric cell, failing soft to nil.
func optionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// optionalInt parses an integer cell, failing soft to nil. Exports write
// counts as floats on occasion, so a fractional value truncates.
func optionalInt(s string) *int {
	f := optionalFloat(s)
	if f == nil {
		return nil
	}
	v := int(*f)
	return &v
}
