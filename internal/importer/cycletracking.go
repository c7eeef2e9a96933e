// ABOUTME: Normalizer for cycle-tracking CSV exports.
// ABOUTME: Text values encode to numbers; originals are kept in the unit field.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// cycleValues encodes the categorical values these exports produce.
// Unknown text encodes to 0 so the row is still queryable; the original
// text rides along in the unit field.
var cycleValues = map[string]float64{
	"Unspecified": 0,
	"None":        0,
	"Light":       1,
	"Medium":      2,
	"Heavy":       3,
	"Yes":         1,
	"No":          0,
}

// NormalizeCycleTracking parses a cycle-tracking export into readings.
// These files use Start/End/Data/Value columns rather than the wide
// layout; each row becomes one reading with metric
// "Cycle Tracking - <Data>".
func NormalizeCycleTracking(r io.Reader, filename string) ([]*models.Reading, []Warning, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", filename, err)
	}

	cols := columnIndex(header)
	for _, required := range []string{"Start", "Data", "Value"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("%s: no %s column in header", filename, required)
		}
	}

	var readings []*models.Reading
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

		data := get("Data")
		value := get("Value")
		ts, tsErr := parseTimestamp(get("Start"))
		if data == "" || value == "" || tsErr != nil {
			warnings = append(warnings, Warning{File: filename, Line: line, Message: "missing start, data, or value, row skipped"})
			continue
		}

		numeric, err := strconv.ParseFloat(value, 64)
		if err != nil {
			numeric = cycleValues[value]
		}
		readings = append(readings, models.NewReading(ts, "Cycle Tracking - "+data, numeric, value, "cycletracking"))
	}
	return readings, warnings, nil
}
