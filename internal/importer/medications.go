// ABOUTME: Normalizer for medication dose-event CSV exports.
// ABOUTME: Zoned timestamps, archived rows dropped, optional dosages fail soft.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// NormalizeMedications parses a medication export. Rows marked Archived
// are dropped silently; rows missing the date or medication name are
// skipped with a warning. Dates in these exports usually carry an
// explicit UTC offset ("2026-02-06 22:19:17 -0800"), which is preserved.
func NormalizeMedications(r io.Reader, filename string) ([]*models.Medication, []Warning, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header of %s: %w", filename, err)
	}

	cols := columnIndex(header)
	if _, ok := cols["Date"]; !ok {
		return nil, nil, fmt.Errorf("%s: no Date column in header", filename)
	}

	var meds []*models.Medication
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

		if get("Archived") == "Yes" {
			continue
		}

		name := get("Medication")
		ts, tsErr := parseTimestamp(get("Date"))
		if name == "" || tsErr != nil {
			warnings = append(warnings, Warning{File: filename, Line: line, Message: "missing date or medication, row skipped"})
			continue
		}

		m := models.NewMedication(ts, name)
		if scheduled, err := parseTimestamp(get("Scheduled Date")); err == nil {
			m.ScheduledAt = &scheduled
		}
		m.Dosage = optionalFloat(get("Dosage"))
		m.ScheduledDosage = optionalFloat(get("Scheduled Dosage"))
		m.Unit = get("Unit")
		m.Status = get("Status")

		meds = append(meds, m)
	}
	return meds, warnings, nil
}
