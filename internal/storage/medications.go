// ABOUTME: Read-side queries over imported medication dose events.
// ABOUTME: Listing and counting; writes go through ImportTx only.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ListMedications returns dose events most recent first, optionally
// filtered by medication name. Empty string means no filter; limit <= 0
// returns all.
func (d *DB) ListMedications(name string, limit int) ([]*models.Medication, error) {
	query := `
		SELECT id, timestamp, scheduled_at, medication, dosage, scheduled_dosage, unit, status
		FROM medications
	`
	var args []interface{}
	if name != "" {
		query += " WHERE medication = ?"
		args = append(args, name)
	}
	query += " ORDER BY timestamp DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

// CountMedications returns the number of stored dose events.
func (d *DB) CountMedications() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM medications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count medications: %w", err)
	}
	return n, nil
}

func scanMedication(rows *sql.Rows) (*models.Medication, error) {
	var m models.Medication
	var idStr, timestamp string
	var scheduledAt sql.NullString
	var dosage, scheduledDosage sql.NullFloat64

	err := rows.Scan(&idStr, &timestamp, &scheduledAt, &m.Name, &dosage, &scheduledDosage, &m.Unit, &m.Status)
	if err != nil {
		return nil, fmt.Errorf("scan medication: %w", err)
	}

	m.ID, _ = uuid.Parse(idStr)
	m.Timestamp, _ = time.Parse(time.RFC3339, timestamp)
	if scheduledAt.Valid {
		t, _ := time.Parse(time.RFC3339, scheduledAt.String)
		m.ScheduledAt = &t
	}
	if dosage.Valid {
		m.Dosage = &dosage.Float64
	}
	if scheduledDosage.Valid {
		m.ScheduledDosage = &scheduledDosage.Float64
	}
	return &m, nil
}
