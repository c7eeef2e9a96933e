// ABOUTME: Medication model for dose events from medication exports.
// ABOUTME: (timestamp, name) is unique; archived export rows are never imported.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Medication represents one medication dose event.
type Medication struct {
	ID              uuid.UUID
	Timestamp       time.Time
	ScheduledAt     *time.Time
	Name            string
	Dosage          *float64
	ScheduledDosage *float64
	Unit            string
	Status          string
}

// NewMedication creates a Medication with a generated UUID.
func NewMedication(ts time.Time, name string) *Medication {
	return &Medication{
		ID:        uuid.New(),
		Timestamp: ts,
		Name:      name,
	}
}

// Key returns the uniqueness key for the dose event.
func (m *Medication) Key() string {
	return m.Timestamp.Format(time.RFC3339) + "|" + m.Name
}
