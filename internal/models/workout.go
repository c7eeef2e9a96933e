// ABOUTME: Workout model for exercise sessions from workout exports.
// ABOUTME: (start_time, type) is unique; measurement fields are optional.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout represents one exercise session. Optional fields are nil when
// the export leaves the column empty.
type Workout struct {
	ID               uuid.UUID
	StartTime        time.Time
	EndTime          *time.Time
	Type             string
	DurationSeconds  *int
	TotalEnergyKcal  *float64
	ActiveEnergyKcal *float64
	MaxHeartRate     *float64
	AvgHeartRate     *float64
	DistanceKm       *float64
	StepCount        *int
}

// NewWorkout creates a Workout with a generated UUID.
func NewWorkout(startTime time.Time, workoutType string) *Workout {
	return &Workout{
		ID:        uuid.New(),
		StartTime: startTime,
		Type:      workoutType,
	}
}

// WithEndTime sets the session end timestamp.
func (w *Workout) WithEndTime(t time.Time) *Workout {
	w.EndTime = &t
	return w
}

// WithDuration sets the duration in seconds.
func (w *Workout) WithDuration(seconds int) *Workout {
	w.DurationSeconds = &seconds
	return w
}

// Key returns the uniqueness key for the workout.
func (w *Workout) Key() string {
	return w.StartTime.Format(time.RFC3339) + "|" + w.Type
}
