// ABOUTME: Read-side queries over imported workout sessions.
// ABOUTME: Listing and counting; writes go through ImportTx only.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ListWorkouts returns workouts most recent first, optionally filtered
// by type. Empty string means no filter; limit <= 0 returns all.
func (d *DB) ListWorkouts(workoutType string, limit int) ([]*models.Workout, error) {
	query := `
		SELECT id, start_time, end_time, type, duration_seconds, total_energy_kcal,
		       active_energy_kcal, max_heart_rate, avg_heart_rate, distance_km, step_count
		FROM workouts
	`
	var args []interface{}
	if workoutType != "" {
		query += " WHERE type = ?"
		args = append(args, workoutType)
	}
	query += " ORDER BY start_time DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// CountWorkouts returns the number of stored workout sessions.
func (d *DB) CountWorkouts() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM workouts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count workouts: %w", err)
	}
	return n, nil
}

func scanWorkout(rows *sql.Rows) (*models.Workout, error) {
	var w models.Workout
	var idStr, startTime string
	var endTime sql.NullString
	var durationSeconds, stepCount sql.NullInt64
	var totalEnergy, activeEnergy, maxHR, avgHR, distance sql.NullFloat64

	err := rows.Scan(&idStr, &startTime, &endTime, &w.Type, &durationSeconds,
		&totalEnergy, &activeEnergy, &maxHR, &avgHR, &distance, &stepCount)
	if err != nil {
		return nil, fmt.Errorf("scan workout: %w", err)
	}

	w.ID, _ = uuid.Parse(idStr)
	w.StartTime, _ = time.Parse(time.RFC3339, startTime)
	if endTime.Valid {
		t, _ := time.Parse(time.RFC3339, endTime.String)
		w.EndTime = &t
	}
	if durationSeconds.Valid {
		v := int(durationSeconds.Int64)
		w.DurationSeconds = &v
	}
	if totalEnergy.Valid {
		w.TotalEnergyKcal = &totalEnergy.Float64
	}
	if activeEnergy.Valid {
		w.ActiveEnergyKcal = &activeEnergy.Float64
	}
	if maxHR.Valid {
		w.MaxHeartRate = &maxHR.Float64
	}
	if avgHR.Valid {
		w.AvgHeartRate = &avgHR.Float64
	}
	if distance.Valid {
		w.DistanceKm = &distance.Float64
	}
	if stepCount.Valid {
		v := int(stepCount.Int64)
		w.StepCount = &v
	}
	return &w, nil
}
