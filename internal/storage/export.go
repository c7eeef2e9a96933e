// ABOUTME: Full-store export in JSON and YAML formats.
// ABOUTME: Read-only snapshot of readings, catalog, workouts, medications, ledger.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ExportData is the full export format for the store.
type ExportData struct {
	Version     string                    `json:"version"`
	ExportedAt  time.Time                 `json:"exported_at"`
	Tool        string                    `json:"tool"`
	Readings    []*models.Reading         `json:"readings"`
	MetricDefs  []models.MetricDefinition `json:"metric_definitions"`
	Workouts    []*models.Workout         `json:"workouts"`
	Medications []*models.Medication      `json:"medications"`
	Imports     []*models.ImportRecord    `json:"imports"`
}

// GetAllData retrieves the full store contents for export.
func (d *DB) GetAllData() (*ExportData, error) {
	readings, err := d.ListReadings("", "", 0)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	defs, err := d.ListMetricDefs()
	if err != nil {
		return nil, fmt.Errorf("list metric definitions: %w", err)
	}

	workouts, err := d.ListWorkouts("", 0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	medications, err := d.ListMedications("", 0)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}

	imports, err := d.ListImports(0)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}

	return &ExportData{
		Version:     "1.0",
		ExportedAt:  time.Now(),
		Tool:        "clawkit",
		Readings:    readings,
		MetricDefs:  defs,
		Workouts:    workouts,
		Medications: medications,
		Imports:     imports,
	}, nil
}

// ExportJSON exports the full store as indented JSON.
func (d *DB) ExportJSON() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// yamlReading is the YAML-friendly reading shape, grouped under its
// metric name.
type yamlReading struct {
	Timestamp string  `yaml:"timestamp"`
	Value     float64 `yaml:"value"`
	Unit      string  `yaml:"unit,omitempty"`
	Source    string  `yaml:"source"`
}

type yamlImport struct {
	Filename   string `yaml:"filename"`
	ImportedAt string `yaml:"imported_at"`
	RowsAdded  int    `yaml:"rows_added"`
	Source     string `yaml:"source"`
	FileHash   string `yaml:"file_hash,omitempty"`
}

type yamlWorkout struct {
	StartTime       string   `yaml:"start_time"`
	Type            string   `yaml:"type"`
	DurationSeconds *int     `yaml:"duration_seconds,omitempty"`
	DistanceKm      *float64 `yaml:"distance_km,omitempty"`
	ActiveEnergy    *float64 `yaml:"active_energy_kcal,omitempty"`
	AvgHeartRate    *float64 `yaml:"avg_heart_rate,omitempty"`
}

type yamlMedication struct {
	Timestamp string   `yaml:"timestamp"`
	Name      string   `yaml:"name"`
	Dosage    *float64 `yaml:"dosage,omitempty"`
	Unit      string   `yaml:"unit,omitempty"`
	Status    string   `yaml:"status,omitempty"`
}

// ExportYAML exports the full store as YAML with readings grouped by
// metric for readability.
func (d *DB) ExportYAML() ([]byte, error) {
	data, err := d.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version     string                   `yaml:"version"`
		ExportedAt  string                   `yaml:"exported_at"`
		Tool        string                   `yaml:"tool"`
		Readings    map[string][]yamlReading `yaml:"readings"`
		Workouts    []yamlWorkout            `yaml:"workouts"`
		Medications []yamlMedication         `yaml:"medications"`
		Imports     []yamlImport             `yaml:"imports"`
	}{
		Version:     data.Version,
		ExportedAt:  data.ExportedAt.Format(time.RFC3339),
		Tool:        data.Tool,
		Readings:    make(map[string][]yamlReading),
		Workouts:    make([]yamlWorkout, 0, len(data.Workouts)),
		Medications: make([]yamlMedication, 0, len(data.Medications)),
		Imports:     make([]yamlImport, 0, len(data.Imports)),
	}

	for _, r := range data.Readings {
		yamlData.Readings[r.Metric] = append(yamlData.Readings[r.Metric], yamlReading{
			Timestamp: r.Timestamp.Format(time.RFC3339),
			Value:     r.Value,
			Unit:      r.Unit,
			Source:    r.Source,
		})
	}

	for _, w := range data.Workouts {
		yamlData.Workouts = append(yamlData.Workouts, yamlWorkout{
			StartTime:       w.StartTime.Format(time.RFC3339),
			Type:            w.Type,
			DurationSeconds: w.DurationSeconds,
			DistanceKm:      w.DistanceKm,
			ActiveEnergy:    w.ActiveEnergyKcal,
			AvgHeartRate:    w.AvgHeartRate,
		})
	}

	for _, m := range data.Medications {
		yamlData.Medications = append(yamlData.Medications, yamlMedication{
			Timestamp: m.Timestamp.Format(time.RFC3339),
			Name:      m.Name,
			Dosage:    m.Dosage,
			Unit:      m.Unit,
			Status:    m.Status,
		})
	}

	for _, rec := range data.Imports {
		yamlData.Imports = append(yamlData.Imports, yamlImport{
			Filename:   rec.Filename,
			ImportedAt: rec.ImportedAt.Format(time.RFC3339),
			RowsAdded:  rec.RowsAdded,
			Source:     rec.Source,
			FileHash:   rec.FileHash,
		})
	}

	return yaml.Marshal(yamlData)
}
