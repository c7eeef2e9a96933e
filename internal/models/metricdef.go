// ABOUTME: MetricDefinition catalog model describing known metrics.
// ABOUTME: Ships a default catalog for common export metrics across categories.
package models

// Metric categories used by the default catalog.
const (
	CategoryActivity = "activity"
	CategoryHeart    = "heart"
	CategorySleep    = "sleep"
	CategoryBody     = "body"
	CategoryCycle    = "cycle"
)

// MetricDefinition is a catalog entry for a known metric. The store
// tolerates readings for metrics with no definition; entries exist for
// display and reporting.
type MetricDefinition struct {
	Name        string
	DisplayName string
	Category    string
	Unit        string
	Description string
}

// DefaultCatalog returns definitions for the metrics a standard health
// export produces. Used to pre-seed the catalog; imports lazily add
// anything not listed here.
func DefaultCatalog() []MetricDefinition {
	return []MetricDefinition{
		{Name: "Step Count", DisplayName: "Steps", Category: CategoryActivity, Unit: "count"},
		{Name: "Active Energy", DisplayName: "Active Energy", Category: CategoryActivity, Unit: "kcal"},
		{Name: "Walking + Running Distance", DisplayName: "Walk/Run Distance", Category: CategoryActivity, Unit: "km"},
		{Name: "Flights Climbed", DisplayName: "Flights Climbed", Category: CategoryActivity, Unit: "count"},
		{Name: "Exercise Time", DisplayName: "Exercise Minutes", Category: CategoryActivity, Unit: "min"},
		{Name: "Heart Rate [Avg]", DisplayName: "Heart Rate (avg)", Category: CategoryHeart, Unit: "bpm"},
		{Name: "Heart Rate [Min]", DisplayName: "Heart Rate (min)", Category: CategoryHeart, Unit: "bpm"},
		{Name: "Heart Rate [Max]", DisplayName: "Heart Rate (max)", Category: CategoryHeart, Unit: "bpm"},
		{Name: "Resting Heart Rate", DisplayName: "Resting Heart Rate", Category: CategoryHeart, Unit: "bpm"},
		{Name: "Heart Rate Variability", DisplayName: "HRV", Category: CategoryHeart, Unit: "ms"},
		{Name: "Sleep Analysis [Total]", DisplayName: "Sleep (total)", Category: CategorySleep, Unit: "hr"},
		{Name: "Sleep Analysis [Core]", DisplayName: "Sleep (core)", Category: CategorySleep, Unit: "hr"},
		{Name: "Sleep Analysis [Deep]", DisplayName: "Sleep (deep)", Category: CategorySleep, Unit: "hr"},
		{Name: "Sleep Analysis [REM]", DisplayName: "Sleep (REM)", Category: CategorySleep, Unit: "hr"},
		{Name: "Body Mass", DisplayName: "Weight", Category: CategoryBody, Unit: "lb"},
		{Name: "Respiratory Rate", DisplayName: "Respiratory Rate", Category: CategoryBody, Unit: "count/min"},
	}
}
