// ABOUTME: Read-only data quality auditor over the readings store.
// ABOUTME: Each check runs independently and reports findings, never mutates.
package validate

import (
	"fmt"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/storage"
)

// Severity classifies a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one observation from an audit check.
type Finding struct {
	Check    string
	Severity Severity
	Message  string
}

// Report collects the findings of one audit run.
type Report struct {
	Findings []Finding
}

// Warnings returns the warning-level findings.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

// Infos returns the info-level findings.
func (r *Report) Infos() []Finding {
	return r.filter(SeverityInfo)
}

// HasWarnings reports whether the audit found anything needing attention.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings()) > 0
}

func (r *Report) filter(s Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

func (r *Report) warn(check, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{Check: check, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) info(check, format string, args ...interface{}) {
	r.Findings = append(r.Findings, Finding{Check: check, Severity: SeverityInfo, Message: fmt.Sprintf(format, args...)})
}

// Thresholds configures the audit checks.
type Thresholds struct {
	HeartRateMin       float64
	HeartRateMax       float64
	RestingHRDeviation float64
	AnomalySigma       float64
	MinDataPoints      int
	LookbackDays       int
}

// DefaultThresholds returns the standard audit configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		HeartRateMin:       30,
		HeartRateMax:       220,
		RestingHRDeviation: 15,
		AnomalySigma:       3.0,
		MinDataPoints:      30,
		LookbackDays:       30,
	}
}

// Auditor runs read-only quality checks over the store.
type Auditor struct {
	db         *storage.DB
	thresholds Thresholds
	now        func() time.Time
}

// NewAuditor creates an auditor with the given thresholds.
func NewAuditor(db *storage.DB, thresholds Thresholds) *Auditor {
	return &Auditor{db: db, thresholds: thresholds, now: time.Now}
}

// detailLimit caps how many individual rows a check names before
// summarizing the remainder.
const detailLimit = 3

// Audit runs every check and returns the combined report. A check that
// fails to execute reports itself as a warning; the remaining checks
// still run.
func (a *Auditor) Audit() *Report {
	report := &Report{}
	checks := []func(*Report){
		a.checkFutureTimestamps,
		a.checkHeartRateRange,
		a.checkDuplicateKeys,
		a.checkOutliers,
		a.checkRestingHRDeviation,
		a.checkDateCoverage,
	}
	for _, check := range checks {
		check(report)
	}
	return report
}

func (a *Auditor) checkFutureTimestamps(report *Report) {
	const check = "future_timestamps"
	readings, err := a.db.FutureReadings(a.now())
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(readings) == 0 {
		report.info(check, "no future timestamps found")
		return
	}
	report.warn(check, "found %d readings with future timestamps (earliest: %s)",
		len(readings), readings[0].Timestamp.Format(time.RFC3339))
}

func (a *Auditor) checkHeartRateRange(report *Report) {
	const check = "heart_rate_range"
	readings, err := a.db.HeartRateOutOfRange(a.thresholds.HeartRateMin, a.thresholds.HeartRateMax)
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(readings) == 0 {
		report.info(check, "heart rate values within normal range")
		return
	}
	report.warn(check, "found %d heart rate readings outside normal range (%.0f-%.0f bpm)",
		len(readings), a.thresholds.HeartRateMin, a.thresholds.HeartRateMax)
	for i, r := range readings {
		if i == detailLimit {
			report.warn(check, "... and %d more", len(readings)-detailLimit)
			break
		}
		report.warn(check, "%s: %s = %.0f bpm", r.Timestamp.Format(time.RFC3339), r.Metric, r.Value)
	}
}

func (a *Auditor) checkDuplicateKeys(report *Report) {
	const check = "duplicate_keys"
	dups, err := a.db.DuplicateReadingKeys()
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(dups) == 0 {
		report.info(check, "no duplicate reading keys")
		return
	}
	// The uniqueness constraint should make this unreachable.
	report.warn(check, "found %d duplicated (timestamp, metric, source) tuples", len(dups))
	for i, d := range dups {
		if i == detailLimit {
			report.warn(check, "... and %d more", len(dups)-detailLimit)
			break
		}
		report.warn(check, "%s / %s / %s stored %d times", d.Timestamp, d.Metric, d.Source, d.Count)
	}
}

func (a *Auditor) checkOutliers(report *Report) {
	const check = "metric_outliers"
	outliers, err := a.db.MetricOutliers(a.thresholds.AnomalySigma, a.thresholds.MinDataPoints)
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(outliers) == 0 {
		report.info(check, "no statistical outliers found")
		return
	}
	report.warn(check, "found %d readings beyond %.1f sigma of their metric's mean",
		len(outliers), a.thresholds.AnomalySigma)
	for i, o := range outliers {
		if i == detailLimit {
			report.warn(check, "... and %d more", len(outliers)-detailLimit)
			break
		}
		report.warn(check, "%s: %s = %.1f (mean %.1f, stddev %.1f)",
			o.Timestamp.Format(time.RFC3339), o.Metric, o.Value, o.Mean, o.StdDev)
	}
}

func (a *Auditor) checkRestingHRDeviation(report *Report) {
	const check = "resting_hr_deviation"
	devs, err := a.db.RestingHRDeviations(a.thresholds.RestingHRDeviation, a.thresholds.LookbackDays)
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(devs) == 0 {
		report.info(check, "resting heart rate stable over the last %d days", a.thresholds.LookbackDays)
		return
	}
	for _, d := range devs {
		report.warn(check, "%s: resting HR %.0f bpm deviates from 7-day average %.0f bpm",
			d.Day, d.Value, d.RollingAvg)
	}
}

func (a *Auditor) checkDateCoverage(report *Report) {
	const check = "date_coverage"
	days, err := a.db.MissingDays()
	if err != nil {
		report.warn(check, "check failed: %v", err)
		return
	}
	if len(days) == 0 {
		report.info(check, "no gaps in date coverage")
		return
	}
	report.info(check, "%d days with no readings (first gap: %s)", len(days), days[0])
}
