// ABOUTME: Import orchestrator: discovers export files, consults the ledger,
// ABOUTME: and commits each file's rows plus its ledger entry as one unit.
package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simon-de-jose/health-clawkit/internal/models"
	"github.com/simon-de-jose/health-clawkit/internal/storage"
)

// Warning is a recoverable problem surfaced in the run summary. Line is
// zero for file-level warnings.
type Warning struct {
	File    string
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.File, w.Message)
}

// Options controls a single orchestrator run.
type Options struct {
	// DryRun classifies and counts without writing anything.
	DryRun bool
}

// Summary reports what a run did. It is the single source of truth for
// the run; callers persist or print it.
type Summary struct {
	FilesScanned  int
	FilesImported int
	FilesSkipped  int
	FilesFailed   int
	RowsAdded     int
	Warnings      []Warning
}

// route maps an export filename prefix to its data source tag.
type route struct {
	prefix string
	source string
}

// routes are the known export types. Files matching no route are
// invisible to the orchestrator, not warned about.
var routes = []route{
	{"HealthMetrics-", "healthkit"},
	{"Export-", "healthkit"},
	{"Workouts-", "workouts"},
	{"Medications-", "medications"},
	{"CycleTracking-", "cycletracking"},
}

// routeFor returns the source tag for a candidate filename.
func routeFor(filename string) (string, bool) {
	if !strings.HasSuffix(filename, ".csv") {
		return "", false
	}
	for _, rt := range routes {
		if strings.HasPrefix(filename, rt.prefix) {
			return rt.source, true
		}
	}
	return "", false
}

// Importer is the only writer of the store. Each file's rows and ledger
// entry commit in one transaction, so a run interrupted between files
// always leaves a consistent store.
type Importer struct {
	db *storage.DB
}

// New creates an orchestrator over the given store.
func New(db *storage.DB) *Importer {
	return &Importer{db: db}
}

// Run scans folder for export files and imports any the ledger has not
// seen, in sorted filename order. Per-file problems fail that file and
// surface as warnings; the run aborts only on an unreadable folder, a
// broken store, or a duplicate-import contract violation.
func (imp *Importer) Run(folder string, opts Options) (*Summary, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read export folder: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := routeFor(entry.Name()); ok {
			candidates = append(candidates, entry.Name())
		}
	}
	sort.Strings(candidates)

	summary := &Summary{FilesScanned: len(candidates)}
	for _, name := range candidates {
		source, _ := routeFor(name)
		path := filepath.Join(folder, name)

		rec, err := imp.db.GetImport(name)
		if err != nil {
			return summary, err
		}
		if rec != nil {
			summary.FilesSkipped++
			if rec.FileHash != "" {
				if hash, err := hashFile(path); err == nil && hash != rec.FileHash {
					summary.warn(name, 0, "contents changed since import; rename the file to re-import")
				}
			}
			continue
		}

		if opts.DryRun {
			imp.dryRunFile(path, name, source, summary)
			continue
		}
		if err := imp.importFile(path, name, source, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// importFile runs one file's atomic unit of work: normalize, write rows,
// record the ledger entry, commit. Any failure before commit rolls the
// whole file back and counts it as failed; a duplicate ledger record is
// the one error that propagates.
func (imp *Importer) importFile(path, name, source string, summary *Summary) error {
	hash, err := hashFile(path)
	if err != nil {
		summary.fail(name, err)
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		summary.fail(name, err)
		return nil
	}
	defer f.Close()

	tx, err := imp.db.BeginImport()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	warnings, err := imp.normalizeInto(tx, f, name, source)
	if err != nil {
		summary.fail(name, err)
		return nil
	}

	rec := models.NewImportRecord(name, source, tx.RowsAdded()).WithFileHash(hash)
	if err := tx.Record(rec); err != nil {
		if errors.Is(err, storage.ErrDuplicateImport) {
			return err
		}
		summary.fail(name, err)
		return nil
	}
	if err := tx.Commit(); err != nil {
		summary.fail(name, err)
		return nil
	}

	summary.FilesImported++
	summary.RowsAdded += rec.RowsAdded
	summary.Warnings = append(summary.Warnings, warnings...)
	return nil
}

// normalizeInto streams the file through its source's normalizer into
// the transaction.
func (imp *Importer) normalizeInto(tx *storage.ImportTx, f io.Reader, name, source string) ([]Warning, error) {
	switch source {
	case "workouts":
		workouts, warnings, err := NormalizeWorkouts(f, name)
		if err != nil {
			return nil, err
		}
		for _, w := range workouts {
			if err := tx.AddWorkout(w); err != nil {
				return nil, err
			}
		}
		return warnings, nil
	case "medications":
		meds, warnings, err := NormalizeMedications(f, name)
		if err != nil {
			return nil, err
		}
		for _, m := range meds {
			if err := tx.AddMedication(m); err != nil {
				return nil, err
			}
		}
		return warnings, nil
	case "cycletracking":
		readings, warnings, err := NormalizeCycleTracking(f, name)
		if err != nil {
			return nil, err
		}
		for _, r := range readings {
			if err := tx.AddReading(r); err != nil {
				return nil, err
			}
		}
		return warnings, nil
	default:
		n, err := NewNormalizer(f, name, source)
		if err != nil {
			return nil, err
		}
		for n.Next() {
			if err := tx.AddReading(n.Reading()); err != nil {
				return nil, err
			}
		}
		if err := n.Err(); err != nil {
			return nil, err
		}
		return n.Warnings(), nil
	}
}

// dryRunFile classifies one file exactly as a real run would, counting
// distinct would-be rows through the same normalizers, without opening a
// transaction.
func (imp *Importer) dryRunFile(path, name, source string, summary *Summary) {
	f, err := os.Open(path)
	if err != nil {
		summary.fail(name, err)
		return
	}
	defer f.Close()

	keys := make(map[string]struct{})
	var warnings []Warning

	switch source {
	case "workouts":
		workouts, warns, werr := NormalizeWorkouts(f, name)
		if werr != nil {
			summary.fail(name, werr)
			return
		}
		for _, w := range workouts {
			keys[w.Key()] = struct{}{}
		}
		warnings = warns
	case "medications":
		meds, warns, merr := NormalizeMedications(f, name)
		if merr != nil {
			summary.fail(name, merr)
			return
		}
		for _, m := range meds {
			keys[m.Key()] = struct{}{}
		}
		warnings = warns
	case "cycletracking":
		readings, warns, cerr := NormalizeCycleTracking(f, name)
		if cerr != nil {
			summary.fail(name, cerr)
			return
		}
		for _, r := range readings {
			keys[r.Key()] = struct{}{}
		}
		warnings = warns
	default:
		n, nerr := NewNormalizer(f, name, source)
		if nerr != nil {
			summary.fail(name, nerr)
			return
		}
		for n.Next() {
			keys[n.Reading().Key()] = struct{}{}
		}
		if err := n.Err(); err != nil {
			summary.fail(name, err)
			return
		}
		warnings = n.Warnings()
	}

	summary.FilesImported++
	summary.RowsAdded += len(keys)
	summary.Warnings = append(summary.Warnings, warnings...)
}

func (s *Summary) warn(file string, line int, message string) {
	s.Warnings = append(s.Warnings, Warning{File: file, Line: line, Message: message})
}

func (s *Summary) fail(file string, err error) {
	s.FilesFailed++
	s.warn(file, 0, err.Error())
}

// hashFile returns the hex SHA-256 of the file's contents, used for
// change detection on already-imported filenames.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", filepath.Base(path), err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
