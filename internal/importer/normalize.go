// ABOUTME: Streaming normalizer for wide-format health-metric CSV exports.
// ABOUTME: Melts one row per time bucket into long-format readings, fail-soft.
package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// headerPattern splits "Active Energy (kcal)" into name and unit. Headers
// with no trailing unit keep the whole cell as the metric name.
var headerPattern = regexp.MustCompile(`^(.+?)\s*\(([^)]+)\)$`)

// timestampLayouts are the formats exports produce, most specific first.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseTimestamp tries each known export layout in turn. Zone-less inputs
// parse as UTC so tuple identity is stable across runs.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// parseMetricHeader extracts the canonical metric name and unit from a
// column header. "Step Count (count)" yields ("Step Count", "count");
// a header with no unit decoration yields an empty unit.
func parseMetricHeader(header string) (name, unit string) {
	header = strings.TrimSpace(header)
	if m := headerPattern.FindStringSubmatch(header); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return header, ""
}

// stripBOM removes a UTF-8 byte order mark, commonly prepended by the
// export apps' Windows builds.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}
	return br
}

// metricColumn is one non-timestamp column of the wide header.
type metricColumn struct {
	index  int
	metric string
	unit   string
}

// Normalizer converts one wide-format export into a stream of readings.
// Each input row is one time bucket; each non-empty cell becomes one
// reading. A bad cell skips that cell, a bad timestamp skips that row,
// and both leave a warning; only I/O or CSV syntax failures stop the
// stream. At most one row's readings are buffered at a time.
//
// Usage follows the sql.Rows idiom:
//
//	n, err := NewNormalizer(f, filename, "healthkit")
//	for n.Next() {
//		r := n.Reading()
//	}
//	err = n.Err()
type Normalizer struct {
	reader   *csv.Reader
	filename string
	source   string
	tsCol    int
	columns  []metricColumn
	line     int
	pending  []*models.Reading
	current  *models.Reading
	warnings []Warning
	err      error
}

// NewNormalizer reads the header row and prepares the stream. A file
// with no Date/Time or Date column is rejected here; the caller treats
// that as a per-file failure, not a run failure.
func NewNormalizer(r io.Reader, filename, source string) (*Normalizer, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", filename, err)
	}

	n := &Normalizer{
		reader:   cr,
		filename: filename,
		source:   source,
		tsCol:    -1,
		line:     1,
	}

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if n.tsCol < 0 && (name == "Date/Time" || name == "Date") {
			n.tsCol = i
			continue
		}
		if name == "" {
			n.warn(1, "empty column header ignored")
			continue
		}
		metric, unit := parseMetricHeader(name)
		n.columns = append(n.columns, metricColumn{index: i, metric: metric, unit: unit})
	}

	if n.tsCol < 0 {
		return nil, fmt.Errorf("%s: no Date/Time column in header", filename)
	}
	return n, nil
}

// Next advances to the next reading. It returns false at end of input or
// on a stream error; check Err afterward.
func (n *Normalizer) Next() bool {
	for {
		if len(n.pending) > 0 {
			n.current = n.pending[0]
			n.pending = n.pending[1:]
			return true
		}
		if n.err != nil {
			return false
		}
		if !n.readRow() {
			return false
		}
	}
}

// Reading returns the reading produced by the last successful Next.
func (n *Normalizer) Reading() *models.Reading {
	return n.current
}

// Warnings returns the recoverable problems seen so far. Complete once
// Next has returned false.
func (n *Normalizer) Warnings() []Warning {
	return n.warnings
}

// Err returns the stream error that stopped Next, if any. Cell and row
// problems are warnings, never errors.
func (n *Normalizer) Err() error {
	return n.err
}

// readRow decodes one input row into pending readings. Returns false at
// end of input or on stream error.
func (n *Normalizer) readRow() bool {
	record, err := n.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		n.err = fmt.Errorf("read %s: %w", n.filename, err)
		return false
	}
	n.line++

	if n.tsCol >= len(record) {
		n.warn(n.line, "row has no timestamp cell, skipped")
		return true
	}
	ts, err := parseTimestamp(record[n.tsCol])
	if err != nil {
		n.warn(n.line, fmt.Sprintf("bad timestamp %q, row skipped", strings.TrimSpace(record[n.tsCol])))
		return true
	}

	for _, col := range n.columns {
		if col.index >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[col.index])
		if cell == "" {
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			n.warn(n.line, fmt.Sprintf("%s: non-numeric value %q, cell skipped", col.metric, cell))
			continue
		}
		n.pending = append(n.pending, models.NewReading(ts, col.metric, value, col.unit, n.source))
	}
	return true
}

func (n *Normalizer) warn(line int, message string) {
	n.warnings = append(n.warnings, Warning{File: n.filename, Line: line, Message: message})
}
