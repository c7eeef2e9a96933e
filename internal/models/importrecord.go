// ABOUTME: ImportRecord ledger model tracking fully-applied source files.
// ABOUTME: One record per filename; presence proves the file's rows are stored.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportRecord is the ledger entry for one imported source file.
type ImportRecord struct {
	ID         uuid.UUID
	Filename   string
	ImportedAt time.Time
	RowsAdded  int
	Source     string
	FileHash   string // SHA-256 of file contents; empty on legacy rows
}

// NewImportRecord creates a ledger entry with generated UUID and current timestamp.
func NewImportRecord(filename, source string, rowsAdded int) *ImportRecord {
	return &ImportRecord{
		ID:         uuid.New(),
		Filename:   filename,
		ImportedAt: time.Now(),
		RowsAdded:  rowsAdded,
		Source:     source,
	}
}

// WithFileHash sets the content hash used for change detection.
func (r *ImportRecord) WithFileHash(hash string) *ImportRecord {
	r.FileHash = hash
	return r
}
