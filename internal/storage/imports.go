// ABOUTME: Import ledger reads: has a file been applied, and when.
// ABOUTME: A filename with a record is proof its rows are durably stored.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/simon-de-jose/health-clawkit/internal/models"
)

// ErrDuplicateImport indicates the ledger was asked to record a filename
// that already has a record. This is a contract violation, never ignored.
var ErrDuplicateImport = errors.New("import already recorded")

// IsImported reports whether the file has a ledger record.
func (d *DB) IsImported(filename string) (bool, error) {
	var exists bool
	err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM imports WHERE filename = ?)`, filename).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ledger: %w", err)
	}
	return exists, nil
}

// GetImport returns the ledger record for a filename, or nil if the file
// has never been imported.
func (d *DB) GetImport(filename string) (*models.ImportRecord, error) {
	row := d.db.QueryRow(`
		SELECT id, filename, imported_at, rows_added, source, file_hash
		FROM imports
		WHERE filename = ?`, filename)

	rec, err := scanImport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListImports returns ledger records, most recent first. limit <= 0
// returns all.
func (d *DB) ListImports(limit int) ([]*models.ImportRecord, error) {
	query := `
		SELECT id, filename, imported_at, rows_added, source, file_hash
		FROM imports
		ORDER BY imported_at DESC, filename DESC
	`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var records []*models.ImportRecord
	for rows.Next() {
		rec, err := scanImportRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountImports returns the number of ledger records.
func (d *DB) CountImports() (int, error) {
	var n int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM imports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count imports: %w", err)
	}
	return n, nil
}

func scanImport(row *sql.Row) (*models.ImportRecord, error) {
	var rec models.ImportRecord
	var idStr, importedAt string

	err := row.Scan(&idStr, &rec.Filename, &importedAt, &rec.RowsAdded, &rec.Source, &rec.FileHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan import: %w", err)
	}

	rec.ID, _ = uuid.Parse(idStr)
	rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &rec, nil
}

func scanImportRow(rows *sql.Rows) (*models.ImportRecord, error) {
	var rec models.ImportRecord
	var idStr, importedAt string

	err := rows.Scan(&idStr, &rec.Filename, &importedAt, &rec.RowsAdded, &rec.Source, &rec.FileHash)
	if err != nil {
		return nil, fmt.Errorf("scan import: %w", err)
	}

	rec.ID, _ = uuid.Parse(idStr)
	rec.ImportedAt, _ = time.Parse(time.RFC3339, importedAt)
	return &rec, nil
}
