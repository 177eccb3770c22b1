// Package export writes snapshots of dashboard tables to files: Excel
// workbooks, JSONL and SQLite databases. Writers hold an advisory lock on
// the destination so two sessions exporting to the same path do not
// interleave.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// lockRetry is how often a blocked export retries the destination lock.
const lockRetry = 50 * time.Millisecond

// Export errors.
var (
	ErrNoSheets = errors.New("nothing to export")
	ErrLocked   = errors.New("export destination is locked")
)

// Sheet is one table to export: its columns and a snapshot of its rows.
type Sheet struct {
	Name    string
	Columns []types.Column
	Rows    []types.Record
}

// FromTable snapshots t under the given sheet name.
func FromTable(name string, t types.Table) Sheet {
	return Sheet{Name: name, Columns: t.Schema().Columns, Rows: t.Rows()}
}

// header returns the column labels, prefixed with the ID column.
func (s Sheet) header() []string {
	out := make([]string, 0, len(s.Columns)+1)
	out = append(out, "ID")
	for _, c := range s.Columns {
		out = append(out, c.Label)
	}
	return out
}

// cells returns one row's scalars in column order, prefixed with its ID.
func (s Sheet) cells(r types.Record) []any {
	out := make([]any, 0, len(s.Columns)+1)
	out = append(out, r.ID)
	for _, c := range s.Columns {
		out = append(out, r.Value(c.Key).Interface())
	}
	return out
}

// Write exports sheets to path in the given format. The parent directory is
// created if needed. Write waits for the destination lock until ctx is
// done.
// Returns ErrExportFormatUnknown, ErrNoSheets, or ErrLocked when ctx ends
// before the lock is free.
func Write(ctx context.Context, path, format string, sheets []Sheet) error {
	if !types.IsValidExportFormat(format) {
		return fmt.Errorf("%q: %w", format, types.ErrExportFormatUnknown)
	}
	if len(sheets) == 0 {
		return ErrNoSheets
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("locking %s: %w", path, errors.Join(ErrLocked, err))
	}
	if !locked {
		return fmt.Errorf("locking %s: %w", path, ErrLocked)
	}
	defer lock.Unlock()

	switch format {
	case types.ExportXLSX:
		return writeXLSX(path, sheets)
	case types.ExportJSONL:
		return writeJSONL(path, sheets)
	default:
		return writeSQLite(ctx, path, sheets)
	}
}

// Extension returns the file extension used for a format.
func Extension(format string) string {
	switch format {
	case types.ExportSQLite:
		return "db"
	default:
		return format
	}
}

// FileName returns the default export file name for a module at a point in
// time, e.g. "crops-20240601-093000.xlsx".
func FileName(module, format string, at time.Time) string {
	return fmt.Sprintf("%s-%s.%s", module, at.Format("20060102-150405"), Extension(format))
}

// writeAtomic writes a file using the temp-file, fsync, rename pattern.
func writeAtomic(path string, write func(f *os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
