package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/sectorboard/pkg/types"

	_ "modernc.org/sqlite"
)

// writeSQLite writes one SQL table per sheet into a fresh database. The
// database is built next to path and renamed into place once committed.
func writeSQLite(ctx context.Context, path string, sheets []Sheet) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.db")
	if err != nil {
		return fmt.Errorf("creating temp database: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()

	if err := fillSQLite(ctx, tmpName, sheets); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp database: %w", err)
	}
	return nil
}

func fillSQLite(ctx context.Context, dbPath string, sheets []Sheet) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning export transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range sheets {
		if _, err := tx.ExecContext(ctx, createTableDDL(s)); err != nil {
			return fmt.Errorf("creating table %s: %w", s.Name, err)
		}
		if err := insertRows(ctx, tx, s); err != nil {
			return fmt.Errorf("loading %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export transaction: %w", err)
	}
	return nil
}

// createTableDDL returns the CREATE TABLE statement for a sheet. Numbers
// map to REAL, booleans to INTEGER and everything else to TEXT.
func createTableDDL(s Sheet) string {
	cols := make([]string, 0, len(s.Columns)+1)
	cols = append(cols, "id TEXT PRIMARY KEY")
	for _, c := range s.Columns {
		cols = append(cols, quoteIdent(c.Key)+" "+sqlType(c.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n);", quoteIdent(s.Name), strings.Join(cols, ",\n    "))
}

func insertRows(ctx context.Context, tx *sql.Tx, s Sheet) error {
	names := make([]string, 0, len(s.Columns)+1)
	names = append(names, "id")
	for _, c := range s.Columns {
		names = append(names, quoteIdent(c.Key))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quoteIdent(s.Name), strings.Join(names, ", "), placeholders)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range s.Rows {
		args := s.cells(r)
		for i, a := range args {
			if b, ok := a.(bool); ok {
				args[i] = boolInt(b)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting %s: %w", r.ID, err)
		}
	}
	return nil
}

func sqlType(k types.ValueKind) string {
	switch k {
	case types.KindNumber:
		return "REAL"
	case types.KindBoolean:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
