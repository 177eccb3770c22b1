package export

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func testSheets(t *testing.T) []Sheet {
	t.Helper()
	schema := types.Schema{
		Kind: types.RecordCropEvaluation,
		Columns: []types.Column{
			{Key: "crop", Label: "Crop", Kind: types.KindSelect},
			{Key: "yield", Label: "Yield (%)", Kind: types.KindNumber},
			{Key: "organic", Label: "Organic", Kind: types.KindBoolean},
			{Key: "evaluated", Label: "Evaluated", Kind: types.KindDate},
		},
	}
	a, err := schema.NewRecordFromRaw("1", map[string]any{"crop": "Banana", "yield": 92, "organic": true, "evaluated": "2024-01-10"})
	require.NoError(t, err)
	b, err := schema.NewRecordFromRaw("2", map[string]any{"crop": "Pineapple", "yield": 65})
	require.NoError(t, err)
	return []Sheet{
		{Name: "crops", Columns: schema.Columns, Rows: []types.Record{a, b}},
		{Name: "empty", Columns: schema.Columns},
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "crops.xlsx")
	require.NoError(t, Write(context.Background(), path, types.ExportXLSX, testSheets(t)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"crops", "empty"}, f.GetSheetList())

	rows, err := f.GetRows("crops")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Crop", "Yield (%)", "Organic", "Evaluated"}, rows[0])
	assert.Equal(t, []string{"1", "Banana", "92", "TRUE", "2024-01-10"}, rows[1])
	assert.Equal(t, "Pineapple", rows[2][1])

	empty, err := f.GetRows("empty")
	require.NoError(t, err)
	assert.Len(t, empty, 1, "header only")
}

func TestWriteJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.jsonl")
	require.NoError(t, Write(context.Background(), path, types.ExportJSONL, testSheets(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)
	assert.Equal(t, "crops", lines[0]["sheet"])
	assert.Equal(t, "1", lines[0]["id"])
	assert.Equal(t, 92.0, lines[0]["yield"])
	assert.Equal(t, true, lines[0]["organic"])
	assert.Equal(t, "", lines[1]["evaluated"])
}

func TestWriteSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.db")
	require.NoError(t, Write(context.Background(), path, types.ExportSQLite, testSheets(t)))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var crop string
	var yield float64
	var organic int
	err = db.QueryRow(`SELECT crop, yield, organic FROM crops WHERE id = ?`, "1").Scan(&crop, &yield, &organic)
	require.NoError(t, err)
	assert.Equal(t, "Banana", crop)
	assert.Equal(t, 92.0, yield)
	assert.Equal(t, 1, organic)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM crops`).Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM empty`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestWriteReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.db")
	sheets := testSheets(t)
	require.NoError(t, Write(context.Background(), path, types.ExportSQLite, sheets))
	require.NoError(t, Write(context.Background(), path, types.ExportSQLite, sheets[:1]))
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, Write(context.Background(), filepath.Join(dir, "x.csv"), "csv", testSheets(t)), types.ErrExportFormatUnknown)
	assert.ErrorIs(t, Write(context.Background(), filepath.Join(dir, "x.xlsx"), types.ExportXLSX, nil), ErrNoSheets)
}

func TestWriteWaitsForLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crops.xlsx")
	held := flock.New(path + ".lock")
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err = Write(ctx, path, types.ExportXLSX, testSheets(t))
	assert.ErrorIs(t, err, ErrLocked)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "crops", sheetName("crops", used))
	assert.Equal(t, "Crops-2", sheetName("Crops", used))
	assert.Equal(t, "a_b", sheetName("a/b", used))
	long := sheetName("monitoring_and_evaluation_indicators", used)
	assert.Len(t, long, maxSheetName)
	assert.Equal(t, "Sheet", sheetName("", used))
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "crops-20240601-093000.xlsx", FileName("crops", types.ExportXLSX, at))
	assert.Equal(t, "projects-20240601-093000.db", FileName("projects", types.ExportSQLite, at))
	assert.Equal(t, "forms-20240601-093000.jsonl", FileName("forms", types.ExportJSONL, at))
}

type fakeTable struct{ types.Table }

func (fakeTable) Schema() types.Schema {
	return types.Schema{Columns: []types.Column{{Key: "name", Label: "Name", Kind: types.KindText}}}
}

func (fakeTable) Rows() []types.Record {
	return []types.Record{{ID: "1", Fields: map[string]types.Value{"name": types.Text("x")}}}
}

func TestFromTable(t *testing.T) {
	s := FromTable("things", fakeTable{})
	assert.Equal(t, "things", s.Name)
	assert.Len(t, s.Columns, 1)
	assert.Equal(t, []any{"1", "x"}, s.cells(s.Rows[0]))
}
