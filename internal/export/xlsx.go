package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on worksheet name length.
const maxSheetName = 31

// writeXLSX writes one worksheet per sheet with a header row of column
// labels.
func writeXLSX(path string, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(sheets))
	for i, s := range sheets {
		name := sheetName(s.Name, used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("naming sheet %s: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}

		header := make([]any, 0, len(s.Columns)+1)
		for _, h := range s.header() {
			header = append(header, h)
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("writing header of %s: %w", name, err)
		}
		for j, r := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			row := s.cells(r)
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("writing row %d of %s: %w", j+1, name, err)
			}
		}
	}

	return writeAtomic(path, func(out *os.File) error {
		if _, err := f.WriteTo(out); err != nil {
			return fmt.Errorf("writing workbook: %w", err)
		}
		return nil
	})
}

// sheetName makes name a valid, unique worksheet name.
func sheetName(name string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, name)
	if clean == "" {
		clean = "Sheet"
	}
	if len(clean) > maxSheetName {
		clean = clean[:maxSheetName]
	}
	base := clean
	for n := 2; used[strings.ToLower(clean)]; n++ {
		suffix := fmt.Sprintf("-%d", n)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		clean = base + suffix
	}
	used[strings.ToLower(clean)] = true
	return clean
}
