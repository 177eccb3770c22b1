package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// writeJSONL writes every row of every sheet as one JSON object per line.
// Each object carries its sheet name under "sheet" and its ID under "id".
func writeJSONL(path string, sheets []Sheet) error {
	return writeAtomic(path, func(f *os.File) error {
		w := bufio.NewWriter(f)
		for _, s := range sheets {
			for _, r := range s.Rows {
				rec := make(map[string]any, len(s.Columns)+2)
				for _, c := range s.Columns {
					rec[c.Key] = r.Value(c.Key).Interface()
				}
				rec["id"] = r.ID
				rec["sheet"] = s.Name
				line, err := json.Marshal(rec)
				if err != nil {
					return fmt.Errorf("marshaling %s row %s: %w", s.Name, r.ID, err)
				}
				if _, err := w.Write(line); err != nil {
					return fmt.Errorf("writing record: %w", err)
				}
				if err := w.WriteByte('\n'); err != nil {
					return fmt.Errorf("writing newline: %w", err)
				}
			}
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flushing buffer: %w", err)
		}
		return nil
	})
}
