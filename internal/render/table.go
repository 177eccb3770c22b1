package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Renderer writes styled output to w.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// New returns a renderer writing to w with the default styles.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w, styles: DefaultStyles()}
}

// Table draws the rows of t under title. The first column is the row index
// used to address rows in edits.
func (r *Renderer) Table(title string, t types.Table) error {
	schema := t.Schema()
	headers := make([]string, 0, len(schema.Columns)+1)
	headers = append(headers, "#")
	for _, c := range schema.Columns {
		headers = append(headers, c.Label)
	}

	rows := t.Rows()
	cells := make([][]string, len(rows))
	for i, rec := range rows {
		line := make([]string, 0, len(headers))
		line = append(line, strconv.Itoa(i))
		for _, c := range schema.Columns {
			line = append(line, FormatValue(rec.Value(c.Key)))
		}
		cells[i] = line
	}
	return r.Grid(title, headers, cells)
}

// Grid draws a plain grid of strings.
func (r *Renderer) Grid(title string, headers []string, rows [][]string) error {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(r.styles.Title.Render(title))
		sb.WriteString("\n")
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	total := len(widths) - 1
	for i := range widths {
		widths[i] += 2
		total += widths[i]
	}

	sep := r.styles.Muted.Render("|")
	for i, h := range headers {
		sb.WriteString(r.styles.Header.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			sb.WriteString(sep)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(r.styles.Muted.Render(strings.Repeat("-", max(total, 0))))
	sb.WriteString("\n")

	for _, row := range rows {
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(r.styles.Cell.Width(widths[i]).Render(cell))
			if i < len(headers)-1 {
				sb.WriteString(sep)
			}
		}
		sb.WriteString("\n")
	}
	if len(rows) == 0 {
		sb.WriteString(r.styles.Muted.Render("(no rows)"))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(r.w, sb.String())
	return err
}

// Record draws one record as label/value lines.
func (r *Renderer) Record(schema types.Schema, rec types.Record) error {
	var sb strings.Builder
	sb.WriteString(r.styles.Title.Render(rec.ID))
	sb.WriteString("\n")
	for _, c := range schema.Columns {
		fmt.Fprintf(&sb, "%s %s\n", r.styles.Muted.Render(c.Label+":"), FormatValue(rec.Value(c.Key)))
	}
	_, err := io.WriteString(r.w, sb.String())
	return err
}

// FormatValue renders a value for display: booleans as yes/no, the rest as
// their string form.
func FormatValue(v types.Value) string {
	if v.Kind() == types.KindBoolean {
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	return v.String()
}
