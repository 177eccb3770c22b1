package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// printJSON writes v as indented JSON.
func (a *App) printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr(fmt.Errorf("marshal JSON: %w", err))
	}
	fmt.Fprintln(a.out, string(out))
	return nil
}

// assignment is one parsed key=value argument.
type assignment struct {
	key   string
	value types.Value
}

// parseAssignments turns key=value arguments into typed values for schema,
// in argument order.
func parseAssignments(schema types.Schema, args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		key, text, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%q: want key=value", arg)
		}
		v, err := schema.Parse(key, text)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{key: key, value: v})
	}
	return out, nil
}

// checkAssignments verifies that every assignment targets an editable column
// and holds a valid value, so a multi-field edit is applied in full or not
// at all.
func checkAssignments(schema types.Schema, as []assignment) error {
	for _, a := range as {
		col, ok := schema.Column(a.key)
		if !ok {
			return fmt.Errorf("%s: %w", a.key, types.ErrFieldNotFound)
		}
		if !col.Editable {
			return fmt.Errorf("%s: %w", a.key, types.ErrNotEditable)
		}
		if err := schema.Check(a.key, a.value); err != nil {
			return err
		}
	}
	return nil
}

// assignmentMap collapses assignments into a field map; later keys win.
func assignmentMap(as []assignment) map[string]types.Value {
	m := make(map[string]types.Value, len(as))
	for _, a := range as {
		m[a.key] = a.value
	}
	return m
}

// rawAssignments parses key=value arguments without a schema, for form
// answers keyed by field label.
func rawAssignments(args []string) (map[string]any, error) {
	m := make(map[string]any, len(args))
	for _, arg := range args {
		key, text, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%q: want label=value", arg)
		}
		m[key] = text
	}
	return m, nil
}

// parseRow parses a zero-based row index.
func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("row %q: %w", s, types.ErrInvalidIndex)
	}
	return n, nil
}

// rowOf returns the row index of the record with id in t, or -1.
func rowOf(t types.Table, id string) int {
	for i, r := range t.Rows() {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func percent(n int) string { return strconv.Itoa(n) + "%" }

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
