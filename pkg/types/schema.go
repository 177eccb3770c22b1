package types

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Column describes one field of a record kind: how it is labelled, what kind
// of value it holds and whether the editor may change it. Integer restricts a
// number column to whole values.
type Column struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label" yaml:"label"`
	Kind     ValueKind `json:"kind" yaml:"kind"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Editable bool      `json:"editable" yaml:"editable"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Unit     string    `json:"unit,omitempty" yaml:"unit,omitempty"`
	Integer  bool      `json:"integer,omitempty" yaml:"integer,omitempty"`
	Default  Value     `json:"-" yaml:"-"`
}

// DefaultValue returns the column's declared default, or the zero value of
// its kind when none is declared.
func (c Column) DefaultValue() Value {
	if !c.Default.IsZero() {
		return c.Default
	}
	v, err := ZeroValue(c.Kind)
	if err != nil {
		return Value{}
	}
	return v
}

// Schema is the ordered, static list of columns of one record kind.
type Schema struct {
	Kind    RecordKind
	Columns []Column
}

// Column returns the column with the given key.
func (s Schema) Column(key string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Keys returns the column keys in order.
func (s Schema) Keys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Check validates v against the column named key.
// Returns ErrFieldNotFound, ErrTypeMismatch (also for a fraction in an
// integer column), ErrInvalidOption or ErrInvalidDate.
func (s Schema) Check(key string, v Value) error {
	col, ok := s.Column(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, ErrFieldNotFound)
	}
	return checkColumn(col, v)
}

func checkColumn(col Column, v Value) error {
	if v.Kind() != col.Kind {
		return fmt.Errorf("%s: got %s, want %s: %w", col.Key, v.Kind(), col.Kind, ErrTypeMismatch)
	}
	switch col.Kind {
	case KindNumber:
		if f := v.Float(); col.Integer && f != math.Trunc(f) {
			return fmt.Errorf("%s: %v is not a whole number: %w", col.Key, f, ErrTypeMismatch)
		}
	case KindSelect:
		if len(col.Options) > 0 && v.String() != "" && !slices.Contains(col.Options, v.String()) {
			return fmt.Errorf("%s: %q: %w", col.Key, v.String(), ErrInvalidOption)
		}
	case KindDate:
		if v.String() != "" {
			if _, err := time.Parse(DateLayout, v.String()); err != nil {
				return fmt.Errorf("%s: %q: %w", col.Key, v.String(), ErrInvalidDate)
			}
		}
	}
	return nil
}

// Coerce converts a raw decoded scalar (from YAML, JSON or a form answer)
// into a Value of the column's kind and validates it.
func (s Schema) Coerce(key string, raw any) (Value, error) {
	col, ok := s.Column(key)
	if !ok {
		return Value{}, fmt.Errorf("%s: %w", key, ErrFieldNotFound)
	}
	return CoerceValue(col, raw)
}

// CoerceValue converts raw into a Value for col. Accepted inputs are the
// natural Go scalar of the kind, a Value of the same kind, and strings that
// parse as the kind. A nil raw yields the column default.
func CoerceValue(col Column, raw any) (Value, error) {
	if raw == nil {
		return col.DefaultValue(), nil
	}
	if v, ok := raw.(Value); ok {
		return v, checkColumn(col, v)
	}
	if s, ok := raw.(string); ok {
		return ParseValue(col, s)
	}

	var v Value
	switch col.Kind {
	case KindNumber:
		f, ok := toFloat(raw)
		if !ok {
			return Value{}, fmt.Errorf("%s: %T: %w", col.Key, raw, ErrTypeMismatch)
		}
		v = Number(f)
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("%s: %T: %w", col.Key, raw, ErrTypeMismatch)
		}
		v = Bool(b)
	case KindDate:
		t, ok := raw.(time.Time)
		if !ok {
			return Value{}, fmt.Errorf("%s: %T: %w", col.Key, raw, ErrTypeMismatch)
		}
		v = DateOf(t)
	default:
		return Value{}, fmt.Errorf("%s: %T: %w", col.Key, raw, ErrTypeMismatch)
	}
	return v, checkColumn(col, v)
}

// Parse converts a user-typed string into a Value for the column named key.
func (s Schema) Parse(key, text string) (Value, error) {
	col, ok := s.Column(key)
	if !ok {
		return Value{}, fmt.Errorf("%s: %w", key, ErrFieldNotFound)
	}
	return ParseValue(col, text)
}

// ParseValue converts text into a Value of col's kind and validates it.
func ParseValue(col Column, text string) (Value, error) {
	var v Value
	switch col.Kind {
	case KindText:
		v = Text(text)
	case KindTextArea:
		v = TextArea(text)
	case KindSelect:
		v = Select(text)
	case KindDate:
		v = Date(strings.TrimSpace(text))
	case KindNumber:
		t := strings.TrimSpace(text)
		if t == "" {
			v = Number(0)
			break
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %q: %w", col.Key, text, ErrTypeMismatch)
		}
		v = Number(f)
	case KindBoolean:
		t := strings.TrimSpace(text)
		if t == "" {
			v = Bool(false)
			break
		}
		b, err := strconv.ParseBool(t)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %q: %w", col.Key, text, ErrTypeMismatch)
		}
		v = Bool(b)
	default:
		return Value{}, fmt.Errorf("%s: %w", col.Key, ErrInvalidKind)
	}
	return v, checkColumn(col, v)
}

// NewRecord builds a record of the schema's kind. Every schema key is
// present on the result: values from fields are validated, missing ones are
// filled with the column default. Keys absent from the schema are kept as
// given.
func (s Schema) NewRecord(id string, fields map[string]Value) (Record, error) {
	if id == "" {
		return Record{}, ErrInvalidID
	}
	out := make(map[string]Value, len(s.Columns)+len(fields))
	for k, v := range fields {
		out[k] = v
	}
	for _, col := range s.Columns {
		v, ok := out[col.Key]
		if !ok || v.IsZero() {
			out[col.Key] = col.DefaultValue()
			continue
		}
		if err := checkColumn(col, v); err != nil {
			return Record{}, err
		}
	}
	return Record{ID: id, Kind: s.Kind, Fields: out}, nil
}

// NewRecordFromRaw is NewRecord over raw decoded scalars. Raw keys absent
// from the schema are dropped.
func (s Schema) NewRecordFromRaw(id string, raw map[string]any) (Record, error) {
	fields := make(map[string]Value, len(raw))
	for _, col := range s.Columns {
		r, ok := raw[col.Key]
		if !ok {
			continue
		}
		v, err := CoerceValue(col, r)
		if err != nil {
			return Record{}, err
		}
		fields[col.Key] = v
	}
	return s.NewRecord(id, fields)
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
