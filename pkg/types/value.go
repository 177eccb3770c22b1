package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind determines which scalar a Value carries and how a column is
// edited.
type ValueKind string

// Value kinds accepted by schemas and the form builder.
const (
	KindText     ValueKind = "text"
	KindTextArea ValueKind = "textarea"
	KindNumber   ValueKind = "number"
	KindSelect   ValueKind = "select"
	KindBoolean  ValueKind = "boolean"
	KindDate     ValueKind = "date"
)

// DateLayout is the calendar date format used by date values.
const DateLayout = "2006-01-02"

// validKinds is the set of recognized value kinds.
var validKinds = map[ValueKind]bool{
	KindText:     true,
	KindTextArea: true,
	KindNumber:   true,
	KindSelect:   true,
	KindBoolean:  true,
	KindDate:     true,
}

// Kinds lists every value kind in the order the form builder offers them.
var Kinds = []ValueKind{KindText, KindNumber, KindDate, KindBoolean, KindSelect, KindTextArea}

// IsValidKind reports whether k is a recognized value kind.
func IsValidKind(k ValueKind) bool {
	return validKinds[k]
}

// Value is a tagged scalar. Exactly one of the string, number or boolean
// payloads is meaningful, selected by Kind. The zero Value has no kind and
// reports IsZero.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: KindText, str: s} }

// TextArea returns a multi-line text value.
func TextArea(s string) Value { return Value{kind: KindTextArea, str: s} }

// Select returns a value chosen from a column's options.
func Select(s string) Value { return Value{kind: KindSelect, str: s} }

// Date returns a calendar date value in DateLayout form.
func Date(s string) Value { return Value{kind: KindDate, str: s} }

// DateOf returns the date value for t.
func DateOf(t time.Time) Value { return Date(t.Format(DateLayout)) }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// ZeroValue returns the empty default for a kind: "" for the string kinds,
// 0 for numbers and false for booleans.
// Returns ErrInvalidKind if the kind is not recognized.
func ZeroValue(kind ValueKind) (Value, error) {
	if !IsValidKind(kind) {
		return Value{}, ErrInvalidKind
	}
	return Value{kind: kind}, nil
}

// Kind returns the value's kind, or "" for the zero Value.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether v carries no kind.
func (v Value) IsZero() bool { return v.kind == "" }

// String returns the string payload for string kinds and a formatted
// representation for numbers and booleans.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Float returns the numeric payload. Non-numeric values return 0.
func (v Value) Float() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Bool returns the boolean payload. Non-boolean values return false.
func (v Value) Bool() bool {
	if v.kind != KindBoolean {
		return false
	}
	return v.b
}

// Interface returns the payload as a plain Go scalar (string, float64 or
// bool), or nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case "":
		return nil
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	default:
		return v.str
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	return v == o
}

// MarshalJSON encodes the payload as a JSON scalar.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	return fmt.Sprintf("%s(%q)", v.kind, v.String())
}
