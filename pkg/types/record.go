package types

import (
	"encoding/json"
	"maps"

	"github.com/google/uuid"
)

// Record is one row of feature data: a stable identifier plus a mapping from
// field key to value. Records are values; With returns a modified copy and
// never changes the receiver's map.
type Record struct {
	ID     string           // Generated on creation, never reused.
	Kind   RecordKind       // Feature the record belongs to.
	Fields map[string]Value // Values keyed by column key.
}

// Value returns the value stored under key, or the zero Value when the
// record does not carry it.
func (r Record) Value(key string) Value {
	return r.Fields[key]
}

// Has reports whether the record carries key.
func (r Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// With returns a copy of the record with key set to v.
func (r Record) With(key string, v Value) Record {
	out := r.Clone()
	out.Fields[key] = v
	return out
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{ID: r.ID, Kind: r.Kind, Fields: make(map[string]Value, len(r.Fields))}
	maps.Copy(out.Fields, r.Fields)
	return out
}

// MarshalJSON flattens the record into {"id": ..., "<key>": <scalar>, ...}.
func (r Record) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		flat[k] = v.Interface()
	}
	flat["id"] = r.ID
	return json.Marshal(flat)
}

// NewID generates a new UUID v7 for record, field and project identifiers.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
