package types

import "errors"

// Table provides uniform row-oriented editing over one feature's records.
// Rows are addressed by their position in the current list; identifiers are
// stable across edits and never reused after a delete.
type Table interface {
	// Schema returns the ordered column definitions of the table.
	Schema() Schema

	// Rows returns the current records in display order. The returned
	// records must be treated as read-only.
	Rows() []Record

	// Len returns the number of rows.
	Len() int

	// Get retrieves the record with the given ID.
	// Returns ErrNotFound if no record has that ID.
	Get(id string) (Record, error)

	// Update replaces the value of one field on one row, leaving every other
	// field and row untouched.
	// Returns ErrInvalidIndex if row is outside the current list.
	Update(row int, key string, value Value) error

	// Add appends a record built from partial. Fields missing from partial
	// take the table's defaults. Returns the stored record.
	Add(partial map[string]Value) (Record, error)

	// Delete removes the row at the given index and returns it.
	// Returns ErrInvalidIndex if row is outside the current list.
	Delete(row int) (Record, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidID     = errors.New("invalid record ID")
	ErrInvalidIndex  = errors.New("row index out of range")
	ErrFieldNotFound = errors.New("field not found")
	ErrNotEditable   = errors.New("field is not editable")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrInvalidOption = errors.New("value is not one of the column options")
	ErrInvalidDate   = errors.New("invalid date, want YYYY-MM-DD")
	ErrInvalidKind   = errors.New("invalid value kind")
	ErrTableNotFound = errors.New("table not found")
	ErrDuplicateID   = errors.New("duplicate ID")
)

// Form builder errors. Their messages are shown to the user as is.
var (
	ErrFormNameRequired = errors.New("form name is required")
	ErrFormNoFields     = errors.New("add at least one field to the form")
	ErrRequiredAnswer   = errors.New("required answer missing")
	ErrFormInactive     = errors.New("form is not active")
	ErrSubmitViaForm    = errors.New("submissions are recorded by submitting a form")
)

// Store errors.
var (
	ErrInvalidStatus = errors.New("invalid status value")
	ErrInvalidName   = errors.New("invalid name")
)
