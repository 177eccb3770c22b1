// Package table implements the generic tabular editor shared by every
// feature screen: row-indexed update, add and delete over an in-memory
// record list described by a static schema.
package table

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// maxIDAttempts bounds how many times Add asks the generator for an unused ID.
const maxIDAttempts = 16

// Messages are the success notifications emitted after each mutation.
type Messages struct {
	Updated string
	Added   string
	Deleted string
}

// UpdateHook recomputes derived fields of a row after key changed. It
// receives the already-updated record and returns the record to store.
type UpdateHook func(r types.Record, key string) types.Record

// Editor implements types.Table over an ordered in-memory record list.
// Every mutation replaces the row slice, so slices returned earlier by Rows
// keep their contents.
type Editor struct {
	schema   types.Schema
	rows     []types.Record
	seen     map[string]bool // every ID ever held or issued
	defaults func() map[string]types.Value
	newID    func() string
	notifier types.Notifier
	messages Messages
	onUpdate UpdateHook
	onAdd    func(types.Record) types.Record
	addCheck func(types.Record) error
	onDelete func(types.Record)
}

// Option configures an Editor.
type Option func(*Editor)

// WithNotifier sets where success notifications go.
func WithNotifier(n types.Notifier) Option {
	return func(e *Editor) { e.notifier = n }
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Editor) { e.newID = gen }
}

// WithMessages sets the notification texts.
func WithMessages(m Messages) Option {
	return func(e *Editor) { e.messages = m }
}

// WithUpdateHook installs a derived-field hook run after each Update.
func WithUpdateHook(h UpdateHook) Option {
	return func(e *Editor) { e.onUpdate = h }
}

// WithAddDefaults sets values used by Add for fields the caller leaves out.
// They take precedence over column defaults.
func WithAddDefaults(d map[string]types.Value) Option {
	return func(e *Editor) { e.defaults = func() map[string]types.Value { return d } }
}

// WithAddDefaultsFunc is WithAddDefaults for defaults that depend on the
// time of the call, such as today's date.
func WithAddDefaultsFunc(fn func() map[string]types.Value) Option {
	return func(e *Editor) { e.defaults = fn }
}

// WithAddHook installs a derived-field hook run on every record Add builds.
func WithAddHook(h func(types.Record) types.Record) Option {
	return func(e *Editor) { e.onAdd = h }
}

// WithAddCheck installs a guard run on every record Add builds, after the
// add hook. A non-nil error aborts the add.
func WithAddCheck(fn func(types.Record) error) Option {
	return func(e *Editor) { e.addCheck = fn }
}

// WithDeleteHook installs a callback run with each record Delete removes.
func WithDeleteHook(fn func(types.Record)) Option {
	return func(e *Editor) { e.onDelete = fn }
}

// New creates an editor over seed. Seed records are taken as given; their
// IDs are reserved so Add never reissues them.
func New(schema types.Schema, seed []types.Record, opts ...Option) *Editor {
	e := &Editor{
		schema:   schema,
		rows:     slices.Clone(seed),
		seen:     make(map[string]bool, len(seed)),
		newID:    types.NewID,
		notifier: types.NopNotifier{},
		messages: Messages{Updated: "Row updated", Added: "Row added", Deleted: "Row deleted"},
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, r := range e.rows {
		e.seen[r.ID] = true
	}
	return e
}

// Schema implements types.Table.
func (e *Editor) Schema() types.Schema { return e.schema }

// Rows implements types.Table. The slice is a copy; the records inside are
// shared and must not be modified.
func (e *Editor) Rows() []types.Record { return slices.Clone(e.rows) }

// Len implements types.Table.
func (e *Editor) Len() int { return len(e.rows) }

// Row returns the record at index row.
// Returns ErrInvalidIndex if row is outside the current list.
func (e *Editor) Row(row int) (types.Record, error) {
	if row < 0 || row >= len(e.rows) {
		return types.Record{}, fmt.Errorf("row %d of %d: %w", row, len(e.rows), types.ErrInvalidIndex)
	}
	return e.rows[row], nil
}

// Get implements types.Table.
func (e *Editor) Get(id string) (types.Record, error) {
	if id == "" {
		return types.Record{}, types.ErrInvalidID
	}
	i := e.IndexOf(id)
	if i < 0 {
		return types.Record{}, types.ErrNotFound
	}
	return e.rows[i], nil
}

// IndexOf returns the row index of the record with the given ID, or -1.
func (e *Editor) IndexOf(id string) int {
	return slices.IndexFunc(e.rows, func(r types.Record) bool { return r.ID == id })
}

// Update implements types.Table. Only the targeted field changes, plus any
// derived fields the update hook recomputes on the same row.
func (e *Editor) Update(row int, key string, value types.Value) error {
	current, err := e.Row(row)
	if err != nil {
		return err
	}
	col, ok := e.schema.Column(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, types.ErrFieldNotFound)
	}
	if !col.Editable {
		return fmt.Errorf("%s: %w", key, types.ErrNotEditable)
	}
	if err := e.schema.Check(key, value); err != nil {
		return err
	}

	updated := current.With(key, value)
	if e.onUpdate != nil {
		updated = e.onUpdate(updated, key)
	}

	next := slices.Clone(e.rows)
	next[row] = updated
	e.rows = next

	e.notifier.Notify(types.LevelSuccess, e.messages.Updated)
	return nil
}

// Set replaces the whole row identified by r.ID after validating it against
// the schema. Non-editable columns may change here; Set is how owners of
// derived or workflow fields write them.
// Returns ErrNotFound if no row has that ID.
func (e *Editor) Set(r types.Record) error {
	i := e.IndexOf(r.ID)
	if i < 0 {
		return types.ErrNotFound
	}
	for _, col := range e.schema.Columns {
		if err := e.schema.Check(col.Key, r.Value(col.Key)); err != nil {
			return err
		}
	}
	next := slices.Clone(e.rows)
	next[i] = r.Clone()
	e.rows = next
	return nil
}

// Add implements types.Table. Missing fields are filled from the add
// defaults, then from the column defaults.
func (e *Editor) Add(partial map[string]types.Value) (types.Record, error) {
	fields := make(map[string]types.Value, len(partial))
	if e.defaults != nil {
		for k, v := range e.defaults() {
			fields[k] = v
		}
	}
	for k, v := range partial {
		if v.IsZero() {
			continue
		}
		fields[k] = v
	}

	id, err := e.issueID()
	if err != nil {
		return types.Record{}, err
	}
	r, err := e.schema.NewRecord(id, fields)
	if err != nil {
		return types.Record{}, err
	}
	if e.onAdd != nil {
		r = e.onAdd(r)
	}
	if e.addCheck != nil {
		if err := e.addCheck(r); err != nil {
			return types.Record{}, err
		}
	}

	e.rows = append(slices.Clone(e.rows), r)
	e.notifier.Notify(types.LevelSuccess, e.messages.Added)
	return r, nil
}

// Delete implements types.Table. There is no confirmation and no undo.
func (e *Editor) Delete(row int) (types.Record, error) {
	r, err := e.Row(row)
	if err != nil {
		return types.Record{}, err
	}
	e.rows = slices.Delete(slices.Clone(e.rows), row, row+1)
	if e.onDelete != nil {
		e.onDelete(r)
	}
	e.notifier.Notify(types.LevelSuccess, e.messages.Deleted)
	return r, nil
}

// Fetch returns the rows whose values equal every entry of filter. An empty
// filter returns every row.
func (e *Editor) Fetch(filter map[string]types.Value) []types.Record {
	var out []types.Record
	for _, r := range e.rows {
		if matches(r, filter) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r types.Record, filter map[string]types.Value) bool {
	for k, v := range filter {
		if !r.Value(k).Equal(v) {
			return false
		}
	}
	return true
}

// issueID asks the generator for an ID that has never been used by this
// editor and reserves it.
func (e *Editor) issueID() (string, error) {
	for range maxIDAttempts {
		id := e.newID()
		if id == "" || e.seen[id] {
			continue
		}
		e.seen[id] = true
		return id, nil
	}
	return "", fmt.Errorf("no unused ID after %d attempts: %w", maxIDAttempts, types.ErrInvalidID)
}
