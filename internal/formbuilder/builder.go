// Package formbuilder assembles data-collection form definitions field by
// field and renders a read-only preview of the result.
package formbuilder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// defaultSelectOptions seeds every new select field.
var defaultSelectOptions = []string{"Option 1", "Option 2"}

// Builder holds a form under construction. It is not safe for concurrent
// use.
type Builder struct {
	name        string
	description string
	fields      []types.FormField
	newID       func() string
	notifier    types.Notifier
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator replaces the UUID v7 field ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) { b.newID = gen }
}

// WithNotifier sets where validation messages go.
func WithNotifier(n types.Notifier) Option {
	return func(b *Builder) { b.notifier = n }
}

// New returns an empty builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		newID:    types.NewID,
		notifier: types.NopNotifier{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetName sets the form name.
func (b *Builder) SetName(name string) { b.name = name }

// SetDescription sets the form description.
func (b *Builder) SetDescription(desc string) { b.description = desc }

// Name returns the current form name.
func (b *Builder) Name() string { return b.name }

// Description returns the current form description.
func (b *Builder) Description() string { return b.description }

// Fields returns a copy of the fields in display order.
func (b *Builder) Fields() []types.FormField {
	out := make([]types.FormField, len(b.fields))
	for i, f := range b.fields {
		f.Options = slices.Clone(f.Options)
		out[i] = f
	}
	return out
}

// AddField appends a field of the given kind with a placeholder label.
// Returns ErrInvalidKind if kind is not recognized.
func (b *Builder) AddField(kind types.ValueKind) (types.FormField, error) {
	if !types.IsValidKind(kind) {
		return types.FormField{}, fmt.Errorf("%q: %w", kind, types.ErrInvalidKind)
	}
	f := types.FormField{
		ID:    b.newID(),
		Label: fmt.Sprintf("New %s field", kind),
		Kind:  kind,
	}
	if kind == types.KindSelect {
		f.Options = slices.Clone(defaultSelectOptions)
	}
	b.fields = append(b.fields, f)
	return f, nil
}

// UpdateField merges patch into the field with the given ID.
// Returns ErrFieldNotFound if no field has that ID.
func (b *Builder) UpdateField(id string, patch types.FieldPatch) (types.FormField, error) {
	i := b.indexOf(id)
	if i < 0 {
		return types.FormField{}, fmt.Errorf("field %s: %w", id, types.ErrFieldNotFound)
	}
	f, err := patch.Apply(b.fields[i])
	if err != nil {
		return types.FormField{}, err
	}
	// A field switched to select gets the starter options unless the patch
	// supplied its own.
	if f.Kind == types.KindSelect && len(f.Options) == 0 {
		f.Options = slices.Clone(defaultSelectOptions)
	}
	b.fields[i] = f
	return f, nil
}

// RemoveField drops the field with the given ID. Removing an unknown ID is a
// no-op that reports false.
func (b *Builder) RemoveField(id string) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.fields = slices.Delete(b.fields, i, i+1)
	return true
}

// Save validates the form and returns its definition. A blank name or an
// empty field list is rejected: the error is both returned and sent to the
// notifier, and the builder keeps its state so the user can fix it.
func (b *Builder) Save() (types.FormDefinition, error) {
	var err error
	switch {
	case strings.TrimSpace(b.name) == "":
		err = types.ErrFormNameRequired
	case len(b.fields) == 0:
		err = types.ErrFormNoFields
	}
	if err != nil {
		b.notifier.Notify(types.LevelError, err.Error())
		return types.FormDefinition{}, err
	}
	return types.FormDefinition{
		Name:        b.name,
		Description: b.description,
		Fields:      b.Fields(),
	}, nil
}

// Reset clears the builder.
func (b *Builder) Reset() {
	b.name, b.description, b.fields = "", "", nil
}

func (b *Builder) indexOf(id string) int {
	return slices.IndexFunc(b.fields, func(f types.FormField) bool { return f.ID == id })
}
