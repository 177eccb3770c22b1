package types

// FormField is one field definition of a data-collection form.
type FormField struct {
	ID          string    `json:"id" yaml:"id"`
	Label       string    `json:"label" yaml:"label"`
	Kind        ValueKind `json:"type" yaml:"type"`
	Required    bool      `json:"required" yaml:"required"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Validation  string    `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Column returns the column used to validate answers to this field. Answers
// are keyed by field label.
func (f FormField) Column() Column {
	return Column{
		Key:      f.Label,
		Label:    f.Label,
		Kind:     f.Kind,
		Options:  f.Options,
		Editable: true,
		Required: f.Required,
	}
}

// FieldPatch is a partial field update. Nil members are left unchanged.
type FieldPatch struct {
	Label       *string
	Kind        *ValueKind
	Required    *bool
	Options     []string
	Placeholder *string
	Validation  *string
}

// Apply returns f with the patch merged in.
// Returns ErrInvalidKind if the patch sets an unknown kind.
func (fp FieldPatch) Apply(f FormField) (FormField, error) {
	out := f
	out.Options = append([]string(nil), f.Options...)
	if fp.Kind != nil {
		if !IsValidKind(*fp.Kind) {
			return f, ErrInvalidKind
		}
		out.Kind = *fp.Kind
	}
	setIf(&out.Label, fp.Label)
	setIf(&out.Required, fp.Required)
	setIf(&out.Placeholder, fp.Placeholder)
	setIf(&out.Validation, fp.Validation)
	if fp.Options != nil {
		out.Options = append([]string(nil), fp.Options...)
	}
	return out, nil
}

// FormDefinition is the completed output of the form builder.
type FormDefinition struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FormField `json:"fields" yaml:"fields"`
}

// Submission states.
const (
	SubmissionDraft     = "draft"
	SubmissionSubmitted = "submitted"
	SubmissionValidated = "validated"
	SubmissionRejected  = "rejected"
)

// SubmissionStatuses lists the submission states in workflow order.
var SubmissionStatuses = []string{SubmissionDraft, SubmissionSubmitted, SubmissionValidated, SubmissionRejected}
