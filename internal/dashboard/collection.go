package dashboard

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/mesh-intelligence/sectorboard/internal/seed"
	"github.com/mesh-intelligence/sectorboard/internal/table"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// SectorGeneral is the sector of forms created with the form builder.
const SectorGeneral = "general"

// submittedAtLayout is the timestamp format of submissions.
const submittedAtLayout = "2006-01-02T15:04:05"

// FormSchema returns the columns of the form table. Field definitions live
// beside the table, keyed by form ID.
func FormSchema() types.Schema {
	return types.Schema{
		Kind: types.RecordForm,
		Columns: []types.Column{
			{Key: "name", Label: "Form name", Kind: types.KindText, Editable: true},
			{Key: "description", Label: "Description", Kind: types.KindTextArea, Editable: true},
			{Key: "sector", Label: "Sector", Kind: types.KindText, Editable: true},
			{Key: "responses", Label: "Responses", Kind: types.KindNumber},
			{Key: "active", Label: "Active", Kind: types.KindBoolean, Editable: true},
			{Key: "created_at", Label: "Created on", Kind: types.KindDate},
		},
	}
}

// SubmissionSchema returns the columns of the submission table. Answers are
// kept beside the table, keyed by submission ID.
func SubmissionSchema() types.Schema {
	return types.Schema{
		Kind: types.RecordSubmission,
		Columns: []types.Column{
			{Key: "form_id", Label: "Form", Kind: types.KindText},
			{Key: "submitted_by", Label: "Submitted by", Kind: types.KindText},
			{Key: "submitted_at", Label: "Date", Kind: types.KindText},
			{Key: "status", Label: "Status", Kind: types.KindSelect, Editable: true,
				Options: types.SubmissionStatuses, Default: types.Select(types.SubmissionSubmitted)},
			{Key: "validation_notes", Label: "Validation notes", Kind: types.KindText, Editable: true},
		},
	}
}

// Collection is the data collection screen: form definitions, the
// submissions made against them and the validation queue.
type Collection struct {
	Forms       *table.Editor
	Submissions *table.Editor

	fields   map[string][]types.FormField
	answers  map[string]map[string]types.Value
	notifier types.Notifier
	now      func() string

	// Set only while SaveForm or Submit is adding the matching row.
	pendingFields  []types.FormField
	pendingAnswers map[string]types.Value
}

// CollectionStats are the headline figures of the screen.
type CollectionStats struct {
	Forms          int `json:"forms"`
	ActiveForms    int `json:"active_forms"`
	TotalResponses int `json:"total_responses"`
	Submissions    int `json:"submissions"`
	Pending        int `json:"pending"`
	Validated      int `json:"validated"`
	Rejected       int `json:"rejected"`
}

func newCollection(forms []seed.Form, subs []seed.Submission, c config) (*Collection, error) {
	col := &Collection{
		fields:   make(map[string][]types.FormField, len(forms)),
		answers:  make(map[string]map[string]types.Value, len(subs)),
		notifier: c.notifier,
		now:      func() string { return c.now().Format(submittedAtLayout) },
	}

	fs := FormSchema()
	frecs := make([]types.Record, 0, len(forms))
	for _, f := range forms {
		r, err := fs.NewRecordFromRaw(f.ID, map[string]any{
			"name":        f.Name,
			"description": f.Description,
			"sector":      f.Sector,
			"responses":   f.Responses,
			"active":      f.Active,
			"created_at":  f.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("seed form %s: %w", f.ID, err)
		}
		frecs = append(frecs, r)
		col.fields[f.ID] = slices.Clone(f.Fields)
	}

	ss := SubmissionSchema()
	srecs := make([]types.Record, 0, len(subs))
	for _, s := range subs {
		r, err := ss.NewRecordFromRaw(s.ID, map[string]any{
			"form_id":          s.FormID,
			"submitted_by":     s.SubmittedBy,
			"submitted_at":     s.SubmittedAt,
			"status":           s.Status,
			"validation_notes": s.ValidationNotes,
		})
		if err != nil {
			return nil, fmt.Errorf("seed submission %s: %w", s.ID, err)
		}
		ans, err := coerceAnswers(col.fields[s.FormID], s.Data, false)
		if err != nil {
			return nil, fmt.Errorf("seed submission %s: %w", s.ID, err)
		}
		srecs = append(srecs, r)
		col.answers[s.ID] = ans
	}

	col.Forms = table.New(fs, frecs, c.editorOptions(
		table.Messages{Updated: "Form updated", Added: "Form created", Deleted: "Form deleted"},
		table.WithAddDefaultsFunc(func() map[string]types.Value {
			return map[string]types.Value{
				"sector":     types.Text(SectorGeneral),
				"active":     types.Bool(true),
				"created_at": types.DateOf(c.now()),
			}
		}),
		table.WithAddCheck(func(types.Record) error {
			if len(col.pendingFields) == 0 {
				return types.ErrFormNoFields
			}
			return nil
		}),
		table.WithDeleteHook(func(r types.Record) { delete(col.fields, r.ID) }),
	)...)
	col.Submissions = table.New(ss, srecs, c.editorOptions(
		table.Messages{Updated: "Entry updated", Added: "Entry submitted", Deleted: "Entry deleted"},
		table.WithAddCheck(func(types.Record) error {
			if col.pendingAnswers == nil {
				return types.ErrSubmitViaForm
			}
			return nil
		}),
		table.WithDeleteHook(func(r types.Record) { delete(col.answers, r.ID) }),
	)...)
	return col, nil
}

// SaveForm stores a form definition produced by the form builder. The new
// form belongs to the general sector, is active, dated today and has no
// responses yet. It is the only way to add a form; a plain Forms.Add
// returns ErrFormNoFields. Deleting a form row drops its fields.
func (c *Collection) SaveForm(def types.FormDefinition) (types.Record, error) {
	if strings.TrimSpace(def.Name) == "" {
		return types.Record{}, types.ErrFormNameRequired
	}
	if len(def.Fields) == 0 {
		return types.Record{}, types.ErrFormNoFields
	}
	c.pendingFields = def.Fields
	defer func() { c.pendingFields = nil }()
	r, err := c.Forms.Add(map[string]types.Value{
		"name":        types.Text(def.Name),
		"description": types.TextArea(def.Description),
	})
	if err != nil {
		return types.Record{}, err
	}
	c.fields[r.ID] = slices.Clone(def.Fields)
	return r, nil
}

// FormFields returns the field definitions of a form.
// Returns ErrNotFound if the form does not exist.
func (c *Collection) FormFields(formID string) ([]types.FormField, error) {
	if _, err := c.Forms.Get(formID); err != nil {
		return nil, fmt.Errorf("form %s: %w", formID, err)
	}
	return slices.Clone(c.fields[formID]), nil
}

// Submit records a response to a form. Answers are keyed by field label and
// coerced to each field's kind. The form's response count goes up by one.
// A plain Submissions.Add returns ErrSubmitViaForm; deleting a submission
// row drops its answers.
// Returns ErrFormInactive for a deactivated form, ErrRequiredAnswer when a
// required field is unanswered, ErrFieldNotFound for an answer to an unknown
// field, or the coercion error of a malformed answer.
func (c *Collection) Submit(formID, by string, answers map[string]any, draft bool) (types.Record, error) {
	form, err := c.Forms.Get(formID)
	if err != nil {
		return types.Record{}, fmt.Errorf("form %s: %w", formID, err)
	}
	if !form.Value("active").Bool() {
		return types.Record{}, fmt.Errorf("form %s: %w", formID, types.ErrFormInactive)
	}
	ans, err := coerceAnswers(c.fields[formID], answers, !draft)
	if err != nil {
		c.notifier.Notify(types.LevelError, err.Error())
		return types.Record{}, err
	}

	status := types.SubmissionSubmitted
	if draft {
		status = types.SubmissionDraft
	}
	c.pendingAnswers = ans
	defer func() { c.pendingAnswers = nil }()
	r, err := c.Submissions.Add(map[string]types.Value{
		"form_id":      types.Text(formID),
		"submitted_by": types.Text(by),
		"submitted_at": types.Text(c.now()),
		"status":       types.Select(status),
	})
	if err != nil {
		return types.Record{}, err
	}
	c.answers[r.ID] = ans

	n := form.Value("responses").Float()
	if err := c.Forms.Set(form.With("responses", types.Number(n+1))); err != nil {
		return types.Record{}, err
	}
	return r, nil
}

// Answers returns the answers of a submission keyed by field label.
func (c *Collection) Answers(submissionID string) map[string]types.Value {
	return maps.Clone(c.answers[submissionID])
}

// Pending returns the submissions awaiting validation.
func (c *Collection) Pending() []types.Record {
	return c.Submissions.Fetch(map[string]types.Value{"status": types.Select(types.SubmissionSubmitted)})
}

// Validate accepts a pending submission.
// Returns ErrNotFound for an unknown submission and ErrInvalidStatus if it
// is not awaiting validation.
func (c *Collection) Validate(submissionID string) error {
	r, err := c.pending(submissionID)
	if err != nil {
		return err
	}
	if err := c.Submissions.Set(r.With("status", types.Select(types.SubmissionValidated))); err != nil {
		return err
	}
	c.notifier.Notify(types.LevelSuccess, "Entry validated")
	return nil
}

// Reject refuses a pending submission with an optional note.
// Returns the same errors as Validate.
func (c *Collection) Reject(submissionID, notes string) error {
	r, err := c.pending(submissionID)
	if err != nil {
		return err
	}
	r = r.With("status", types.Select(types.SubmissionRejected))
	if notes != "" {
		r = r.With("validation_notes", types.Text(notes))
	}
	if err := c.Submissions.Set(r); err != nil {
		return err
	}
	c.notifier.Notify(types.LevelError, "Entry rejected")
	return nil
}

func (c *Collection) pending(id string) (types.Record, error) {
	r, err := c.Submissions.Get(id)
	if err != nil {
		return types.Record{}, fmt.Errorf("submission %s: %w", id, err)
	}
	if st := r.Value("status").String(); st != types.SubmissionSubmitted {
		return types.Record{}, fmt.Errorf("submission %s is %s: %w", id, st, types.ErrInvalidStatus)
	}
	return r, nil
}

// Stats recomputes the collection figures.
func (c *Collection) Stats() CollectionStats {
	forms := c.Forms.Rows()
	subs := c.Submissions.Rows()
	return CollectionStats{
		Forms:          len(forms),
		ActiveForms:    table.CountWhere(forms, "active", types.Bool(true)),
		TotalResponses: int(table.Sum(forms, "responses")),
		Submissions:    len(subs),
		Pending:        table.CountWhere(subs, "status", types.Select(types.SubmissionSubmitted)),
		Validated:      table.CountWhere(subs, "status", types.Select(types.SubmissionValidated)),
		Rejected:       table.CountWhere(subs, "status", types.Select(types.SubmissionRejected)),
	}
}

// coerceAnswers validates raw answers against field definitions. Empty
// strings count as unanswered. With enforce unset, missing required answers
// are allowed, as for drafts and seeded data.
func coerceAnswers(fields []types.FormField, raw map[string]any, enforce bool) (map[string]types.Value, error) {
	out := make(map[string]types.Value, len(raw))
	for key := range raw {
		if !slices.ContainsFunc(fields, func(f types.FormField) bool { return f.Label == key }) {
			return nil, fmt.Errorf("%q: %w", key, types.ErrFieldNotFound)
		}
	}
	for _, f := range fields {
		v, ok := raw[f.Label]
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			ok = false
		}
		if !ok || v == nil {
			if enforce && f.Required {
				return nil, fmt.Errorf("%s: %w", f.Label, types.ErrRequiredAnswer)
			}
			continue
		}
		val, err := types.CoerceValue(f.Column(), v)
		if err != nil {
			return nil, err
		}
		out[f.Label] = val
	}
	return out, nil
}
