package formbuilder

import "github.com/mesh-intelligence/sectorboard/pkg/types"

// Control types used by the preview.
const (
	ControlInput    = "input"
	ControlNumber   = "number"
	ControlDate     = "date"
	ControlCheckbox = "checkbox"
	ControlSelect   = "select"
	ControlTextArea = "textarea"
)

// Control describes how one field would be presented to a respondent.
// Preview controls are always disabled.
type Control struct {
	FieldID     string   `json:"field_id"`
	Label       string   `json:"label"`
	Kind        string   `json:"control"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	Required    bool     `json:"required"`
	Disabled    bool     `json:"disabled"`
}

// Preview returns the controls for the current fields in order.
func (b *Builder) Preview() []Control {
	return PreviewFields(b.fields)
}

// PreviewFields maps form fields to disabled controls. Text, textarea and
// number fields fall back to the label when no placeholder is set.
func PreviewFields(fields []types.FormField) []Control {
	out := make([]Control, 0, len(fields))
	for _, f := range fields {
		c := Control{
			FieldID:     f.ID,
			Label:       f.Label,
			Kind:        controlFor(f.Kind),
			Placeholder: f.Placeholder,
			Required:    f.Required,
			Disabled:    true,
		}
		switch f.Kind {
		case types.KindText, types.KindTextArea, types.KindNumber:
			if c.Placeholder == "" {
				c.Placeholder = f.Label
			}
		case types.KindSelect:
			c.Options = append([]string(nil), f.Options...)
		}
		out = append(out, c)
	}
	return out
}

func controlFor(k types.ValueKind) string {
	switch k {
	case types.KindNumber:
		return ControlNumber
	case types.KindDate:
		return ControlDate
	case types.KindBoolean:
		return ControlCheckbox
	case types.KindSelect:
		return ControlSelect
	case types.KindTextArea:
		return ControlTextArea
	default:
		return ControlInput
	}
}
