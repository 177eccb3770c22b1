package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sectorboard/internal/formbuilder"
	"github.com/mesh-intelligence/sectorboard/internal/render"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func newFormCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Build data-collection forms and record submissions",
		Long: "The form builder keeps a draft for the length of a session: use \"form field\"\n" +
			"and \"form name\" to shape it, \"form preview\" to see it and \"form save\" to\n" +
			"publish it. \"form build\" does all of that in one command.",
	}
	cmd.AddCommand(
		newFormBuildCmd(app),
		newFormNameCmd(app),
		newFormFieldCmd(app),
		newFormSaveCmd(app),
		newFormPreviewCmd(app),
		newFormSubmitCmd(app),
		newFormReviewCmd(app, true),
		newFormReviewCmd(app, false),
		newFormAnswersCmd(app),
	)
	return cmd
}

func newFormBuildCmd(app *App) *cobra.Command {
	var (
		description string
		fields      []string
	)
	cmd := &cobra.Command{
		Use:   "build <name>",
		Short: "Build and save a form in one step",
		Long: "Each --field is kind:label followed by optional :required, :options=a|b\n" +
			"and :placeholder=text segments, e.g. --field 'select:Crop type:required:options=Banana|Yam'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Builder()
			b.Reset()
			b.SetName(args[0])
			b.SetDescription(description)
			for _, spec := range fields {
				if err := addFieldSpec(b, spec); err != nil {
					return err
				}
			}
			return app.saveForm(b)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "form description")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "field spec (repeatable)")
	return cmd
}

func newFormNameCmd(app *App) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "name <name>",
		Short: "Name the draft form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Builder()
			b.SetName(args[0])
			if cmd.Flags().Changed("description") {
				b.SetDescription(description)
			}
			return app.showDraft(b)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "form description")
	return cmd
}

func newFormFieldCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Add, change or remove draft form fields",
		Long:  "Fields are addressed by ID or by zero-based position.",
	}

	var (
		label, placeholder, kind, options string
		required                          bool
	)
	patchFrom := func(cmd *cobra.Command) types.FieldPatch {
		var p types.FieldPatch
		f := cmd.Flags()
		if f.Changed("label") {
			p.Label = &label
		}
		if f.Changed("placeholder") {
			p.Placeholder = &placeholder
		}
		if f.Changed("required") {
			p.Required = &required
		}
		if f.Changed("type") {
			k := types.ValueKind(kind)
			p.Kind = &k
		}
		if f.Changed("options") {
			p.Options = splitOptions(options)
		}
		return p
	}

	add := &cobra.Command{
		Use:   "add <kind>",
		Short: "Append a field: text, textarea, number, select, boolean or date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Builder()
			f, err := b.AddField(types.ValueKind(args[0]))
			if err != nil {
				return err
			}
			if _, err := b.UpdateField(f.ID, patchFrom(cmd)); err != nil {
				return err
			}
			return app.showDraft(b)
		},
	}
	set := &cobra.Command{
		Use:   "set <field>",
		Short: "Change a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Builder()
			if _, err := b.UpdateField(fieldRef(b, args[0]), patchFrom(cmd)); err != nil {
				return err
			}
			return app.showDraft(b)
		},
	}
	for _, c := range []*cobra.Command{add, set} {
		f := c.Flags()
		f.StringVar(&label, "label", "", "field label")
		f.StringVar(&placeholder, "placeholder", "", "placeholder text")
		f.BoolVar(&required, "required", false, "answer required")
		f.StringVar(&options, "options", "", "select options separated by |")
	}
	set.Flags().StringVar(&kind, "type", "", "new field kind")

	remove := &cobra.Command{
		Use:   "remove <field>",
		Short: "Remove a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b := app.Builder()
			if !b.RemoveField(fieldRef(b, args[0])) {
				return fmt.Errorf("field %s: %w", args[0], types.ErrFieldNotFound)
			}
			return app.showDraft(b)
		},
	}

	cmd.AddCommand(add, set, remove)
	return cmd
}

func newFormSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Publish the draft form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.saveForm(app.Builder())
		},
	}
}

func newFormPreviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [form-id]",
		Short: "Preview the draft, or a saved form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return app.showDraft(app.Builder())
			}
			d, err := app.Board()
			if err != nil {
				return err
			}
			fields, err := d.Collection.FormFields(args[0])
			if err != nil {
				return err
			}
			form, err := d.Collection.Forms.Get(args[0])
			if err != nil {
				return err
			}
			controls := formbuilder.PreviewFields(fields)
			if app.flags.jsonMode {
				return app.printJSON(controls)
			}
			return app.renderer().Preview(form.Value("name").String(), form.Value("description").String(), controls)
		},
	}
}

func newFormSubmitCmd(app *App) *cobra.Command {
	var (
		by    string
		draft bool
	)
	cmd := &cobra.Command{
		Use:   "submit <form-id> [label=value]...",
		Short: "Record a response to a form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			answers, err := rawAssignments(args[1:])
			if err != nil {
				return err
			}
			r, err := d.Collection.Submit(args[0], by, answers, draft)
			if err != nil {
				return err
			}
			return app.showRecord(d.Collection.Submissions, r.ID)
		},
	}
	cmd.Flags().StringVar(&by, "by", "Anonymous", "respondent name")
	cmd.Flags().BoolVar(&draft, "draft", false, "save as a draft without checking required answers")
	return cmd
}

// newFormReviewCmd builds the validate or reject command.
func newFormReviewCmd(app *App, accept bool) *cobra.Command {
	var notes string
	use, short := "validate <submission-id>", "Accept a pending submission"
	if !accept {
		use, short = "reject <submission-id>", "Refuse a pending submission"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			if accept {
				err = d.Collection.Validate(args[0])
			} else {
				err = d.Collection.Reject(args[0], notes)
			}
			if err != nil {
				return err
			}
			return app.showRecord(d.Collection.Submissions, args[0])
		},
	}
	if !accept {
		cmd.Flags().StringVar(&notes, "notes", "", "reason for the rejection")
	}
	return cmd
}

func newFormAnswersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "answers <submission-id>",
		Short: "Show the answers of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Board()
			if err != nil {
				return err
			}
			sub, err := d.Collection.Submissions.Get(args[0])
			if err != nil {
				return err
			}
			fields, err := d.Collection.FormFields(sub.Value("form_id").String())
			if err != nil {
				return err
			}
			answers := d.Collection.Answers(args[0])
			if app.flags.jsonMode {
				out := make(map[string]any, len(answers))
				for k, v := range answers {
					out[k] = v.Interface()
				}
				return app.printJSON(out)
			}
			rows := make([][]string, 0, len(fields))
			for _, f := range fields {
				v, ok := answers[f.Label]
				text := ""
				if ok {
					text = render.FormatValue(v)
				}
				rows = append(rows, []string{f.Label, text})
			}
			return app.renderer().Grid("Submission "+args[0], []string{"Field", "Answer"}, rows)
		},
	}
}

// saveForm validates the draft, stores it with the collection forms and
// clears the builder. A rejected draft is kept for correction.
func (a *App) saveForm(b *formbuilder.Builder) error {
	def, err := b.Save()
	if err != nil {
		return err
	}
	d, err := a.Board()
	if err != nil {
		return err
	}
	r, err := d.Collection.SaveForm(def)
	if err != nil {
		return err
	}
	b.Reset()
	if a.flags.jsonMode {
		return a.printJSON(map[string]any{"form": r, "fields": def.Fields})
	}
	fmt.Fprintf(a.out, "Saved form %s with %d fields\n", r.ID, len(def.Fields))
	return a.renderer().Preview(def.Name, def.Description, formbuilder.PreviewFields(def.Fields))
}

// showDraft prints the builder's current preview.
func (a *App) showDraft(b *formbuilder.Builder) error {
	if a.flags.jsonMode {
		return a.printJSON(map[string]any{
			"name":        b.Name(),
			"description": b.Description(),
			"fields":      b.Fields(),
		})
	}
	name := b.Name()
	if name == "" {
		name = "(untitled form)"
	}
	return a.renderer().Preview(name, b.Description(), b.Preview())
}

// addFieldSpec adds one field described as kind:label[:segment]... to b.
func addFieldSpec(b *formbuilder.Builder, spec string) error {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 || parts[1] == "" {
		return fmt.Errorf("field %q: want kind:label", spec)
	}
	f, err := b.AddField(types.ValueKind(parts[0]))
	if err != nil {
		return err
	}
	label := parts[1]
	patch := types.FieldPatch{Label: &label}
	for _, seg := range parts[2:] {
		key, val, _ := strings.Cut(seg, "=")
		switch key {
		case "required":
			req := true
			patch.Required = &req
		case "options":
			patch.Options = splitOptions(val)
		case "placeholder":
			ph := val
			patch.Placeholder = &ph
		default:
			return fmt.Errorf("field %q: unknown segment %q", spec, seg)
		}
	}
	_, err = b.UpdateField(f.ID, patch)
	return err
}

// fieldRef resolves a zero-based position to a field ID; anything else is
// taken as an ID.
func fieldRef(b *formbuilder.Builder, ref string) string {
	fields := b.Fields()
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(fields) {
		return fields[i].ID
	}
	return ref
}

func splitOptions(s string) []string {
	var out []string
	for _, o := range strings.Split(s, "|") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
