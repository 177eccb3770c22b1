package dashboard

import (
	"fmt"

	"github.com/mesh-intelligence/sectorboard/internal/state"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// ProjectSchema returns the columns of the project table.
func ProjectSchema() types.Schema {
	return types.Schema{
		Kind: types.RecordProject,
		Columns: []types.Column{
			{Key: "name", Label: "Project name", Kind: types.KindText, Editable: true},
			{Key: "sector", Label: "Sector", Kind: types.KindText, Editable: true},
			{Key: "status", Label: "Status", Kind: types.KindSelect, Editable: true,
				Options: types.ProjectStatuses, Default: types.Select(types.ProjectPlanning)},
			{Key: "progress", Label: "Progress (%)", Kind: types.KindNumber, Editable: true, Unit: "%", Integer: true},
			{Key: "budget", Label: "Budget (EUR)", Kind: types.KindNumber, Editable: true, Unit: "EUR"},
			{Key: "manager", Label: "Manager", Kind: types.KindText, Editable: true},
			{Key: "location", Label: "Location", Kind: types.KindText, Editable: true},
			{Key: "beneficiaries", Label: "Beneficiaries", Kind: types.KindNumber, Editable: true, Integer: true},
		},
	}
}

// ProjectTable presents the project store as an editable table, optionally
// filtered by status. Row indexes address the filtered view; every edit is
// applied to the underlying store by project ID.
type ProjectTable struct {
	store    *state.Projects
	status   string
	notifier types.Notifier
}

// Status returns the status filter, "" for all projects.
func (t *ProjectTable) Status() string { return t.status }

// Schema implements types.Table.
func (t *ProjectTable) Schema() types.Schema { return ProjectSchema() }

// Rows implements types.Table.
func (t *ProjectTable) Rows() []types.Record {
	list := t.store.Filter(t.status)
	out := make([]types.Record, len(list))
	for i, p := range list {
		out[i] = ProjectRecord(p)
	}
	return out
}

// Len implements types.Table.
func (t *ProjectTable) Len() int { return len(t.store.Filter(t.status)) }

// Get implements types.Table.
func (t *ProjectTable) Get(id string) (types.Record, error) {
	p, err := t.store.Get(id)
	if err != nil {
		return types.Record{}, err
	}
	return ProjectRecord(p), nil
}

// Update implements types.Table.
func (t *ProjectTable) Update(row int, key string, value types.Value) error {
	p, err := t.at(row)
	if err != nil {
		return err
	}
	schema := ProjectSchema()
	col, ok := schema.Column(key)
	if !ok {
		return fmt.Errorf("%s: %w", key, types.ErrFieldNotFound)
	}
	if !col.Editable {
		return fmt.Errorf("%s: %w", key, types.ErrNotEditable)
	}
	if err := schema.Check(key, value); err != nil {
		return err
	}
	next, err := t.store.Update(p.ID, projectPatch(key, value))
	if err != nil {
		return err
	}
	*t.store = next
	t.notifier.Notify(types.LevelSuccess, "Project updated")
	return nil
}

// Add implements types.Table. A project added while a status filter is in
// effect takes that status unless partial sets one.
func (t *ProjectTable) Add(partial map[string]types.Value) (types.Record, error) {
	schema := ProjectSchema()
	p := types.Project{Name: "New project", Status: t.status}
	for key, v := range partial {
		if v.IsZero() {
			continue
		}
		if err := schema.Check(key, v); err != nil {
			return types.Record{}, err
		}
		applyProjectField(&p, key, v)
	}
	next, created, err := t.store.Add(p)
	if err != nil {
		return types.Record{}, err
	}
	*t.store = next
	t.notifier.Notify(types.LevelSuccess, "Project added")
	return ProjectRecord(created), nil
}

// Delete implements types.Table.
func (t *ProjectTable) Delete(row int) (types.Record, error) {
	p, err := t.at(row)
	if err != nil {
		return types.Record{}, err
	}
	next, err := t.store.Delete(p.ID)
	if err != nil {
		return types.Record{}, err
	}
	*t.store = next
	t.notifier.Notify(types.LevelSuccess, "Project deleted")
	return ProjectRecord(p), nil
}

func (t *ProjectTable) at(row int) (types.Project, error) {
	list := t.store.Filter(t.status)
	if row < 0 || row >= len(list) {
		return types.Project{}, fmt.Errorf("row %d of %d: %w", row, len(list), types.ErrInvalidIndex)
	}
	return list[row], nil
}

// ProjectRecord flattens a project into a table record.
func ProjectRecord(p types.Project) types.Record {
	return types.Record{
		ID:   p.ID,
		Kind: types.RecordProject,
		Fields: map[string]types.Value{
			"name":          types.Text(p.Name),
			"sector":        types.Text(p.Sector),
			"status":        types.Select(p.Status),
			"progress":      types.Number(float64(p.Progress)),
			"budget":        types.Number(p.Budget),
			"manager":       types.Text(p.Manager),
			"location":      types.Text(p.Location),
			"beneficiaries": types.Number(float64(p.Beneficiaries)),
		},
	}
}

func projectPatch(key string, v types.Value) types.ProjectPatch {
	var p types.ProjectPatch
	switch key {
	case "name":
		s := v.String()
		p.Name = &s
	case "sector":
		s := v.String()
		p.Sector = &s
	case "status":
		s := v.String()
		p.Status = &s
	case "progress":
		n := int(v.Float())
		p.Progress = &n
	case "budget":
		f := v.Float()
		p.Budget = &f
	case "manager":
		s := v.String()
		p.Manager = &s
	case "location":
		s := v.String()
		p.Location = &s
	case "beneficiaries":
		n := int(v.Float())
		p.Beneficiaries = &n
	}
	return p
}

func applyProjectField(p *types.Project, key string, v types.Value) {
	switch key {
	case "name":
		p.Name = v.String()
	case "sector":
		p.Sector = v.String()
	case "status":
		p.Status = v.String()
	case "progress":
		p.Progress = int(v.Float())
	case "budget":
		p.Budget = v.Float()
	case "manager":
		p.Manager = v.String()
	case "location":
		p.Location = v.String()
	case "beneficiaries":
		p.Beneficiaries = int(v.Float())
	}
}
