// Package dashboard wires the feature screens of the monitoring dashboard
// (crop tracking, monitoring and evaluation, data collection and project
// management) to the generic table editor and the project and sector
// stores. A Dashboard is built once from seed data and lives for one
// session; nothing is persisted.
package dashboard

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/sectorboard/internal/seed"
	"github.com/mesh-intelligence/sectorboard/internal/state"
	"github.com/mesh-intelligence/sectorboard/internal/table"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

type config struct {
	notifier types.Notifier
	now      func() time.Time
	newID    func() string
	sector   string
}

func (c config) editorOptions(m table.Messages, extra ...table.Option) []table.Option {
	opts := []table.Option{table.WithNotifier(c.notifier), table.WithMessages(m)}
	if c.newID != nil {
		opts = append(opts, table.WithIDGenerator(c.newID))
	}
	return append(opts, extra...)
}

// Option configures New.
type Option func(*config)

// WithNotifier sets where mutation notifications go.
func WithNotifier(n types.Notifier) Option {
	return func(c *config) { c.notifier = n }
}

// WithClock replaces time.Now for dates stamped on new records.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithIDGenerator replaces the UUID v7 generator for every store.
func WithIDGenerator(gen func() string) Option {
	return func(c *config) { c.newID = gen }
}

// WithSector selects the initial sector. Unknown IDs fall back to the first
// sector.
func WithSector(id string) Option {
	return func(c *config) { c.sector = id }
}

// Dashboard owns every store of one session.
type Dashboard struct {
	Crops      *Crops
	Monitoring *Monitoring
	Collection *Collection

	projects state.Projects
	sectors  state.Sectors
	notifier types.Notifier
}

// New builds a dashboard from seed data.
func New(data seed.Data, opts ...Option) (*Dashboard, error) {
	c := config{
		notifier: types.NopNotifier{},
		now:      time.Now,
		sector:   types.DefaultSector,
	}
	for _, opt := range opts {
		opt(&c)
	}

	crops, err := newCrops(data.Crops, c)
	if err != nil {
		return nil, fmt.Errorf("crops: %w", err)
	}
	mon, err := newMonitoring(data.Indicators, data.Activities, c)
	if err != nil {
		return nil, fmt.Errorf("monitoring: %w", err)
	}
	col, err := newCollection(data.Forms, data.Submissions, c)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}

	var popts []state.ProjectsOption
	if c.newID != nil {
		popts = append(popts, state.WithProjectIDs(c.newID))
	}

	return &Dashboard{
		Crops:      crops,
		Monitoring: mon,
		Collection: col,
		projects:   state.NewProjects(data.Projects, popts...),
		sectors:    state.NewSectors(data.Sectors, c.sector),
		notifier:   c.notifier,
	}, nil
}

// Notifier returns the notifier the dashboard reports to.
func (d *Dashboard) Notifier() types.Notifier { return d.notifier }

// Projects returns the current project state.
func (d *Dashboard) Projects() state.Projects { return d.projects }

// SetProjects replaces the project state with a value derived from
// Projects.
func (d *Dashboard) SetProjects(p state.Projects) { d.projects = p }

// Sectors returns the current sector state.
func (d *Dashboard) Sectors() state.Sectors { return d.sectors }

// SetSectors replaces the sector state with a value derived from Sectors.
func (d *Dashboard) SetSectors(s state.Sectors) { d.sectors = s }

// ProjectTable returns a table over the projects with the given status, or
// over every project when status is "".
// Returns ErrInvalidStatus for an unknown status.
func (d *Dashboard) ProjectTable(status string) (*ProjectTable, error) {
	if status != "" && !types.IsValidProjectStatus(status) {
		return nil, fmt.Errorf("%q: %w", status, types.ErrInvalidStatus)
	}
	return &ProjectTable{store: &d.projects, status: status, notifier: d.notifier}, nil
}

// Table resolves a table by name.
// Returns ErrTableNotFound for an unknown name.
func (d *Dashboard) Table(name string) (types.Table, error) {
	switch name {
	case types.TableCrops:
		return d.Crops, nil
	case types.TableIndicators:
		return d.Monitoring.Indicators, nil
	case types.TableActivities:
		return d.Monitoring.Activities, nil
	case types.TableForms:
		return d.Collection.Forms, nil
	case types.TableSubmissions:
		return d.Collection.Submissions, nil
	case types.TableProjects:
		return &ProjectTable{store: &d.projects, notifier: d.notifier}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, types.ErrTableNotFound)
	}
}

func recordsFromRows(schema types.Schema, rows []seed.Row) ([]types.Record, error) {
	out := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		r, err := schema.NewRecordFromRaw(row.ID(), row.Fields())
		if err != nil {
			return nil, fmt.Errorf("seed row %s: %w", row.ID(), err)
		}
		out = append(out, r)
	}
	return out, nil
}
