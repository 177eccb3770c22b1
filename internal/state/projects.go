// Package state holds the process-wide project and sector stores. Both are
// immutable values: every mutation returns a new value and leaves the
// receiver untouched, so callers own exactly one current state and pass it
// explicitly.
package state

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Projects is the project list plus the currently selected project.
type Projects struct {
	items   []types.Project
	current string
	newID   func() string
	// seen holds every project and activity ID ever held or issued; deleted
	// IDs stay in it.
	seen map[string]bool
}

// ProjectsOption configures NewProjects.
type ProjectsOption func(*Projects)

// WithProjectIDs replaces the UUID v7 generator used for new projects and
// activities.
func WithProjectIDs(gen func() string) ProjectsOption {
	return func(p *Projects) { p.newID = gen }
}

// NewProjects seeds the store. No project is selected.
func NewProjects(seed []types.Project, opts ...ProjectsOption) Projects {
	p := Projects{newID: types.NewID, seen: make(map[string]bool)}
	p.items = make([]types.Project, len(seed))
	for i, s := range seed {
		p.items[i] = s.Clone()
		p.seen[s.ID] = true
		for _, a := range s.Activities {
			p.seen[a.ID] = true
		}
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// List returns a deep copy of every project in insertion order.
func (p Projects) List() []types.Project {
	out := make([]types.Project, len(p.items))
	for i, pr := range p.items {
		out[i] = pr.Clone()
	}
	return out
}

// Len returns the number of projects.
func (p Projects) Len() int { return len(p.items) }

// Get returns the project with the given ID.
// Returns ErrNotFound if there is none.
func (p Projects) Get(id string) (types.Project, error) {
	i := p.indexOf(id)
	if i < 0 {
		return types.Project{}, fmt.Errorf("project %s: %w", id, types.ErrNotFound)
	}
	return p.items[i].Clone(), nil
}

// Filter returns the projects with the given status. An empty status
// returns every project.
func (p Projects) Filter(status string) []types.Project {
	var out []types.Project
	for _, pr := range p.items {
		if status == "" || pr.Status == status {
			out = append(out, pr.Clone())
		}
	}
	return out
}

// Add appends a project with a freshly generated ID. Any ID on the input is
// ignored. An empty status defaults to planning.
// Returns ErrInvalidName for a blank name and ErrInvalidStatus for an
// unknown status.
func (p Projects) Add(in types.Project) (Projects, types.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return p, types.Project{}, types.ErrInvalidName
	}
	if in.Status == "" {
		in.Status = types.ProjectPlanning
	}
	if !types.IsValidProjectStatus(in.Status) {
		return p, types.Project{}, fmt.Errorf("%q: %w", in.Status, types.ErrInvalidStatus)
	}
	next := p.clone()
	id, err := next.issueID()
	if err != nil {
		return p, types.Project{}, err
	}

	created := in.Clone()
	created.ID = id
	for i := range created.Activities {
		aid := created.Activities[i].ID
		if aid == "" || next.seen[aid] {
			if aid, err = next.issueID(); err != nil {
				return p, types.Project{}, err
			}
		}
		next.seen[aid] = true
		created.Activities[i].ID = aid
	}
	next.items = append(next.items, created)
	return next, created.Clone(), nil
}

// Update merges patch into the project with the given ID.
// Returns ErrNotFound if there is none, or the patch's validation error.
func (p Projects) Update(id string, patch types.ProjectPatch) (Projects, error) {
	i := p.indexOf(id)
	if i < 0 {
		return p, fmt.Errorf("project %s: %w", id, types.ErrNotFound)
	}
	updated, err := patch.Apply(p.items[i])
	if err != nil {
		return p, err
	}
	next := p.clone()
	next.items[i] = updated
	return next, nil
}

// Delete removes the project with the given ID. If it was the current
// project, the selection is cleared.
// Returns ErrNotFound if there is none.
func (p Projects) Delete(id string) (Projects, error) {
	i := p.indexOf(id)
	if i < 0 {
		return p, fmt.Errorf("project %s: %w", id, types.ErrNotFound)
	}
	next := p.clone()
	next.items = slices.Delete(next.items, i, i+1)
	if next.current == id {
		next.current = ""
	}
	return next, nil
}

// Select makes the project with the given ID current. An unknown ID clears
// the selection.
func (p Projects) Select(id string) Projects {
	next := p.clone()
	next.current = ""
	if p.indexOf(id) >= 0 {
		next.current = id
	}
	return next
}

// Current returns the selected project, if any. It always reflects the
// latest version of that project.
func (p Projects) Current() (types.Project, bool) {
	if p.current == "" {
		return types.Project{}, false
	}
	pr, err := p.Get(p.current)
	if err != nil {
		return types.Project{}, false
	}
	return pr, true
}

// AddActivity appends an activity with a fresh ID to a project. An empty
// status defaults to not-started.
// Returns ErrNotFound for an unknown project, ErrInvalidName for a blank
// name and ErrInvalidStatus for an unknown status.
func (p Projects) AddActivity(projectID string, a types.Activity) (Projects, types.Activity, error) {
	i := p.indexOf(projectID)
	if i < 0 {
		return p, types.Activity{}, fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	if strings.TrimSpace(a.Name) == "" {
		return p, types.Activity{}, types.ErrInvalidName
	}
	if a.Status == "" {
		a.Status = types.ActivityNotStarted
	}
	if !slices.Contains(types.ActivityStatuses, a.Status) {
		return p, types.Activity{}, fmt.Errorf("%q: %w", a.Status, types.ErrInvalidStatus)
	}
	next := p.clone()
	id, err := next.issueID()
	if err != nil {
		return p, types.Activity{}, err
	}

	created := a.Clone()
	created.ID = id
	next.items[i].Activities = append(next.items[i].Activities, created)
	return next, created.Clone(), nil
}

// UpdateActivity merges patch into one activity of a project.
// Returns ErrNotFound if the project or activity does not exist.
func (p Projects) UpdateActivity(projectID, activityID string, patch types.ActivityPatch) (Projects, error) {
	i := p.indexOf(projectID)
	if i < 0 {
		return p, fmt.Errorf("project %s: %w", projectID, types.ErrNotFound)
	}
	j := slices.IndexFunc(p.items[i].Activities, func(a types.Activity) bool { return a.ID == activityID })
	if j < 0 {
		return p, fmt.Errorf("activity %s: %w", activityID, types.ErrNotFound)
	}
	updated, err := patch.Apply(p.items[i].Activities[j])
	if err != nil {
		return p, err
	}
	next := p.clone()
	next.items[i].Activities[j] = updated
	return next, nil
}

// Progress returns the rounded mean progress of a project's activities, or
// 0 when the project is unknown or has no activities.
func (p Projects) Progress(projectID string) int {
	i := p.indexOf(projectID)
	if i < 0 || len(p.items[i].Activities) == 0 {
		return 0
	}
	total := 0
	for _, a := range p.items[i].Activities {
		total += a.Progress
	}
	return int(math.Round(float64(total) / float64(len(p.items[i].Activities))))
}

// OverallStats aggregates every project.
func (p Projects) OverallStats() types.ProjectStats {
	s := types.ProjectStats{TotalProjects: len(p.items)}
	for _, pr := range p.items {
		switch pr.Status {
		case types.ProjectActive:
			s.ActiveProjects++
		case types.ProjectCompleted:
			s.CompletedProjects++
		}
		s.TotalBudget += pr.Budget
		s.TotalBeneficiaries += pr.Beneficiaries
	}
	return s
}

func (p Projects) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(p.items, func(pr types.Project) bool { return pr.ID == id })
}

// clone returns a copy whose project slice and seen set can be modified
// freely.
func (p Projects) clone() Projects {
	next := p
	next.items = make([]types.Project, len(p.items))
	for i, pr := range p.items {
		next.items[i] = pr.Clone()
	}
	next.seen = maps.Clone(p.seen)
	if next.seen == nil {
		next.seen = make(map[string]bool)
	}
	return next
}

// issueID draws an ID that was never held by a project or activity and
// records it. Call it on a clone only.
func (p *Projects) issueID() (string, error) {
	gen := p.newID
	if gen == nil {
		gen = types.NewID
	}
	for range maxIDAttempts {
		id := gen()
		if id != "" && !p.seen[id] {
			p.seen[id] = true
			return id, nil
		}
	}
	return "", fmt.Errorf("no unused ID after %d attempts: %w", maxIDAttempts, types.ErrInvalidID)
}

const maxIDAttempts = 16
