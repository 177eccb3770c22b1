package state

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Sectors is the set of sector configurations, the selected sector and the
// configuration-mode flag.
type Sectors struct {
	configs      []types.SectorConfig
	currentID    string
	configurable bool
}

// NewSectors seeds the store with currentID selected. currentID need not
// exist; Current falls back to the first sector.
func NewSectors(configs []types.SectorConfig, currentID string) Sectors {
	return Sectors{configs: cloneConfigs(configs), currentID: currentID}
}

// Available returns a deep copy of every sector configuration in order.
func (s Sectors) Available() []types.SectorConfig {
	return cloneConfigs(s.configs)
}

// Get returns the sector with the given ID.
// Returns ErrNotFound if there is none.
func (s Sectors) Get(id string) (types.SectorConfig, error) {
	i := s.indexOf(id)
	if i < 0 {
		return types.SectorConfig{}, fmt.Errorf("sector %s: %w", id, types.ErrNotFound)
	}
	return s.configs[i].Clone(), nil
}

// Current returns the selected sector, or the first sector when the
// selection does not match any. It returns the zero config only when the
// store is empty.
func (s Sectors) Current() types.SectorConfig {
	if i := s.indexOf(s.currentID); i >= 0 {
		return s.configs[i].Clone()
	}
	if len(s.configs) > 0 {
		return s.configs[0].Clone()
	}
	return types.SectorConfig{}
}

// CurrentID returns the ID of the sector Current resolves to.
func (s Sectors) CurrentID() string { return s.Current().ID }

// Switch selects the sector with the given ID.
// Returns ErrNotFound if there is none; the selection is then unchanged.
func (s Sectors) Switch(id string) (Sectors, error) {
	if s.indexOf(id) < 0 {
		return s, fmt.Errorf("sector %s: %w", id, types.ErrNotFound)
	}
	next := s.clone()
	next.currentID = id
	return next, nil
}

// Configurable reports whether configuration mode is on.
func (s Sectors) Configurable() bool { return s.configurable }

// ToggleConfigMode flips configuration mode.
func (s Sectors) ToggleConfigMode() Sectors {
	next := s.clone()
	next.configurable = !s.configurable
	return next
}

// Add appends a sector configuration.
// Returns ErrInvalidID for an empty ID and ErrDuplicateID if the ID is
// taken.
func (s Sectors) Add(c types.SectorConfig) (Sectors, error) {
	if c.ID == "" {
		return s, types.ErrInvalidID
	}
	if s.indexOf(c.ID) >= 0 {
		return s, fmt.Errorf("sector %s: %w", c.ID, types.ErrDuplicateID)
	}
	next := s.clone()
	next.configs = append(next.configs, c.Clone())
	return next, nil
}

// Update merges patch into the sector with the given ID.
// Returns ErrNotFound if there is none.
func (s Sectors) Update(id string, patch types.SectorPatch) (Sectors, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("sector %s: %w", id, types.ErrNotFound)
	}
	next := s.clone()
	next.configs[i] = patch.Apply(s.configs[i])
	return next, nil
}

// Delete removes the sector with the given ID. Deleting the selected sector
// makes Current fall back to the first remaining one.
// Returns ErrNotFound if there is none.
func (s Sectors) Delete(id string) (Sectors, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("sector %s: %w", id, types.ErrNotFound)
	}
	next := s.clone()
	next.configs = slices.Delete(next.configs, i, i+1)
	return next, nil
}

// Module returns the module with the given ID in the current sector.
func (s Sectors) Module(id string) (types.SectorModule, bool) {
	for _, m := range s.Current().Modules {
		if m.ID == id {
			return m, true
		}
	}
	return types.SectorModule{}, false
}

// OverallStats counts sectors and what they declare.
func (s Sectors) OverallStats() types.SectorStats {
	st := types.SectorStats{Sectors: len(s.configs)}
	for _, c := range s.configs {
		st.Modules += len(c.Modules)
		for _, m := range c.Modules {
			st.Fields += len(m.Fields)
			st.Metrics += len(m.Metrics)
		}
		st.Phases += len(c.EvaluationFramework.Phases)
		st.Indicators += len(c.EvaluationFramework.Indicators)
	}
	return st
}

func (s Sectors) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.configs, func(c types.SectorConfig) bool { return c.ID == id })
}

func (s Sectors) clone() Sectors {
	next := s
	next.configs = cloneConfigs(s.configs)
	return next
}

func cloneConfigs(configs []types.SectorConfig) []types.SectorConfig {
	out := make([]types.SectorConfig, len(configs))
	for i, c := range configs {
		out[i] = c.Clone()
	}
	return out
}
