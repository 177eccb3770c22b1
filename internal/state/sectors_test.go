package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func sampleSectors() []types.SectorConfig {
	return []types.SectorConfig{
		{
			ID: "agriculture", Name: "Agriculture",
			Modules: []types.SectorModule{
				{ID: "parcels", Name: "Parcels", Fields: []types.ModuleField{{Key: "area"}, {Key: "crop"}}, Metrics: []types.ModuleMetric{{Key: "yield"}}},
				{ID: "livestock", Name: "Livestock"},
			},
			EvaluationFramework: types.EvaluationFramework{
				Phases:     []types.EvaluationPhase{{ID: "baseline"}, {ID: "midterm"}},
				Indicators: []types.FrameworkIndicator{{ID: "yield"}},
			},
		},
		{
			ID: "education", Name: "Education",
			Modules: []types.SectorModule{{ID: "schools", Name: "Schools", Fields: []types.ModuleField{{Key: "students"}}}},
		},
		{ID: "health", Name: "Health"},
	}
}

func TestSectorsCurrentFallsBackToFirst(t *testing.T) {
	tests := []struct {
		name    string
		current string
		want    string
	}{
		{"known", "education", "education"},
		{"unknown", "fisheries", "agriculture"},
		{"empty", "", "agriculture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSectors(sampleSectors(), tt.current)
			assert.Equal(t, tt.want, s.Current().ID)
			assert.Equal(t, tt.want, s.CurrentID())
		})
	}

	assert.Equal(t, types.SectorConfig{}, NewSectors(nil, "x").Current())
}

func TestSectorsSwitch(t *testing.T) {
	s := NewSectors(sampleSectors(), "agriculture")

	next, err := s.Switch("health")
	require.NoError(t, err)
	assert.Equal(t, "health", next.Current().ID)
	assert.Equal(t, "agriculture", s.Current().ID, "receiver unchanged")

	same, err := s.Switch("fisheries")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, "agriculture", same.Current().ID)
}

func TestSectorsToggleConfigMode(t *testing.T) {
	s := NewSectors(sampleSectors(), "")
	assert.False(t, s.Configurable())
	on := s.ToggleConfigMode()
	assert.True(t, on.Configurable())
	assert.False(t, on.ToggleConfigMode().Configurable())
	assert.False(t, s.Configurable())
}

func TestSectorsCRUD(t *testing.T) {
	s := NewSectors(sampleSectors(), "health")

	s2, err := s.Add(types.SectorConfig{ID: "water", Name: "Water"})
	require.NoError(t, err)
	assert.Len(t, s2.Available(), 4)
	assert.Len(t, s.Available(), 3)

	_, err = s2.Add(types.SectorConfig{ID: "water"})
	assert.ErrorIs(t, err, types.ErrDuplicateID)
	_, err = s2.Add(types.SectorConfig{})
	assert.ErrorIs(t, err, types.ErrInvalidID)

	s3, err := s2.Update("water", types.SectorPatch{Name: ptr("Water & sanitation")})
	require.NoError(t, err)
	got, err := s3.Get("water")
	require.NoError(t, err)
	assert.Equal(t, "Water & sanitation", got.Name)

	_, err = s3.Update("fisheries", types.SectorPatch{})
	assert.ErrorIs(t, err, types.ErrNotFound)

	s4, err := s3.Delete("health")
	require.NoError(t, err)
	assert.Equal(t, "agriculture", s4.Current().ID, "deleted current falls back to first")

	_, err = s4.Delete("health")
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = s4.Get("health")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSectorsModule(t *testing.T) {
	s := NewSectors(sampleSectors(), "agriculture")
	m, ok := s.Module("livestock")
	require.True(t, ok)
	assert.Equal(t, "Livestock", m.Name)

	_, ok = s.Module("schools")
	assert.False(t, ok, "module of another sector")
}

func TestSectorsOverallStats(t *testing.T) {
	s := NewSectors(sampleSectors(), "")
	assert.Equal(t, types.SectorStats{
		Sectors:    3,
		Modules:    3,
		Fields:     3,
		Metrics:    1,
		Phases:     2,
		Indicators: 1,
	}, s.OverallStats())
}

func TestSectorsReadsAreDeepCopies(t *testing.T) {
	seedCfg := sampleSectors()
	s := NewSectors(seedCfg, "agriculture")

	seedCfg[0].Modules[0].Name = "changed by caller"

	av := s.Available()
	av[0].Modules[0].Name = "HACKED"
	av[0].Modules[0].Fields[0].Key = "HACKED"
	av[0].EvaluationFramework.Phases[0].ID = "HACKED"

	cur := s.Current()
	cur.Modules[1].Name = "HACKED"
	cur.EvaluationFramework.Indicators[0].ID = "HACKED"

	got, err := s.Get("education")
	require.NoError(t, err)
	got.Modules[0].Fields[0].Key = "HACKED"

	m, ok := s.Module("parcels")
	require.True(t, ok)
	m.Fields[1].Key = "HACKED"

	want := sampleSectors()
	for i, c := range s.Available() {
		assert.Equal(t, want[i], c)
	}
}

func TestSectorsMutationsShareNothing(t *testing.T) {
	s := NewSectors(sampleSectors(), "agriculture")
	modules := []types.SectorModule{{ID: "wells", Name: "Wells", Fields: []types.ModuleField{{Key: "depth"}}}}

	next, err := s.Update("health", types.SectorPatch{Modules: modules})
	require.NoError(t, err)
	modules[0].Fields[0].Key = "HACKED"

	health, err := next.Get("health")
	require.NoError(t, err)
	assert.Equal(t, "depth", health.Modules[0].Fields[0].Key)

	switched, err := next.Switch("agriculture")
	require.NoError(t, err)
	av := switched.Available()
	av[0].Modules[0].Fields[0].Key = "HACKED"
	assert.Equal(t, "area", next.Current().Modules[0].Fields[0].Key)
}
