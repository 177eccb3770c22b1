package types

import "slices"

// SectorConfig is a named bundle of modules and an evaluation framework that
// the user selects to tailor the dashboard to one sector.
type SectorConfig struct {
	ID                  string              `json:"id" yaml:"id"`
	Name                string              `json:"name" yaml:"name"`
	Description         string              `json:"description" yaml:"description"`
	Modules             []SectorModule      `json:"modules" yaml:"modules"`
	EvaluationFramework EvaluationFramework `json:"evaluation_framework" yaml:"evaluation_framework"`
}

// SectorModule groups the fields, metrics and activities of one managed
// entity (parcels, schools, health facilities).
type SectorModule struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Icon        string           `json:"icon" yaml:"icon"`
	Description string           `json:"description" yaml:"description"`
	Fields      []ModuleField    `json:"fields" yaml:"fields"`
	Metrics     []ModuleMetric   `json:"metrics" yaml:"metrics"`
	Activities  []ModuleActivity `json:"activities" yaml:"activities"`
}

// ModuleField is a data field captured for a module entity.
type ModuleField struct {
	Key      string    `json:"key" yaml:"key"`
	Label    string    `json:"label" yaml:"label"`
	Kind     ValueKind `json:"type" yaml:"type"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Options  []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Unit     string    `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Metric types.
const (
	MetricKPI       = "kpi"
	MetricTarget    = "target"
	MetricIndicator = "indicator"
)

// ModuleMetric is a tracked measure for a module.
type ModuleMetric struct {
	Key         string   `json:"key" yaml:"key"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type"`
	Calculation string   `json:"calculation,omitempty" yaml:"calculation,omitempty"`
	Target      *float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Unit        string   `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Results-chain levels of a module activity.
const (
	LevelInput   = "input"
	LevelOutput  = "output"
	LevelOutcome = "outcome"
	LevelImpact  = "impact"
)

// ResultLevels lists the results-chain levels in order.
var ResultLevels = []string{LevelInput, LevelOutput, LevelOutcome, LevelImpact}

// ModuleActivity is an activity template attached to a module.
type ModuleActivity struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"`
	Indicators []string `json:"indicators" yaml:"indicators"`
	Baseline   *float64 `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	Target     *float64 `json:"target,omitempty" yaml:"target,omitempty"`
}

// EvaluationFramework is the monitoring and evaluation plan of a sector.
type EvaluationFramework struct {
	Name       string               `json:"name" yaml:"name"`
	Phases     []EvaluationPhase    `json:"phases" yaml:"phases"`
	Indicators []FrameworkIndicator `json:"indicators" yaml:"indicators"`
}

// EvaluationPhase is one stage of an evaluation framework.
type EvaluationPhase struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Timeframe   string   `json:"timeframe" yaml:"timeframe"`
	Activities  []string `json:"activities" yaml:"activities"`
}

// FrameworkIndicator is an indicator declared by a framework.
type FrameworkIndicator struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Type       string   `json:"type" yaml:"type"` // quantitative or qualitative
	DataSource string   `json:"data_source" yaml:"data_source"`
	Frequency  string   `json:"frequency" yaml:"frequency"`
	Target     *float64 `json:"target,omitempty" yaml:"target,omitempty"`
	Baseline   *float64 `json:"baseline,omitempty" yaml:"baseline,omitempty"`
}

// SectorPatch is a partial sector update. Nil members are left unchanged.
type SectorPatch struct {
	Name                *string
	Description         *string
	Modules             []SectorModule
	EvaluationFramework *EvaluationFramework
}

// Apply returns a deep copy of s with the patch merged in. The result
// shares no memory with s or the patch.
func (sp SectorPatch) Apply(s SectorConfig) SectorConfig {
	out := s.Clone()
	setIf(&out.Name, sp.Name)
	setIf(&out.Description, sp.Description)
	if sp.Modules != nil {
		out.Modules = cloneEach(sp.Modules, SectorModule.Clone)
	}
	if sp.EvaluationFramework != nil {
		out.EvaluationFramework = sp.EvaluationFramework.Clone()
	}
	return out
}

// Clone returns a deep copy of the sector configuration.
func (c SectorConfig) Clone() SectorConfig {
	out := c
	out.Modules = cloneEach(c.Modules, SectorModule.Clone)
	out.EvaluationFramework = c.EvaluationFramework.Clone()
	return out
}

// Clone returns a deep copy of the module.
func (m SectorModule) Clone() SectorModule {
	out := m
	out.Fields = cloneEach(m.Fields, func(f ModuleField) ModuleField {
		f.Options = slices.Clone(f.Options)
		return f
	})
	out.Metrics = cloneEach(m.Metrics, func(x ModuleMetric) ModuleMetric {
		x.Target = clonePtr(x.Target)
		return x
	})
	out.Activities = cloneEach(m.Activities, func(a ModuleActivity) ModuleActivity {
		a.Indicators = slices.Clone(a.Indicators)
		a.Baseline = clonePtr(a.Baseline)
		a.Target = clonePtr(a.Target)
		return a
	})
	return out
}

// Clone returns a deep copy of the framework.
func (f EvaluationFramework) Clone() EvaluationFramework {
	out := f
	out.Phases = cloneEach(f.Phases, func(p EvaluationPhase) EvaluationPhase {
		p.Activities = slices.Clone(p.Activities)
		return p
	})
	out.Indicators = cloneEach(f.Indicators, func(i FrameworkIndicator) FrameworkIndicator {
		i.Target = clonePtr(i.Target)
		i.Baseline = clonePtr(i.Baseline)
		return i
	})
	return out
}

// cloneEach copies s element by element with clone. A nil slice stays nil.
func cloneEach[T any](s []T, clone func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = clone(v)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// SectorStats aggregates the sector configurations.
type SectorStats struct {
	Sectors    int `json:"sectors"`
	Modules    int `json:"modules"`
	Fields     int `json:"fields"`
	Metrics    int `json:"metrics"`
	Phases     int `json:"phases"`
	Indicators int `json:"indicators"`
}
