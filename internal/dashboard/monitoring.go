package dashboard

import (
	"math"
	"slices"

	"github.com/mesh-intelligence/sectorboard/internal/seed"
	"github.com/mesh-intelligence/sectorboard/internal/table"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Indicator statuses.
const (
	IndicatorOnTrack  = "on-track"
	IndicatorAtRisk   = "at-risk"
	IndicatorOffTrack = "off-track"
)

// Thresholds on progress percentage.
const (
	onTrackAt = 80
	atRiskAt  = 60
)

var (
	indicatorInputs = []string{"baseline", "target", "current"}
	activityInputs  = []string{"planned", "actual"}
)

// IndicatorSchema returns the columns of the indicator table. Progress and
// status are derived and cannot be edited directly.
func IndicatorSchema() types.Schema {
	return types.Schema{
		Kind: types.RecordIndicator,
		Columns: []types.Column{
			{Key: "name", Label: "Indicator", Kind: types.KindText, Editable: true},
			{Key: "category", Label: "Category", Kind: types.KindSelect, Editable: true,
				Options: []string{"Production", "Economic", "Environment", "Social"}},
			{Key: "baseline", Label: "Baseline", Kind: types.KindNumber, Editable: true},
			{Key: "target", Label: "Target", Kind: types.KindNumber, Editable: true},
			{Key: "current", Label: "Current", Kind: types.KindNumber, Editable: true},
			{Key: "unit", Label: "Unit", Kind: types.KindText, Editable: true},
			{Key: "progress", Label: "Progress (%)", Kind: types.KindNumber, Unit: "%"},
			{Key: "status", Label: "Status", Kind: types.KindSelect,
				Options: []string{IndicatorOnTrack, IndicatorAtRisk, IndicatorOffTrack}},
			{Key: "data_source", Label: "Data source", Kind: types.KindText, Editable: true},
			{Key: "frequency", Label: "Frequency", Kind: types.KindText, Editable: true},
			{Key: "last_update", Label: "Last update", Kind: types.KindDate, Editable: true},
			{Key: "trend", Label: "Trend", Kind: types.KindSelect, Editable: true,
				Options: []string{"up", "down", "stable"}},
		},
	}
}

// ActivitySchema returns the columns of the monitored activity table.
func ActivitySchema() types.Schema {
	return types.Schema{
		Kind: types.RecordActivity,
		Columns: []types.Column{
			{Key: "name", Label: "Activity", Kind: types.KindText, Editable: true},
			{Key: "type", Label: "Type", Kind: types.KindSelect, Editable: true, Options: types.ResultLevels},
			{Key: "planned", Label: "Planned", Kind: types.KindNumber, Editable: true},
			{Key: "actual", Label: "Actual", Kind: types.KindNumber, Editable: true},
			{Key: "unit", Label: "Unit", Kind: types.KindText, Editable: true},
			{Key: "progress", Label: "Progress (%)", Kind: types.KindNumber, Unit: "%"},
			{Key: "deadline", Label: "Deadline", Kind: types.KindDate, Editable: true},
			{Key: "responsible", Label: "Responsible", Kind: types.KindText, Editable: true},
			{Key: "status", Label: "Status", Kind: types.KindSelect, Options: types.ActivityStatuses},
		},
	}
}

// Monitoring is the monitoring and evaluation screen: indicators and the
// activities of the results chain.
type Monitoring struct {
	Indicators *table.Editor
	Activities *table.Editor
}

// MonitoringStats are the headline figures of the screen.
type MonitoringStats struct {
	OverallProgress int `json:"overall_progress"`
	Indicators      int `json:"indicators"`
	Activities      int `json:"activities"`
}

func newMonitoring(indicators, activities []seed.Row, c config) (*Monitoring, error) {
	is := IndicatorSchema()
	irecs, err := recordsFromRows(is, indicators)
	if err != nil {
		return nil, err
	}
	// Seeded statuses are kept as given; only progress is derived on load.
	for i, r := range irecs {
		irecs[i] = r.With("progress", types.Number(float64(IndicatorProgress(r))))
	}

	as := ActivitySchema()
	arecs, err := recordsFromRows(as, activities)
	if err != nil {
		return nil, err
	}

	m := &Monitoring{
		Indicators: table.New(is, irecs, c.editorOptions(
			table.Messages{Updated: "Indicator updated", Added: "Indicator added", Deleted: "Indicator deleted"},
			table.WithUpdateHook(indicatorHook),
			table.WithAddHook(deriveIndicator),
			table.WithAddDefaultsFunc(func() map[string]types.Value {
				return map[string]types.Value{
					"name":        types.Text("New indicator"),
					"category":    types.Select("Production"),
					"data_source": types.Text("Manual"),
					"frequency":   types.Text("Monthly"),
					"last_update": types.DateOf(c.now()),
					"trend":       types.Select("stable"),
				}
			}),
		)...),
		Activities: table.New(as, arecs, c.editorOptions(
			table.Messages{Updated: "Activity updated", Added: "Activity added", Deleted: "Activity deleted"},
			table.WithUpdateHook(activityHook),
			table.WithAddHook(deriveActivity),
			table.WithAddDefaultsFunc(func() map[string]types.Value {
				return map[string]types.Value{
					"name":        types.Text("New activity"),
					"type":        types.Select(types.LevelInput),
					"deadline":    types.DateOf(c.now()),
					"responsible": types.Text("Unassigned"),
				}
			}),
		)...),
	}
	return m, nil
}

// IndicatorProgress returns current as a whole percentage of target, or 0
// when the target is 0.
func IndicatorProgress(r types.Record) int {
	return table.Percent(r.Value("current").Float(), r.Value("target").Float())
}

// IndicatorStatus classifies a progress percentage.
func IndicatorStatus(progress float64) string {
	switch {
	case progress >= onTrackAt:
		return IndicatorOnTrack
	case progress >= atRiskAt:
		return IndicatorAtRisk
	default:
		return IndicatorOffTrack
	}
}

// ActivityStatus classifies an activity progress percentage.
func ActivityStatus(progress int) string {
	switch {
	case progress >= 100:
		return types.ActivityCompleted
	case progress >= 50:
		return types.ActivityInProgress
	case progress > 0:
		return types.ActivityDelayed
	default:
		return types.ActivityNotStarted
	}
}

func indicatorHook(r types.Record, key string) types.Record {
	if !slices.Contains(indicatorInputs, key) {
		return r
	}
	return deriveIndicator(r)
}

// deriveIndicator classifies on the unrounded ratio so 79.6% stays at-risk.
func deriveIndicator(r types.Record) types.Record {
	var exact float64
	if target := r.Value("target").Float(); target != 0 {
		exact = r.Value("current").Float() / target * 100
	}
	return r.
		With("progress", types.Number(float64(IndicatorProgress(r)))).
		With("status", types.Select(IndicatorStatus(exact)))
}

func activityHook(r types.Record, key string) types.Record {
	if !slices.Contains(activityInputs, key) {
		return r
	}
	return deriveActivity(r)
}

func deriveActivity(r types.Record) types.Record {
	progress := 0
	if planned := r.Value("planned").Float(); planned != 0 {
		progress = int(math.Round(r.Value("actual").Float() / planned * 100))
	}
	return r.
		With("progress", types.Number(float64(progress))).
		With("status", types.Select(ActivityStatus(progress)))
}

// OverallProgress returns the share of indicators that are on track, as a
// whole percentage. An empty indicator list yields 0.
func (m *Monitoring) OverallProgress() int {
	rows := m.Indicators.Rows()
	onTrack := table.CountWhere(rows, "status", types.Select(IndicatorOnTrack))
	return table.Percent(float64(onTrack), float64(len(rows)))
}

// Stats returns the headline figures.
func (m *Monitoring) Stats() MonitoringStats {
	return MonitoringStats{
		OverallProgress: m.OverallProgress(),
		Indicators:      m.Indicators.Len(),
		Activities:      m.Activities.Len(),
	}
}
