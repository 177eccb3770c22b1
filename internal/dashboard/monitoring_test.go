package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func TestIndicatorStatus(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{100, IndicatorOnTrack},
		{80, IndicatorOnTrack},
		{79.9, IndicatorAtRisk},
		{60, IndicatorAtRisk},
		{59.9, IndicatorOffTrack},
		{0, IndicatorOffTrack},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IndicatorStatus(tt.progress), "%v", tt.progress)
	}
}

func TestActivityStatus(t *testing.T) {
	tests := []struct {
		progress int
		want     string
	}{
		{120, types.ActivityCompleted},
		{100, types.ActivityCompleted},
		{99, types.ActivityInProgress},
		{50, types.ActivityInProgress},
		{49, types.ActivityDelayed},
		{1, types.ActivityDelayed},
		{0, types.ActivityNotStarted},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ActivityStatus(tt.progress), "%d", tt.progress)
	}
}

func TestSeededIndicatorsKeepStatus(t *testing.T) {
	d, _ := newTestDashboard(t)
	rows := d.Monitoring.Indicators.Rows()
	assert.Equal(t, types.Select(IndicatorAtRisk), rows[2].Value("status"))
	assert.Equal(t, types.Number(85), rows[0].Value("progress"))
	assert.Equal(t, types.Number(56), rows[2].Value("progress"))
}

func TestIndicatorHookRecomputesStatus(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		value      types.Value
		wantStatus string
		wantProg   float64
	}{
		{"current raised", "current", types.Number(70), IndicatorOnTrack, 88},
		{"target raised", "target", types.Number(100), IndicatorOffTrack, 45},
		{"current at risk", "current", types.Number(50), IndicatorAtRisk, 63},
		{"zero target", "target", types.Number(0), IndicatorOffTrack, 0},
		{"unrelated key", "unit", types.Text("percent"), IndicatorAtRisk, 56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDashboard(t)
			require.NoError(t, d.Monitoring.Indicators.Update(2, tt.key, tt.value))
			r, _ := d.Monitoring.Indicators.Row(2)
			assert.Equal(t, types.Select(tt.wantStatus), r.Value("status"))
			assert.Equal(t, types.Number(tt.wantProg), r.Value("progress"))
		})
	}
}

func TestDerivedColumnsAreReadOnly(t *testing.T) {
	d, _ := newTestDashboard(t)
	err := d.Monitoring.Indicators.Update(0, "status", types.Select(IndicatorOffTrack))
	assert.ErrorIs(t, err, types.ErrNotEditable)
	err = d.Monitoring.Activities.Update(0, "progress", types.Number(10))
	assert.ErrorIs(t, err, types.ErrNotEditable)
}

func TestActivityHook(t *testing.T) {
	d, rec := newTestDashboard(t)
	acts := d.Monitoring.Activities

	require.NoError(t, acts.Update(0, "actual", types.Number(100)))
	r, _ := acts.Row(0)
	assert.Equal(t, types.Number(100), r.Value("progress"))
	assert.Equal(t, types.Select(types.ActivityCompleted), r.Value("status"))

	require.NoError(t, acts.Update(0, "planned", types.Number(400)))
	r, _ = acts.Row(0)
	assert.Equal(t, types.Number(25), r.Value("progress"))
	assert.Equal(t, types.Select(types.ActivityDelayed), r.Value("status"))

	require.NoError(t, acts.Update(0, "planned", types.Number(0)))
	r, _ = acts.Row(0)
	assert.Equal(t, types.Number(0), r.Value("progress"))
	assert.Equal(t, types.Select(types.ActivityNotStarted), r.Value("status"))

	last, _ := rec.Last()
	assert.Equal(t, "Activity updated", last.Message)
}

func TestMonitoringAddDefaults(t *testing.T) {
	d, _ := newTestDashboard(t)

	ind, err := d.Monitoring.Indicators.Add(nil)
	require.NoError(t, err)
	assert.Equal(t, types.Text("New indicator"), ind.Value("name"))
	assert.Equal(t, types.Select("Production"), ind.Value("category"))
	assert.Equal(t, types.Date("2024-06-01"), ind.Value("last_update"))
	assert.Equal(t, types.Select(IndicatorOffTrack), ind.Value("status"))

	act, err := d.Monitoring.Activities.Add(map[string]types.Value{
		"planned": types.Number(10),
		"actual":  types.Number(6),
	})
	require.NoError(t, err)
	assert.Equal(t, types.Text("New activity"), act.Value("name"))
	assert.Equal(t, types.Text("Unassigned"), act.Value("responsible"))
	assert.Equal(t, types.Date("2024-06-01"), act.Value("deadline"))
	assert.Equal(t, types.Number(60), act.Value("progress"))
	assert.Equal(t, types.Select(types.ActivityInProgress), act.Value("status"))
}

func TestOverallProgress(t *testing.T) {
	d, _ := newTestDashboard(t)
	assert.Equal(t, 67, d.Monitoring.OverallProgress(), "2 of 3 on track")

	require.NoError(t, d.Monitoring.Indicators.Update(2, "current", types.Number(80)))
	assert.Equal(t, 100, d.Monitoring.OverallProgress())

	for d.Monitoring.Indicators.Len() > 0 {
		_, err := d.Monitoring.Indicators.Delete(0)
		require.NoError(t, err)
	}
	assert.Equal(t, 0, d.Monitoring.OverallProgress())
	assert.Equal(t, MonitoringStats{Indicators: 0, Activities: 3}, d.Monitoring.Stats())
}
