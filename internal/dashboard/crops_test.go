package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

func TestCropsStats(t *testing.T) {
	d, _ := newTestDashboard(t)
	st := d.Crops.Stats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Optimal)
	assert.Equal(t, 1, st.ActionRequired)
	assert.InDelta(t, (85.0+92.0+65.0)/3, st.AverageYield, 1e-9)
}

func TestCropsAddDefaults(t *testing.T) {
	d, rec := newTestDashboard(t)

	r, err := d.Crops.Add(map[string]types.Value{"parcel": types.Text("West parcel")})
	require.NoError(t, err)

	assert.Equal(t, "new-1", r.ID)
	assert.Equal(t, types.Date("2024-06-01"), r.Value("evaluation_date"))
	assert.Equal(t, types.Select("Growth"), r.Value("growth_stage"))
	assert.Equal(t, types.Select("Good"), r.Value("health"))
	assert.Equal(t, types.Select("Medium"), r.Value("priority"))
	assert.Equal(t, types.Select(CropStatusInProgress), r.Value("status"))
	assert.Equal(t, types.Number(0), r.Value("estimated_yield"))
	assert.Equal(t, types.Select(""), r.Value("crop"))

	last, _ := rec.Last()
	assert.Equal(t, "Evaluation added", last.Message)

	st := d.Crops.Stats()
	assert.Equal(t, 4, st.Total)
	assert.InDelta(t, (85.0+92.0+65.0)/4, st.AverageYield, 1e-9)
}

func TestCropsStatsFollowEdits(t *testing.T) {
	d, _ := newTestDashboard(t)

	require.NoError(t, d.Crops.Update(2, "status", types.Select(CropStatusOptimal)))
	st := d.Crops.Stats()
	assert.Equal(t, 2, st.Optimal)
	assert.Equal(t, 0, st.ActionRequired)

	_, err := d.Crops.Delete(0)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Crops.Stats().Total)
	assert.InDelta(t, (92.0+65.0)/2, d.Crops.Stats().AverageYield, 1e-9)
}

func TestCropsRejectsUnknownStage(t *testing.T) {
	d, _ := newTestDashboard(t)
	err := d.Crops.Update(0, "growth_stage", types.Select("Dormant"))
	assert.ErrorIs(t, err, types.ErrInvalidOption)
}
