package dashboard

import (
	"github.com/mesh-intelligence/sectorboard/internal/seed"
	"github.com/mesh-intelligence/sectorboard/internal/table"
	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

// Crop evaluation statuses that feed the statistics.
const (
	CropStatusInProgress     = "In progress"
	CropStatusOptimal        = "Optimal"
	CropStatusActionRequired = "Action required"
	CropStatusDone           = "Done"
)

// CropSchema returns the columns of the crop evaluation table.
func CropSchema() types.Schema {
	return types.Schema{
		Kind: types.RecordCropEvaluation,
		Columns: []types.Column{
			{Key: "crop", Label: "Crop", Kind: types.KindSelect, Editable: true,
				Options: []string{"Sugar cane", "Banana", "Pineapple", "Mango", "Papaya", "Yam"}},
			{Key: "parcel", Label: "Parcel", Kind: types.KindText, Editable: true},
			{Key: "evaluation_date", Label: "Evaluation date", Kind: types.KindDate, Editable: true},
			{Key: "growth_stage", Label: "Growth stage", Kind: types.KindSelect, Editable: true,
				Options: []string{"Sowing", "Germination", "Growth", "Tillering", "Stem elongation", "Flowering", "Ripening", "Harvest"}},
			{Key: "health", Label: "Health", Kind: types.KindSelect, Editable: true,
				Options: []string{"Excellent", "Good", "Fair", "Concerning", "Critical"}},
			{Key: "estimated_yield", Label: "Yield (%)", Kind: types.KindNumber, Editable: true, Unit: "%"},
			{Key: "issues", Label: "Identified issues", Kind: types.KindText, Editable: true},
			{Key: "recommended_actions", Label: "Recommended actions", Kind: types.KindText, Editable: true},
			{Key: "priority", Label: "Priority", Kind: types.KindSelect, Editable: true,
				Options: []string{"Low", "Medium", "High", "Urgent"}},
			{Key: "status", Label: "Status", Kind: types.KindSelect, Editable: true,
				Options: []string{CropStatusInProgress, CropStatusOptimal, CropStatusActionRequired, CropStatusDone}},
			{Key: "next_follow_up", Label: "Next follow-up", Kind: types.KindDate, Editable: true},
			{Key: "notes", Label: "Notes", Kind: types.KindText, Editable: true},
		},
	}
}

// Crops is the crop evaluation screen.
type Crops struct {
	*table.Editor
}

// CropStats summarises the crop evaluations.
type CropStats struct {
	Total          int     `json:"total"`
	Optimal        int     `json:"optimal"`
	ActionRequired int     `json:"action_required"`
	AverageYield   float64 `json:"average_yield"`
}

func newCrops(rows []seed.Row, c config) (*Crops, error) {
	schema := CropSchema()
	records, err := recordsFromRows(schema, rows)
	if err != nil {
		return nil, err
	}
	ed := table.New(schema, records, c.editorOptions(
		table.Messages{Updated: "Evaluation updated", Added: "Evaluation added", Deleted: "Evaluation deleted"},
		table.WithAddDefaultsFunc(func() map[string]types.Value {
			return map[string]types.Value{
				"evaluation_date": types.DateOf(c.now()),
				"growth_stage":    types.Select("Growth"),
				"health":          types.Select("Good"),
				"priority":        types.Select("Medium"),
				"status":          types.Select(CropStatusInProgress),
			}
		}),
	)...)
	return &Crops{Editor: ed}, nil
}

// Stats recomputes the crop statistics from the current rows.
func (c *Crops) Stats() CropStats {
	rows := c.Rows()
	return CropStats{
		Total:          len(rows),
		Optimal:        table.CountWhere(rows, "status", types.Select(CropStatusOptimal)),
		ActionRequired: table.CountWhere(rows, "status", types.Select(CropStatusActionRequired)),
		AverageYield:   table.Average(rows, "estimated_yield"),
	}
}
