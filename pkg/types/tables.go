package types

// Standard table names resolved by the dashboard.
const (
	TableCrops       = "crops"
	TableIndicators  = "indicators"
	TableActivities  = "activities"
	TableForms       = "forms"
	TableSubmissions = "submissions"
	TableProjects    = "projects"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TableCrops,
	TableIndicators,
	TableActivities,
	TableForms,
	TableSubmissions,
	TableProjects,
}

// RecordKind identifies which feature a record belongs to.
type RecordKind string

// Record kinds, one per feature record store.
const (
	RecordCropEvaluation RecordKind = "crop_evaluation"
	RecordIndicator      RecordKind = "indicator"
	RecordActivity       RecordKind = "activity"
	RecordProject        RecordKind = "project"
	RecordForm           RecordKind = "form"
	RecordSubmission     RecordKind = "submission"
)
