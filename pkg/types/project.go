package types

// Project states.
const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectCompleted = "completed"
	ProjectSuspended = "suspended"
)

// ProjectStatuses lists the project states in display order.
var ProjectStatuses = []string{ProjectPlanning, ProjectActive, ProjectCompleted, ProjectSuspended}

// Activity states.
const (
	ActivityNotStarted = "not-started"
	ActivityInProgress = "in-progress"
	ActivityCompleted  = "completed"
	ActivityDelayed    = "delayed"
)

// ActivityStatuses lists the activity states in display order.
var ActivityStatuses = []string{ActivityNotStarted, ActivityInProgress, ActivityCompleted, ActivityDelayed}

// Project is a tracked development project and its planned activities.
type Project struct {
	ID            string     `json:"id" yaml:"id"`
	Name          string     `json:"name" yaml:"name"`
	Description   string     `json:"description" yaml:"description"`
	StartDate     string     `json:"start_date" yaml:"start_date"`
	EndDate       string     `json:"end_date" yaml:"end_date"`
	Status        string     `json:"status" yaml:"status"`
	Progress      int        `json:"progress" yaml:"progress"`
	Budget        float64    `json:"budget" yaml:"budget"`
	Sector        string     `json:"sector" yaml:"sector"`
	Location      string     `json:"location" yaml:"location"`
	Manager       string     `json:"manager" yaml:"manager"`
	Objectives    []string   `json:"objectives" yaml:"objectives"`
	Activities    []Activity `json:"activities" yaml:"activities"`
	Beneficiaries int        `json:"beneficiaries" yaml:"beneficiaries"`
}

// Activity is one planned piece of work inside a project.
type Activity struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	StartDate    string   `json:"start_date" yaml:"start_date"`
	EndDate      string   `json:"end_date" yaml:"end_date"`
	Status       string   `json:"status" yaml:"status"`
	Progress     int      `json:"progress" yaml:"progress"`
	Responsible  string   `json:"responsible" yaml:"responsible"`
	Indicators   []string `json:"indicators" yaml:"indicators"`
	Budget       float64  `json:"budget" yaml:"budget"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Objectives = append([]string(nil), p.Objectives...)
	out.Activities = make([]Activity, len(p.Activities))
	for i, a := range p.Activities {
		out.Activities[i] = a.Clone()
	}
	return out
}

// Clone returns a deep copy of the activity.
func (a Activity) Clone() Activity {
	out := a
	out.Indicators = append([]string(nil), a.Indicators...)
	out.Dependencies = append([]string(nil), a.Dependencies...)
	return out
}

// ProjectPatch is a partial project update. Nil members are left unchanged.
type ProjectPatch struct {
	Name          *string
	Description   *string
	StartDate     *string
	EndDate       *string
	Status        *string
	Progress      *int
	Budget        *float64
	Sector        *string
	Location      *string
	Manager       *string
	Objectives    []string
	Beneficiaries *int
}

// Apply returns p with the patch merged in.
// Returns ErrInvalidStatus if the patch sets an unknown status.
func (pp ProjectPatch) Apply(p Project) (Project, error) {
	out := p.Clone()
	if pp.Status != nil {
		if !isOneOf(*pp.Status, ProjectStatuses) {
			return p, ErrInvalidStatus
		}
		out.Status = *pp.Status
	}
	setIf(&out.Name, pp.Name)
	setIf(&out.Description, pp.Description)
	setIf(&out.StartDate, pp.StartDate)
	setIf(&out.EndDate, pp.EndDate)
	setIf(&out.Progress, pp.Progress)
	setIf(&out.Budget, pp.Budget)
	setIf(&out.Sector, pp.Sector)
	setIf(&out.Location, pp.Location)
	setIf(&out.Manager, pp.Manager)
	setIf(&out.Beneficiaries, pp.Beneficiaries)
	if pp.Objectives != nil {
		out.Objectives = append([]string(nil), pp.Objectives...)
	}
	return out, nil
}

// ActivityPatch is a partial activity update. Nil members are left unchanged.
type ActivityPatch struct {
	Name         *string
	Description  *string
	StartDate    *string
	EndDate      *string
	Status       *string
	Progress     *int
	Responsible  *string
	Indicators   []string
	Budget       *float64
	Dependencies []string
}

// Apply returns a with the patch merged in.
// Returns ErrInvalidStatus if the patch sets an unknown status.
func (ap ActivityPatch) Apply(a Activity) (Activity, error) {
	out := a.Clone()
	if ap.Status != nil {
		if !isOneOf(*ap.Status, ActivityStatuses) {
			return a, ErrInvalidStatus
		}
		out.Status = *ap.Status
	}
	setIf(&out.Name, ap.Name)
	setIf(&out.Description, ap.Description)
	setIf(&out.StartDate, ap.StartDate)
	setIf(&out.EndDate, ap.EndDate)
	setIf(&out.Progress, ap.Progress)
	setIf(&out.Responsible, ap.Responsible)
	setIf(&out.Budget, ap.Budget)
	if ap.Indicators != nil {
		out.Indicators = append([]string(nil), ap.Indicators...)
	}
	if ap.Dependencies != nil {
		out.Dependencies = append([]string(nil), ap.Dependencies...)
	}
	return out, nil
}

// ProjectStats aggregates the project list.
type ProjectStats struct {
	TotalProjects      int     `json:"total_projects"`
	ActiveProjects     int     `json:"active_projects"`
	CompletedProjects  int     `json:"completed_projects"`
	TotalBudget        float64 `json:"total_budget"`
	TotalBeneficiaries int     `json:"total_beneficiaries"`
}

// IsValidProjectStatus reports whether s is a recognized project state.
func IsValidProjectStatus(s string) bool {
	return isOneOf(s, ProjectStatuses)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func isOneOf(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
