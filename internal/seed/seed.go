// Package seed provides the constant sample data every store starts from.
// The data is embedded YAML, decoded once per Load call; nothing is
// persisted back.
package seed

import (
	"embed"
	"fmt"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/sectorboard/pkg/types"
)

//go:embed data/*.yaml
var files embed.FS

// Row is one raw record: field key to decoded YAML scalar, plus "id".
type Row map[string]any

// ID returns the row's id as a string.
func (r Row) ID() string {
	if r == nil {
		return ""
	}
	return fmt.Sprint(r["id"])
}

// Fields returns the row without its id.
func (r Row) Fields() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		if k != "id" {
			out[k] = v
		}
	}
	return out
}

// Form is a seeded data-collection form with its field definitions.
type Form struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Sector      string            `yaml:"sector"`
	Active      bool              `yaml:"active"`
	CreatedAt   string            `yaml:"created_at"`
	Responses   int               `yaml:"responses"`
	Fields      []types.FormField `yaml:"fields"`
}

// Submission is a seeded form response. Data is keyed by field label.
type Submission struct {
	ID              string         `yaml:"id"`
	FormID          string         `yaml:"form_id"`
	SubmittedAt     string         `yaml:"submitted_at"`
	SubmittedBy     string         `yaml:"submitted_by"`
	Status          string         `yaml:"status"`
	ValidationNotes string         `yaml:"validation_notes"`
	Data            map[string]any `yaml:"data"`
}

// Data is the complete sample data set.
type Data struct {
	Sectors     []types.SectorConfig
	Projects    []types.Project
	Crops       []Row
	Indicators  []Row
	Activities  []Row
	Forms       []Form
	Submissions []Submission
}

type monitoringFile struct {
	Indicators []Row `yaml:"indicators"`
	Activities []Row `yaml:"activities"`
}

type collectionFile struct {
	Forms       []Form       `yaml:"forms"`
	Submissions []Submission `yaml:"submissions"`
}

// Load decodes the embedded sample data. Each call returns fresh values
// that the caller owns.
func Load() (Data, error) {
	var d Data
	var mon monitoringFile
	var col collectionFile

	targets := []struct {
		name string
		dst  any
	}{
		{"sectors.yaml", &d.Sectors},
		{"projects.yaml", &d.Projects},
		{"crops.yaml", &d.Crops},
		{"monitoring.yaml", &mon},
		{"collection.yaml", &col},
	}
	for _, t := range targets {
		if err := decode(t.name, t.dst); err != nil {
			return Data{}, err
		}
	}

	d.Indicators, d.Activities = mon.Indicators, mon.Activities
	d.Forms, d.Submissions = col.Forms, col.Submissions
	return d, nil
}

// MustLoad is Load for callers that treat broken embedded data as a bug.
func MustLoad() Data {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

func decode(name string, dst any) error {
	data, err := files.ReadFile(path.Join("data", name))
	if err != nil {
		return fmt.Errorf("reading seed %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decoding seed %s: %w", name, err)
	}
	return nil
}
