package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

type session struct {
	t         *testing.T
	app       *App
	out, errs *bytes.Buffer
	configDir string
}

func newSession(t *testing.T, input string) *session {
	t.Helper()
	t.Setenv("BOARD_SECTOR", "")
	t.Setenv("BOARD_EXPORT_DIR", "")
	t.Setenv("BOARD_EXPORT_FORMAT", "")
	t.Setenv("BOARD_LOG_LEVEL", "")
	s := &session{t: t, out: &bytes.Buffer{}, errs: &bytes.Buffer{}, configDir: t.TempDir()}
	s.app = NewApp(
		WithIO(strings.NewReader(input), s.out, s.errs),
		WithLogger(zap.NewNop()),
		WithClock(func() time.Time { return fixedNow }),
	)
	return s
}

// run executes one command against the session's App and returns its
// stdout, stderr and exit code.
func (s *session) run(args ...string) (string, string, int) {
	s.t.Helper()
	s.out.Reset()
	s.errs.Reset()
	code := s.app.Run(append([]string{"--config-dir", s.configDir}, args...))
	return s.out.String(), s.errs.String(), code
}

func (s *session) mustRun(args ...string) string {
	s.t.Helper()
	out, errOut, code := s.run(args...)
	require.Equal(s.t, exitSuccess, code, "board %v\nstdout: %s\nstderr: %s", args, out, errOut)
	return out
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func TestVersion(t *testing.T) {
	s := newSession(t, "")
	out := s.mustRun("version")
	assert.Contains(t, out, "board v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInitWritesConfig(t *testing.T) {
	s := newSession(t, "")
	exports := filepath.Join(t.TempDir(), "exports")
	t.Setenv("BOARD_EXPORT_DIR", exports)

	out := s.mustRun("init")
	assert.Contains(t, out, "Board initialized")

	data, err := os.ReadFile(filepath.Join(s.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sector: agriculture")
	assert.DirExists(t, exports)

	// A second init leaves the file alone.
	require.NoError(t, os.WriteFile(filepath.Join(s.configDir, "config.yaml"), []byte("sector: health\n"), 0o644))
	s2 := newSession(t, "")
	s2.configDir = s.configDir
	t.Setenv("BOARD_EXPORT_DIR", exports)
	s2.mustRun("init")
	data, err = os.ReadFile(filepath.Join(s.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sector: health\n", string(data))
}

func TestConfigSelectsSector(t *testing.T) {
	s := newSession(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(s.configDir, "config.yaml"), []byte("sector: health\n"), 0o644))

	out := s.mustRun("--json", "sector", "show")
	got := decode[map[string]any](t, out)
	assert.Equal(t, "health", got["id"])
}

func TestConfigInvalidExportFormat(t *testing.T) {
	s := newSession(t, "")
	require.NoError(t, os.WriteFile(filepath.Join(s.configDir, "config.yaml"), []byte("export_format: pdf\n"), 0o644))

	_, errOut, code := s.run("sector", "list")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "unknown export format")
}

func TestSectorSwitchAndStats(t *testing.T) {
	s := newSession(t, "")
	assert.Contains(t, s.mustRun("sector", "switch", "education"), "Current sector: Education")

	out := s.mustRun("sector", "list")
	assert.Contains(t, out, "education")

	_, errOut, code := s.run("sector", "switch", "mining")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "record not found")

	st := decode[map[string]int](t, s.mustRun("--json", "sector", "stats"))
	assert.Equal(t, 3, st["sectors"])

	assert.Contains(t, s.mustRun("sector", "config-mode"), "Configuration mode on")
	assert.Contains(t, s.mustRun("sector", "config-mode"), "Configuration mode off")
}

func TestTableEditSession(t *testing.T) {
	s := newSession(t, "")

	rows := decode[[]map[string]any](t, s.mustRun("--json", "table", "get", "crops"))
	require.Len(t, rows, 3)

	st := decode[map[string]float64](t, s.mustRun("--json", "table", "stats", "crops"))
	assert.InDelta(t, (85.0+92.0+65.0)/3, st["average_yield"], 1e-9)

	out := s.mustRun("table", "set", "crops", "0", "estimated_yield=70", "parcel=North field")
	assert.Contains(t, out, "North field")
	assert.Contains(t, out, "[success] Evaluation updated")

	st = decode[map[string]float64](t, s.mustRun("--json", "table", "stats", "crops"))
	assert.InDelta(t, (70.0+92.0+65.0)/3, st["average_yield"], 1e-9)

	added := decode[map[string]any](t, s.mustRun("--json", "table", "add", "crops", "crop=Mango"))
	assert.Equal(t, "Mango", added["crop"])
	assert.Equal(t, "2024-06-01", added["evaluation_date"])
	assert.Equal(t, "In progress", added["status"])

	counts := decode[map[string]int](t, s.mustRun("--json", "table", "list"))
	assert.Equal(t, 4, counts["crops"])

	out = s.mustRun("table", "delete", "crops", "3")
	assert.Contains(t, out, "Deleted crops "+added["id"].(string))
}

func TestTableErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown table", []string{"table", "get", "harvests"}, "table not found"},
		{"row out of range", []string{"table", "delete", "crops", "9"}, "row index out of range"},
		{"row not a number", []string{"table", "delete", "crops", "first"}, "row index out of range"},
		{"unknown field", []string{"table", "set", "crops", "0", "colour=red"}, "field not found"},
		{"bad option", []string{"table", "set", "crops", "0", "crop=Coffee"}, "not one of the column options"},
		{"not key=value", []string{"table", "add", "crops", "Mango"}, "want key=value"},
		{"read-only column", []string{"table", "set", "indicators", "0", "progress=10"}, "not editable"},
		{"form without fields", []string{"table", "add", "forms", "name=Bare"}, "add at least one field"},
		{"submission without form", []string{"table", "add", "submissions"}, "submitting a form"},
		{"status filter elsewhere", []string{"table", "get", "crops", "--status", "active"}, "--status applies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, "")
			out, errOut, code := s.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, errOut, tt.want)
			assert.NotContains(t, out, "[success]")
		})
	}
}

func TestProjects(t *testing.T) {
	s := newSession(t, "")

	assert.Equal(t, "68%\n", s.mustRun("project", "progress", "1"))

	created := decode[map[string]any](t, s.mustRun("--json", "project", "add", "Irrigation", "--budget", "10000", "--beneficiaries", "40"))
	id := created["id"].(string)
	assert.Equal(t, "planning", created["status"])
	assert.Equal(t, "agriculture", created["sector"], "defaults to the current sector")

	st := decode[map[string]float64](t, s.mustRun("--json", "project", "stats"))
	assert.Equal(t, 3.0, st["total_projects"])
	assert.Equal(t, 360000.0, st["total_budget"])

	out := s.mustRun("project", "set", id, "status=active", "manager=A. Diallo")
	assert.Contains(t, out, "A. Diallo")

	active := decode[[]map[string]any](t, s.mustRun("--json", "project", "list", "--status", "active"))
	assert.Len(t, active, 3)

	act := decode[map[string]any](t, s.mustRun("--json", "project", "activity", "add", id, "Dig wells"))
	s.mustRun("project", "activity", "set", id, act["id"].(string), "--progress", "50")
	assert.Equal(t, "50%\n", s.mustRun("project", "progress", id))

	assert.Contains(t, s.mustRun("project", "select", id), "Irrigation")
	s.mustRun("project", "delete", id)
	assert.Contains(t, s.mustRun("project", "select", id), "No project selected")

	_, errOut, code := s.run("project", "list", "--status", "paused")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "invalid status")
}

func TestFormBuildAndSubmit(t *testing.T) {
	s := newSession(t, "")

	out := s.mustRun("form", "build", "Water survey",
		"--field", "text:Village:required",
		"--field", "select:Source:options=Well|River|Tap",
		"--field", "boolean:Treated")
	assert.Contains(t, out, "with 3 fields")
	assert.Contains(t, out, "Village *")
	assert.Contains(t, out, "Well | River | Tap")

	stats := decode[map[string]int](t, s.mustRun("--json", "table", "stats", "forms"))
	assert.Equal(t, 3, stats["forms"])

	sub := decode[map[string]any](t, s.mustRun("--json", "form", "submit", "1", "--by", "Surveyor C",
		"Farmer name=Paul", "Farmed area (ha)=4.5", "Crop type=Banana"))
	assert.Equal(t, "submitted", sub["status"])

	stats = decode[map[string]int](t, s.mustRun("--json", "table", "stats", "forms"))
	assert.Equal(t, 45+12+1, stats["total_responses"])
	assert.Equal(t, 2, stats["pending"])

	answers := decode[map[string]any](t, s.mustRun("--json", "form", "answers", sub["id"].(string)))
	assert.Equal(t, 4.5, answers["Farmed area (ha)"])

	out = s.mustRun("form", "validate", sub["id"].(string))
	assert.Contains(t, out, "[success] Entry validated")
	out = s.mustRun("form", "reject", "2", "--notes", "Area missing")
	assert.Contains(t, out, "[error] Entry rejected")
	assert.Contains(t, out, "Area missing")

	_, errOut, code := s.run("form", "submit", "1", "Farmer name=Paul")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "required answer missing")
}

func TestFormDraftSession(t *testing.T) {
	s := newSession(t, "")

	_, errOut, code := s.run("form", "save")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "form name is required")

	s.mustRun("form", "name", "Survey", "--description", "Household survey")
	_, errOut, code = s.run("form", "save")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "add at least one field")

	out := s.mustRun("form", "field", "add", "select")
	assert.Contains(t, out, "Option 1 | Option 2")
	out = s.mustRun("form", "field", "set", "0", "--label", "Household size", "--type", "number", "--required")
	assert.Contains(t, out, "Household size *")

	draft := decode[map[string]any](t, s.mustRun("--json", "form", "preview"))
	assert.Equal(t, "Survey", draft["name"])
	assert.Len(t, draft["fields"], 1)

	assert.Contains(t, s.mustRun("form", "save"), "with 1 fields")
	after := decode[map[string]any](t, s.mustRun("--json", "form", "preview"))
	assert.Equal(t, "", after["name"], "builder is cleared after saving")

	_, _, code = s.run("form", "field", "remove", "0")
	assert.Equal(t, exitUserError, code)
}

func TestExport(t *testing.T) {
	s := newSession(t, "")
	path := filepath.Join(t.TempDir(), "out", "crops.jsonl")

	got := decode[map[string]any](t, s.mustRun("--json", "export", "crops", "--format", "jsonl", "--file", path))
	assert.Equal(t, path, got["path"])
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))

	dir := t.TempDir()
	s.mustRun("export", "all", "--format", "sqlite", "--out", dir)
	assert.FileExists(t, filepath.Join(dir, "board-20240601-093000.db"))

	_, _, code := s.run("export", "crops", "--format", "pdf")
	assert.Equal(t, exitUserError, code)
}

func TestShell(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"sector switch health",
		`table set crops 0 "notes=needs water"`,
		"--json table get crops 1",
		"table get nowhere",
		"shell",
		"sector show",
		"exit",
		"sector switch education",
	}, "\n")
	s := newSession(t, input)

	out := s.mustRun("shell")
	assert.Contains(t, out, shellPrompt)
	assert.Contains(t, out, "Current sector: Health")
	assert.Contains(t, out, "needs water")
	assert.Contains(t, out, "Health (current)", "state carries across lines")
	assert.NotContains(t, out, "Education", "input after exit is ignored")
	assert.Contains(t, s.errs.String(), "table not found")
	assert.Contains(t, s.errs.String(), "already in a shell")
}

func TestShellQuoting(t *testing.T) {
	input := strings.Join([]string{
		`table set crops 0 'parcel=North field' notes=needs\ water`,
		`table set crops 1 "notes=it's dry" # trailing note`,
		`table set crops 2 "notes=unfinished`,
		`--json table get crops`,
	}, "\n")
	s := newSession(t, input)

	out := s.mustRun("shell")
	assert.Contains(t, s.errs.String(), "closing quote")

	i := strings.LastIndex(out, shellPrompt+"[")
	j := strings.LastIndex(out, "]")
	require.True(t, i >= 0 && j > i, "output: %s", out)
	i += len(shellPrompt)
	rows := decode[[]map[string]any](t, out[i:j+1])
	require.Len(t, rows, 3)
	assert.Equal(t, "North field", rows[0]["parcel"])
	assert.Equal(t, "needs water", rows[0]["notes"])
	assert.Equal(t, "it's dry", rows[1]["notes"])
	assert.NotEqual(t, "unfinished", rows[2]["notes"])
}

func TestTableSetAllOrNothing(t *testing.T) {
	s := newSession(t, "table set indicators 0 name=Changed progress=5\n")
	before := decode[[]map[string]any](t, s.mustRun("--json", "table", "get", "indicators"))
	require.NotEmpty(t, before)

	_, errOut, code := s.run("table", "set", "indicators", "0", "name=Changed", "progress=5")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, errOut, "not editable")

	s.mustRun("shell")
	assert.Contains(t, s.errs.String(), "not editable")

	after := decode[[]map[string]any](t, s.mustRun("--json", "table", "get", "indicators"))
	assert.Equal(t, before[0]["name"], after[0]["name"])
	assert.NotEqual(t, "Changed", after[0]["name"])
}
