// Package integration runs the board binary end to end.
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var (
	// boardBin is the path to the built board binary.
	boardBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot walks up from the working directory to the go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// TestEnv is an isolated config and export directory pair.
type TestEnv struct {
	t         *testing.T
	TempDir   string
	Config    string
	ExportDir string
}

// NewTestEnv creates a test environment with a config.yaml pointing exports
// into the temp directory.
func NewTestEnv(t *testing.T, extraConfig string) *TestEnv {
	t.Helper()
	if buildErr != nil {
		t.Fatalf("failed to build board: %v", buildErr)
	}
	if boardBin == "" {
		t.Fatal("board binary not built")
	}

	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	exportDir := filepath.Join(tempDir, "exports")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	content := "export_dir: " + exportDir + "\nlog_level: error\n" + extraConfig
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return &TestEnv{t: t, TempDir: tempDir, Config: configDir, ExportDir: exportDir}
}

// CmdResult holds the result of one board execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run executes board with args and, when stdin is non-empty, feeds it to the
// process.
func (e *TestEnv) Run(stdin string, args ...string) CmdResult {
	e.t.Helper()
	cmd := exec.Command(boardBin, append([]string{"--config-dir", e.Config}, args...)...)
	cmd.Env = cleanEnv()
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	code := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			e.t.Fatalf("failed to run board: %v", err)
		}
		code = exitErr.ExitCode()
	}
	return CmdResult{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: code}
}

// MustRun executes board and fails the test on a non-zero exit.
func (e *TestEnv) MustRun(args ...string) CmdResult {
	e.t.Helper()
	r := e.Run("", args...)
	if r.ExitCode != 0 {
		e.t.Fatalf("board %v failed with exit code %d:\nstdout: %s\nstderr: %s", args, r.ExitCode, r.Stdout, r.Stderr)
	}
	return r
}

// ParseJSON parses JSON output into T.
func ParseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", s, err)
	}
	return v
}

// cleanEnv drops BOARD_* variables so the host cannot leak settings into a
// test.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "BOARD_") {
			env = append(env, kv)
		}
	}
	return env
}
