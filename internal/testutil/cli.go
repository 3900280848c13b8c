package testutil

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	buildOnce   sync.Once
	builtBinary string
	buildErr    error
)

// CLIResult is the decoded JSON envelope of one resqpack run.
type CLIResult struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data,omitempty"`
	Error    *CLIError              `json:"error,omitempty"`
	Warnings []CLIWarning           `json:"warnings,omitempty"`
	Meta     *CLIMeta               `json:"meta,omitempty"`

	RawJSON  string `json:"-"`
	ExitCode int    `json:"-"`
}

// CLIError is the error object of a failed run.
type CLIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Suggestion string                 `json:"suggestion,omitempty"`
}

// CLIWarning is one diagnostic reported alongside a result.
type CLIWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Part    string `json:"part,omitempty"`
	Path    string `json:"path,omitempty"`
}

// CLIMeta is the envelope metadata.
type CLIMeta struct {
	Count     int   `json:"count,omitempty"`
	ElapsedMs int64 `json:"elapsed_ms,omitempty"`
}

// BuildCLI compiles ./cmd/resqpack once per test binary and returns its path.
func BuildCLI(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		var root, dir string
		root, buildErr = moduleRoot()
		if buildErr != nil {
			return
		}
		dir, buildErr = os.MkdirTemp("", "resqpack-cli-*")
		if buildErr != nil {
			return
		}
		name := "resqpack"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		builtBinary = filepath.Join(dir, name)
		cmd := exec.Command("go", "build", "-o", builtBinary, "./cmd/resqpack")
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = errors.New(err.Error() + "\n" + string(out))
		}
	})
	require.NoError(t, buildErr, "build resqpack")
	return builtBinary
}

// moduleRoot is the nearest parent of the working directory holding go.mod.
func moduleRoot() (string, error) {
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
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}

// RunCLI runs resqpack with --json in the workspace directory, passing
// --config when the workspace has one. HOME points at the workspace so a
// user config is never read.
func (w *Workspace) RunCLI(args ...string) *CLIResult {
	w.t.Helper()

	argv := []string{"--json"}
	if w.config != "" {
		argv = append(argv, "--config", w.Join("config.toml"))
	}
	cmd := exec.Command(BuildCLI(w.t), append(argv, args...)...)
	cmd.Dir = w.Path
	cmd.Env = append(os.Environ(), "HOME="+w.Path, "XDG_CONFIG_HOME="+w.Path)
	out, err := cmd.Output()

	r := &CLIResult{RawJSON: string(out)}
	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		r.ExitCode = exitErr.ExitCode()
	case err != nil:
		r.ExitCode = -1
	}
	if err := json.Unmarshal(out, r); err != nil {
		r.OK = false
		r.Error = &CLIError{Code: "PARSE_ERROR", Message: err.Error()}
	}
	return r
}

// MustSucceed fails the test unless the run succeeded.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if !r.OK {
		msg := "no error object"
		if r.Error != nil {
			msg = r.Error.Code + ": " + r.Error.Message
		}
		t.Fatalf("expected success, got %s\nraw: %s", msg, r.RawJSON)
	}
	return r
}

// MustFail fails the test unless the run failed with code.
func (r *CLIResult) MustFail(t *testing.T, code string) *CLIResult {
	t.Helper()
	require.False(t, r.OK, "expected %s, got success\nraw: %s", code, r.RawJSON)
	require.NotNil(t, r.Error, "raw: %s", r.RawJSON)
	require.Equal(t, code, r.Error.Code, "message: %s", r.Error.Message)
	return r
}

// MustFailWithMessage fails the test unless the run failed with substr in
// its message or suggestion.
func (r *CLIResult) MustFailWithMessage(t *testing.T, substr string) *CLIResult {
	t.Helper()
	require.False(t, r.OK, "expected failure, got success\nraw: %s", r.RawJSON)
	require.NotNil(t, r.Error, "raw: %s", r.RawJSON)
	require.Contains(t, r.Error.Message+"\n"+r.Error.Suggestion, substr)
	return r
}

// DataList returns Data[key] as a list, or nil.
func (r *CLIResult) DataList(key string) []interface{} {
	list, _ := r.Data[key].([]interface{})
	return list
}

// DataString returns Data[key] as a string, or "".
func (r *CLIResult) DataString(key string) string {
	s, _ := r.Data[key].(string)
	return s
}
