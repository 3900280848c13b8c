// Package testutil provides reusable fixtures for container tests: a test
// schema module, deterministic object factories and a temporary workspace
// with file assertions and a CLI runner.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Workspace is a temporary directory holding containers under test.
type Workspace struct {
	Path   string
	t      *testing.T
	config string
	files  map[string]string
}

// NewWorkspace creates a new workspace builder.
// Call Build() to create the actual directory.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithConfig sets the config.toml content used by RunCLI.
func (w *Workspace) WithConfig(toml string) *Workspace {
	w.config = toml
	return w
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (w *Workspace) WithFile(path, content string) *Workspace {
	w.files[path] = content
	return w
}

// Build creates the workspace directory and all configured files.
func (w *Workspace) Build() *Workspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	if w.config != "" {
		w.writeFile("config.toml", w.config)
	}
	for path, content := range w.files {
		w.writeFile(path, content)
	}
	return w
}

// Join returns the absolute path of a workspace-relative path.
func (w *Workspace) Join(relPath string) string {
	return filepath.Join(w.Path, relPath)
}

func (w *Workspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := w.Join(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a workspace file.
func (w *Workspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(w.Join(relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *Workspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(w.Join(relPath))
	return err == nil
}

// MinimalConfig returns a config writing loose directory containers.
func MinimalConfig() string {
	return `creator = "resqpack tests"
originator = "tester"
medium = "directory"
`
}
