package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertFileExists checks that a workspace file exists.
func (w *Workspace) AssertFileExists(relPath string) {
	w.t.Helper()
	assert.FileExists(w.t, w.Join(relPath))
}

// AssertFileNotExists checks that a workspace path does not exist.
func (w *Workspace) AssertFileNotExists(relPath string) {
	w.t.Helper()
	assert.NoFileExists(w.t, w.Join(relPath))
}

// AssertDirExists checks that a workspace directory exists.
func (w *Workspace) AssertDirExists(relPath string) {
	w.t.Helper()
	assert.DirExists(w.t, w.Join(relPath))
}

// AssertFileContains checks that a workspace file contains substr.
func (w *Workspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	assert.Contains(w.t, w.ReadFile(relPath), substr, relPath)
}

// AssertHasWarning checks that the result carries a warning with code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	codes := make([]string, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, code)
}

// AssertNoWarnings checks that the result carries no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	assert.Empty(t, r.Warnings)
}

// AssertResultCount checks the length of the list Data[key].
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	assert.Len(t, r.DataList(key), expected, "raw: %s", r.RawJSON)
}
