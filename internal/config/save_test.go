package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	in := &Config{
		Creator:    " unit ",
		Originator: "tester",
		Medium:     "directory",
		Overwrite:  true,
		Index:      IndexConfig{Path: "parts.db"},
		UI:         UIConfig{Accent: "#ff8800"},
	}
	require.NoError(t, SaveTo(path, in))

	out, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Creator:    "unit",
		Originator: "tester",
		Medium:     "directory",
		Overwrite:  true,
		Index:      IndexConfig{Path: "parts.db"},
		UI:         UIConfig{Accent: "#ff8800"},
	}, out)
}

func TestSaveToOmitsEmptySettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTo(path, &Config{Creator: "unit"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `creator = "unit"`)
	for _, key := range []string{"medium", "overwrite", "[index]", "[ui]"} {
		assert.NotContains(t, string(data), key)
	}
}

func TestSaveToRequiresPath(t *testing.T) {
	assert.Error(t, SaveTo("  ", &Config{}))
}
