package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/epc"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, `creator = "unit"
originator = "tester"
medium = "directory"
overwrite = true

[index]
path = "/tmp/parts.db"

[ui]
accent = "39"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "unit", cfg.Creator)
	assert.Equal(t, "tester", cfg.Originator)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, "39", cfg.UI.Accent)

	m, err := cfg.ContainerMedium()
	require.NoError(t, err)
	assert.Equal(t, epc.Directory, m)
	assert.Equal(t, "/tmp/parts.db", cfg.IndexPath("grid.epc"))
}

func TestLoadFromRejectsBadInput(t *testing.T) {
	t.Run("malformed toml", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, "creator = \n"))
		assert.Error(t, err)
	})

	t.Run("unknown medium", func(t *testing.T) {
		_, err := LoadFrom(writeConfig(t, `medium = "tape"`))
		assert.ErrorContains(t, err, "tape")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
		assert.Error(t, err)
	})
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	m, err := cfg.ContainerMedium()
	require.NoError(t, err)
	assert.Equal(t, epc.Archive, m)
	assert.Equal(t, filepath.Join("out", "grid.epc.index.db"), cfg.IndexPath(filepath.Join("out", "grid.epc")))

	opts, err := cfg.WriteOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
	assert.Len(t, cfg.FactoryOptions(), 2)
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	got, err := CreateDefault(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)

	require.NoError(t, os.WriteFile(path, []byte(`creator = "kept"`), 0o644))
	_, err = CreateDefault(path)
	require.NoError(t, err)
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "kept", cfg.Creator)
}
