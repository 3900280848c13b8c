package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/config"
)

// runConfig runs a config subcommand against path in JSON mode.
func runConfig(t *testing.T, path string, args ...string) (Response, error) {
	t.Helper()
	resetFlags(t)
	return runJSON(t, append([]string{"--config", path, "config"}, args...)...)
}

func TestConfigInitCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	resp, err := runConfig(t, path, "init")
	require.NoError(t, err)
	data := dataMap(t, resp)
	assert.Equal(t, path, data["config_path"])
	assert.Equal(t, true, data["created"])
	assert.FileExists(t, path)

	resp, err = runConfig(t, path, "init")
	require.NoError(t, err)
	assert.Equal(t, false, dataMap(t, resp)["created"])
}

func TestConfigShowMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	resp, err := runConfig(t, path, "show")
	require.NoError(t, err)
	data := dataMap(t, resp)
	assert.Equal(t, false, data["exists"])
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigSetAndUnset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	resp, err := runConfig(t, path, "set", "medium=directory", "overwrite=true", "creator=Field team", "ui.accent=39")
	require.NoError(t, err)
	assert.ElementsMatch(t, []interface{}{"medium", "overwrite", "creator", "ui.accent"}, dataMap(t, resp)["changed"])

	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "directory", loaded.Medium)
	assert.True(t, loaded.Overwrite)
	assert.Equal(t, "Field team", loaded.Creator)
	assert.Equal(t, "39", loaded.UI.Accent)

	_, err = runConfig(t, path, "unset", "overwrite", "ui.accent")
	require.NoError(t, err)
	loaded, err = config.LoadFrom(path)
	require.NoError(t, err)
	assert.False(t, loaded.Overwrite)
	assert.Empty(t, loaded.UI.Accent)
	assert.Equal(t, "directory", loaded.Medium)

	resp, err = runConfig(t, path, "show")
	require.NoError(t, err)
	values, ok := dataMap(t, resp)["values"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Field team", values["creator"])
	assert.Equal(t, "false", values["overwrite"])
}

func TestConfigSetRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	for _, arg := range []string{"medium=tape", "overwrite=maybe", "ui.accent=blurple", "ui.code_theme=nope", "colour=red", "medium", "creator="} {
		t.Run(arg, func(t *testing.T) {
			resp, err := runConfig(t, path, "set", arg)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidInput, errorCodeOf(t, resp))
		})
	}
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected values must not create the file")
}

func TestConfigCommandsRepairInvalidConfig(t *testing.T) {
	path := writeConfig(t, "creator = \"x\"\nmedium = \"tape\"\n")

	resp, err := runConfig(t, path, "show")
	require.NoError(t, err)
	values, ok := dataMap(t, resp)["values"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tape", values["medium"])

	resp, err = runConfig(t, path, "set", "creator=y")
	require.Error(t, err)
	assert.Equal(t, ErrConfigInvalid, errorCodeOf(t, resp))

	_, err = runConfig(t, path, "unset", "medium")
	require.NoError(t, err)
	loaded, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "x", loaded.Creator)
	assert.Empty(t, loaded.Medium)

	_, err = runConfig(t, path, "set", "medium=archive")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("creator = [\n"), 0o644))
	resp, err = runConfig(t, path, "show")
	require.Error(t, err)
	assert.Equal(t, ErrConfigInvalid, errorCodeOf(t, resp))
}
