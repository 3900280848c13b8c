package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/resqpack/internal/buildinfo"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	prevRead := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prevRead })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return info, info != nil
	}
}

func TestCurrentVersionInfoFromBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main: debug.Module{
			Path:    "github.com/aidanlsb/resqpack",
			Version: "v1.2.3",
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-02-14T17:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "windows"},
			{Key: "GOARCH", Value: "amd64"},
		},
	})

	info := currentVersionInfo()

	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, "github.com/aidanlsb/resqpack", info.ModulePath)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, "2026-02-14T17:00:00Z", info.CommitTime)
	assert.True(t, info.Modified)
	assert.Equal(t, "go1.23.4", info.GoVersion)
	assert.Equal(t, "windows", info.GOOS)
	assert.Equal(t, "amd64", info.GOARCH)
	assert.Contains(t, info.Schemas, "resqml2")
}

func TestCurrentVersionInfoFallbackWhenBuildInfoMissing(t *testing.T) {
	stubBuildInfo(t, nil)

	info := currentVersionInfo()

	assert.Equal(t, "devel", info.Version)
	assert.Equal(t, defaultModulePath, info.ModulePath)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS, info.GOOS)
	assert.Equal(t, runtime.GOARCH, info.GOARCH)
}

func TestVersionCommandJSONOutput(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main: debug.Module{
			Path:    "github.com/aidanlsb/resqpack",
			Version: "(devel)",
		},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = true

	out := captureStdout(t, func() {
		require.NoError(t, versionCmd.RunE(versionCmd, nil))
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data versionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "out=%s", out)
	assert.True(t, resp.OK)
	assert.Equal(t, "devel", resp.Data.Version)
	assert.Equal(t, "deadbeef", resp.Data.Commit)
	assert.Equal(t, "darwin", resp.Data.GOOS)
	assert.Equal(t, "arm64", resp.Data.GOARCH)
}

func TestCurrentVersionInfoUsesLinkStamps(t *testing.T) {
	stubBuildInfo(t, nil)
	prev := buildinfo.Version
	t.Cleanup(func() { buildinfo.Version = prev })
	buildinfo.Version = "v0.3.0"

	assert.Equal(t, "v0.3.0", currentVersionInfo().Version)
}
