package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/buildinfo"
	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/resqpack"

type versionInfo struct {
	Version    string   `json:"version"`
	ModulePath string   `json:"module_path"`
	Commit     string   `json:"commit,omitempty"`
	CommitTime string   `json:"commit_time,omitempty"`
	Modified   bool     `json:"modified"`
	GoVersion  string   `json:"go_version"`
	GOOS       string   `json:"goos"`
	GOARCH     string   `json:"goarch"`
	Schemas    []string `json:"schemas"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version, build and schema information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()
		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}

		fmt.Println(ui.Header("resqpack " + info.Version))
		tbl := ui.NewTable(2)
		tbl.AddRow(ui.Hint("module"), info.ModulePath)
		if info.Commit != "" {
			commit := info.Commit
			if info.Modified {
				commit += " (modified)"
			}
			tbl.AddRow(ui.Hint("commit"), commit)
		}
		if info.CommitTime != "" {
			tbl.AddRow(ui.Hint("built"), info.CommitTime)
		}
		tbl.AddRow(ui.Hint("go"), fmt.Sprintf("%s %s/%s", info.GoVersion, info.GOOS, info.GOARCH))
		tbl.AddRow(ui.Hint("schemas"), strings.Join(info.Schemas, ", "))
		fmt.Print(tbl.String())
		return nil
	},
}

// currentVersionInfo reads the embedded build information, falling back to
// link-time stamps and the running toolchain.
func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	for _, m := range catalog.Modules() {
		info.Schemas = append(info.Schemas, m.Name)
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		set := func(dst *string, v string) {
			if v != "" {
				*dst = v
			}
		}
		set(&info.ModulePath, bi.Main.Path)
		set(&info.GoVersion, bi.GoVersion)
		set(&info.GOOS, settings["GOOS"])
		set(&info.GOARCH, settings["GOARCH"])
		info.Version = normalizeVersion(bi.Main.Version)
		info.Commit = settings["vcs.revision"]
		info.CommitTime = settings["vcs.time"]
		info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
	}

	if buildinfo.Stamped() {
		if info.Version == "devel" && buildinfo.Version != "" {
			info.Version = normalizeVersion(buildinfo.Version)
		}
		if info.Commit == "" {
			info.Commit = buildinfo.Commit
		}
		if info.CommitTime == "" {
			info.CommitTime = buildinfo.Date
		}
	}
	return info
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
