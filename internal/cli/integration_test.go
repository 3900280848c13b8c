//go:build integration

package cli_test

import (
	"testing"

	"github.com/aidanlsb/resqpack/internal/testutil"
)

func TestIntegration_GridLifecycle(t *testing.T) {
	w := testutil.NewWorkspace(t).
		WithConfig(testutil.MinimalConfig()).
		Build()

	r := w.RunCLI("grid", "--title", "North Sand", "--nk", "3",
		"--property", "porosity=0.05:0.25:porosity:Euc",
		"--categorical", "facies=Shale,Sand").MustSucceed(t)
	if got := r.DataString("path"); got != "north-sand" {
		t.Fatalf("expected container named after the title, got %q", got)
	}
	if got := r.DataString("medium"); got != "directory" {
		t.Errorf("expected medium from config, got %q", got)
	}
	r.AssertResultCount(t, "parts", 5)
	r.AssertResultCount(t, "datasets", 2)
	w.AssertDirExists("north-sand")
	w.AssertFileExists("north-sand/[Content_Types].xml")
	w.AssertFileExists("north-sand/_rels/.rels")
	w.AssertFileExists("north-sand/docProps/core.xml")
	w.AssertFileExists("north-sand.h5")
	w.AssertFileContains("north-sand/docProps/core.xml", "resqpack tests")

	r = w.RunCLI("inspect", "north-sand").MustSucceed(t)
	r.AssertNoWarnings(t)
	r.AssertResultCount(t, "parts", 5)

	w.RunCLI("check", "north-sand", "--strict").MustSucceed(t)

	r = w.RunCLI("repack", "north-sand", "north-sand.epc").MustSucceed(t)
	if got := r.DataString("to"); got != "archive" {
		t.Errorf("expected archive target, got %q", got)
	}
	w.AssertFileExists("north-sand.epc")

	w.RunCLI("inspect", "north-sand.epc").MustSucceed(t).AssertNoWarnings(t)

	r = w.RunCLI("index", "north-sand.epc").MustSucceed(t)
	r.AssertResultCount(t, "parts", 5)
	w.AssertFileExists("north-sand.epc.index.db")
}

func TestIntegration_Failures(t *testing.T) {
	w := testutil.NewWorkspace(t).
		WithConfig(testutil.MinimalConfig()).
		WithFile("junk.epc", "not a zip").
		Build()

	r := w.RunCLI("inspect", "missing.epc").MustFail(t, "CONTAINER_NOT_FOUND")
	if r.ExitCode == 0 {
		t.Errorf("expected non-zero exit code")
	}
	w.RunCLI("inspect", "junk.epc").MustFail(t, "CONTAINER_INVALID")

	w.RunCLI("grid", "twice").MustSucceed(t)
	w.RunCLI("grid", "twice").MustFailWithMessage(t, "--overwrite")
	w.RunCLI("grid", "twice", "--overwrite").MustSucceed(t)

	w.RunCLI("schema", "NoSuchType").MustFail(t, "TYPE_NOT_FOUND")
	w.RunCLI("grid", "--ni", "0").MustFail(t, "INVALID_INPUT")
}
