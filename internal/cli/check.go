package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var checkStrict bool

type checkResult struct {
	Path     string       `json:"path"`
	Parts    int          `json:"parts"`
	Errors   int          `json:"errors"`
	Warnings int          `json:"warnings"`
	Issues   check.Issues `json:"issues"`
}

var checkCmd = &cobra.Command{
	Use:   "check <container>",
	Short: "Validate a container",
	Long: `Reads a container, resolves its references and reports diagnostics:
unknown types, cardinality violations, invalid values, dangling references,
duplicate identifiers, unreadable parts and manifest mismatches.

Exits non-zero when any error is found, or any warning with --strict.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		p, issues, err := readContainer(args[0])
		if err != nil {
			return err
		}

		if issues.HasErrors() || (checkStrict && len(issues) > 0) {
			return diagnosticsError(args[0], issues, "Run 'resqpack inspect' to see the affected parts")
		}

		result := checkResult{
			Path:     args[0],
			Parts:    p.Graph().Len(),
			Errors:   issues.Errors(),
			Warnings: issues.Warnings(),
			Issues:   issues,
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(result, issueWarnings(issues), newMeta(len(issues), start))
			return nil
		}

		if len(issues) == 0 {
			fmt.Println(ui.Successf("%s: %d parts, no issues", ui.FilePath(args[0]), result.Parts))
			return nil
		}
		fmt.Println(ui.Successf("%s: %d parts %s", ui.FilePath(args[0]), result.Parts, ui.ErrorWarningCounts(0, result.Warnings)))
		printIssues(issues)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as errors")
	rootCmd.AddCommand(checkCmd)
}
