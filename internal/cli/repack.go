package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var (
	repackMedium    string
	repackOverwrite bool
	repackForce     bool
)

type repackResult struct {
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Parts       []string `json:"parts"`
}

var repackCmd = &cobra.Command{
	Use:   "repack <source> <destination>",
	Short: "Rewrite a container in another medium",
	Long: `Reads a container and writes it again, typically to switch between a zip
archive and a loose directory. Payload paths are rewritten so the new
container still points at the existing payload files.

The destination medium is --medium, or the opposite of the source medium.
Containers with error diagnostics are refused unless --force is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		src, dst := args[0], args[1]

		p, issues, err := readContainer(src)
		if err != nil {
			return err
		}
		if issues.HasErrors() && !repackForce {
			return diagnosticsError(src, issues, "Pass --force to repack anyway")
		}

		from := p.Medium()
		to := epc.Archive
		if from == epc.Archive {
			to = epc.Directory
		}
		if repackMedium != "" {
			if to, err = epc.ParseMedium(repackMedium); err != nil {
				return handleError(ErrInvalidInput, err, "Use --medium archive or --medium directory")
			}
		}

		if err := p.Rebase(dst); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		conf := getConfig()
		core := p.CoreProperties()
		creator := conf.Creator
		if creator == "" {
			creator = core.Creator
		}
		opts := []epc.Option{
			epc.WithMedium(to),
			epc.WithOverwrite(repackOverwrite || conf.Overwrite),
			epc.WithCreator(creator),
			epc.WithTitle(core.Title),
			epc.WithLogger(logger),
		}
		if !core.Created.IsZero() {
			opts = append(opts, epc.WithCreated(core.Created))
		}

		if err := p.Write(dst, opts...); err != nil {
			suggestion := ""
			if errors.Is(err, epc.ErrExists) {
				suggestion = "Pass --overwrite or choose another destination"
			}
			return handleError(errorCode(err, ErrFileWriteError), err, suggestion)
		}

		result := repackResult{
			Source:      src,
			Destination: dst,
			From:        from.String(),
			To:          to.String(),
			Parts:       p.Parts(),
		}
		if isJSONOutput() {
			outputSuccessWithWarnings(result, issueWarnings(issues), newMeta(len(result.Parts), start))
			return nil
		}
		fmt.Println(ui.Successf("Repacked %s -> %s %s", ui.FilePath(src), ui.FilePath(dst),
			ui.Hint(fmt.Sprintf("(%s to %s, %d parts)", result.From, result.To, len(result.Parts)))))
		printIssues(issues)
		return nil
	},
}

func init() {
	repackCmd.Flags().StringVar(&repackMedium, "medium", "", "Destination medium: archive or directory")
	repackCmd.Flags().BoolVar(&repackOverwrite, "overwrite", false, "Replace an existing directory container")
	repackCmd.Flags().BoolVar(&repackForce, "force", false, "Repack even when the source has error diagnostics")
	rootCmd.AddCommand(repackCmd)
}
