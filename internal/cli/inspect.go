package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/schema"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var inspectYAML bool

type inspectResult struct {
	Path    string        `json:"path"`
	Medium  string        `json:"medium"`
	Creator string        `json:"creator,omitempty"`
	Created string        `json:"created,omitempty"`
	Title   string        `json:"title,omitempty"`
	Parts   []partSummary `json:"parts"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <container>",
	Short: "List the parts and references of a container",
	Long: `Reads a container, resolves its references and lists every part with the
references it holds. Diagnostics are reported as warnings.

With --yaml, every object is dumped as a YAML document in field order.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		p, issues, err := readContainer(args[0])
		if err != nil {
			return err
		}

		if inspectYAML {
			return dumpYAML(p)
		}

		core := p.CoreProperties()
		result := inspectResult{
			Path:    p.Location(),
			Medium:  p.Medium().String(),
			Creator: core.Creator,
			Title:   core.Title,
			Parts:   summarize(p),
		}
		if !core.Created.IsZero() {
			result.Created = schema.FormatDateTime(core.Created)
		}

		if isJSONOutput() {
			outputSuccessWithWarnings(result, issueWarnings(issues), newMeta(len(result.Parts), start))
			return nil
		}

		fmt.Printf("%s %s\n", ui.Header("Container"), ui.FilePath(result.Path))
		fmt.Println(ui.Hint(fmt.Sprintf("%s, %d parts, created %s by %s",
			result.Medium, len(result.Parts), valueOr(result.Created, "unknown"), valueOr(result.Creator, "unknown"))))
		fmt.Println()

		tbl := ui.NewTable(3)
		tbl.SetHeader("type", "title", "uuid")
		for _, s := range result.Parts {
			tbl.AddRow(ui.Accent.Render(s.Type), s.Title, ui.Hint(s.UUID))
		}
		fmt.Print(tbl.String())

		for _, s := range result.Parts {
			if len(s.References) == 0 && s.Payload == "" {
				continue
			}
			fmt.Println()
			fmt.Println(ui.Bold.Render(s.Part))
			list := ui.NewList()
			for _, r := range s.References {
				mark := ui.SymbolSuccess
				if !r.Resolved {
					mark = ui.SymbolError
				}
				list.Add(fmt.Sprintf("%s %s %s", mark, r.Part, ui.Hint(r.Title)))
			}
			if s.Payload != "" {
				list.Add("payload " + ui.FilePath(s.Payload))
			}
			fmt.Print(list.String())
		}

		printIssues(issues)
		return nil
	},
}

// dumpYAML writes one YAML document per object.
func dumpYAML(p *epc.Package) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	for _, o := range p.Graph().Objects() {
		if err := enc.Encode(outline(o, p.Graph())); err != nil {
			return handleError(ErrInternal, err, "")
		}
	}
	return enc.Close()
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectYAML, "yaml", false, "Dump objects as YAML documents")
	rootCmd.AddCommand(inspectCmd)
}
