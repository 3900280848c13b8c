package cli

import (
	"fmt"

	"github.com/aidanlsb/resqpack/internal/check"
	"github.com/aidanlsb/resqpack/internal/epc"
	"github.com/aidanlsb/resqpack/internal/model"
	"github.com/aidanlsb/resqpack/internal/schema"
	"github.com/aidanlsb/resqpack/internal/ui"
)

// readContainer reads and resolves the container at path with the CLI
// logger. Errors are returned already mapped to an error code.
func readContainer(path string) (*epc.Package, check.Issues, error) {
	p, issues, err := epc.Read(path, epc.WithLogger(logger))
	if err != nil {
		return nil, issues, handleError(errorCode(err, ErrContainerInvalid), err, "")
	}
	return p, issues, nil
}

// printIssues writes diagnostics in text mode, errors first.
func printIssues(issues check.Issues) {
	if len(issues) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(ui.Header("Diagnostics"), ui.Hint(ui.ErrorWarningCounts(issues.Errors(), issues.Warnings())))
	for _, level := range []check.Level{check.LevelError, check.LevelWarning} {
		for _, i := range issues {
			if i.Level == level {
				fmt.Println("  " + ui.Issue(i))
			}
		}
	}
}

// diagnosticsError reports a container with error-level diagnostics.
func diagnosticsError(path string, issues check.Issues, suggestion string) error {
	err := fmt.Errorf("%s has %d errors", path, issues.Errors())
	if jsonOutput {
		return handleErrorWithDetails(ErrDiagnosticsFound, err, suggestion, map[string]interface{}{
			"issues": issues,
		})
	}
	printIssues(issues)
	return handleError(ErrDiagnosticsFound, err, suggestion)
}

// partSummary is the JSON form of one top-level object.
type partSummary struct {
	Part       string       `json:"part" yaml:"part"`
	Type       string       `json:"type" yaml:"type"`
	UUID       string       `json:"uuid" yaml:"uuid"`
	Title      string       `json:"title,omitempty" yaml:"title,omitempty"`
	References []refSummary `json:"references,omitempty" yaml:"references,omitempty"`
	Payload    string       `json:"payload,omitempty" yaml:"payload,omitempty"`
}

type refSummary struct {
	UUID     string `json:"uuid" yaml:"uuid"`
	Part     string `json:"part" yaml:"part"`
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
}

func summarize(p *epc.Package) []partSummary {
	objs := p.Graph().Objects()
	out := make([]partSummary, 0, len(objs))
	for _, o := range objs {
		s := partSummary{
			Part:  o.BaseName(),
			Type:  o.Type.Name(),
			UUID:  o.ID(),
			Title: o.Title(),
		}
		if rel, ok := p.PayloadPath(o); ok {
			s.Payload = rel
		}
		o.Walk(func(_ *model.Object, _ schema.Field, v model.Value) bool {
			switch x := v.(type) {
			case *model.Reference:
				s.References = append(s.References, refSummary{
					UUID:     x.UUID,
					Part:     x.BaseName(),
					Title:    x.Title,
					Resolved: x.Resolved(),
				})
			case *model.Object:
				if p.Graph().Contains(x) {
					s.References = append(s.References, refSummary{
						UUID:     x.ID(),
						Part:     x.BaseName(),
						Title:    x.Title(),
						Resolved: true,
					})
					return false
				}
			}
			return true
		})
		out = append(out, s)
	}
	return out
}
