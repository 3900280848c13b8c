package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aidanlsb/resqpack/internal/catalog"
	"github.com/aidanlsb/resqpack/internal/schema"
	"github.com/aidanlsb/resqpack/internal/slugs"
	"github.com/aidanlsb/resqpack/internal/ui"
)

var (
	schemaYAML   bool
	schemaModule string
)

var schemaCmd = &cobra.Command{
	Use:   "schema [type]",
	Short: "Describe the compiled-in type catalogue",
	Long: `Without arguments, lists every registered type by module. With a type name
(local like "IjkGridRepresentation" or qualified like "resqml2:IjkGridRepresentation"),
describes its fields, base type and concrete subtypes.

--yaml exports the descriptions as YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := catalog.Registry()

		var docs []schema.TypeDoc
		if len(args) == 1 {
			t, ok := findType(reg, args[0])
			if !ok {
				return handleError(ErrTypeNotFound, fmt.Errorf("unknown type %q", args[0]), "Run 'resqpack schema' to list types")
			}
			docs = []schema.TypeDoc{reg.Describe(t)}
		} else {
			for _, d := range reg.Catalogue() {
				if schemaModule == "" || d.Module == schemaModule {
					docs = append(docs, d)
				}
			}
		}

		switch {
		case isJSONOutput():
			if len(args) == 1 {
				outputSuccess(docs[0], nil)
			} else {
				outputSuccess(map[string]interface{}{"types": docs}, &Meta{Count: len(docs)})
			}
			return nil
		case schemaYAML:
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			var v interface{} = docs
			if len(args) == 1 {
				v = docs[0]
			}
			if err := enc.Encode(v); err != nil {
				return handleError(ErrInternal, err, "")
			}
			return enc.Close()
		}

		var md string
		if len(args) == 1 {
			md = typeMarkdown(docs[0])
		} else {
			md = catalogueMarkdown(docs)
		}
		display := ui.NewDisplayContext()
		if !display.IsTTY {
			fmt.Print(md)
			return nil
		}
		rendered, err := ui.RenderMarkdown(md, display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(rendered)
		return nil
	},
}

// findType looks a type up by qualified, expanded or local name. Local
// names match the first registered type of that name.
func findType(reg *schema.Registry, name string) (schema.Type, bool) {
	if t, ok := reg.Lookup(name); ok {
		return t, true
	}
	for _, t := range reg.Types() {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}
	return nil, false
}

func catalogueMarkdown(docs []schema.TypeDoc) string {
	var b strings.Builder
	module := "\x00"
	for _, d := range docs {
		if d.Module != module {
			module = d.Module
			fmt.Fprintf(&b, "\n## %s\n\n", valueOr(module, "unregistered"))
			b.WriteString("| type | kind | base |\n|---|---|---|\n")
		}
		name := "`" + d.Qualified + "`"
		if d.Abstract {
			name += " *(abstract)*"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", name, d.Kind, d.Base)
	}
	return strings.TrimPrefix(b.String(), "\n")
}

func typeMarkdown(d schema.TypeDoc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	fmt.Fprintf(&b, "- qualified: `%s`\n", d.Qualified)
	if d.Namespace != "" {
		fmt.Fprintf(&b, "- namespace: %s\n", d.Namespace)
	}
	fmt.Fprintf(&b, "- kind: %s\n", d.Kind)
	if d.Module != "" {
		fmt.Fprintf(&b, "- module: %s\n", d.Module)
	}
	if d.Base != "" {
		fmt.Fprintf(&b, "- base: [%s](#%s)\n", d.Base, slugs.Anchor(d.Base))
	}
	if d.Abstract {
		b.WriteString("- abstract\n")
	}
	if d.ContentType != "" {
		fmt.Fprintf(&b, "- content type: `%s`\n", d.ContentType)
	}
	if d.Lexical != "" {
		fmt.Fprintf(&b, "- lexical space: %s\n", d.Lexical)
	}
	if len(d.Symbols) > 0 {
		fmt.Fprintf(&b, "- symbols: %s\n", strings.Join(d.Symbols, ", "))
	}

	if len(d.Fields) > 0 {
		b.WriteString("\n## Fields\n\n| field | type | cardinality | encoding |\n|---|---|---|---|\n")
		for _, f := range d.Fields {
			name := f.Name
			if f.Inherited {
				name += " *(inherited)*"
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s | %s |\n", name, f.Type, f.Cardinality, f.Encoding)
		}
	}
	if len(d.Subtypes) > 0 {
		b.WriteString("\n## Subtypes\n\n")
		for _, s := range d.Subtypes {
			fmt.Fprintf(&b, "- `%s`\n", s)
		}
	}
	return b.String()
}

func init() {
	schemaCmd.Flags().BoolVar(&schemaYAML, "yaml", false, "Export descriptions as YAML")
	schemaCmd.Flags().StringVar(&schemaModule, "module", "", "Only list types of this module")
	rootCmd.AddCommand(schemaCmd)
}
