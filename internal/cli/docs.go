package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	builtindocs "github.com/aidanlsb/resqpack/docs"
	"github.com/aidanlsb/resqpack/internal/slugs"
	"github.com/aidanlsb/resqpack/internal/ui"
)

const docsIndexPath = "index.yaml"

var (
	docsSearchLimit   int
	docsSearchSection string

	docsDisplayContext = ui.NewDisplayContext
	docsMarkdownRender = ui.RenderMarkdown
)

type docsIndex struct {
	Sections []docsSection `yaml:"sections"`
}

type docsSection struct {
	ID     string      `yaml:"id" json:"id"`
	Title  string      `yaml:"title" json:"title"`
	Topics []docsTopic `yaml:"topics" json:"topics"`
}

type docsTopic struct {
	ID    string `yaml:"id" json:"id"`
	Title string `yaml:"title" json:"title"`
}

func (s docsSection) topicPath(t docsTopic) string {
	return path.Join(s.ID, t.ID+".md")
}

type docsSearchMatch struct {
	Section string `json:"section"`
	Topic   string `json:"topic"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [section] [topic]",
	Short: "Browse bundled documentation",
	Long: `Browse long-form documentation bundled into the resqpack binary.

Examples:
  resqpack docs
  resqpack docs guide
  resqpack docs guide containers
  resqpack docs search payload`,
	Args: cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := loadDocsIndex(builtindocs.FS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if len(args) == 0 {
			return outputDocsSections(index.Sections)
		}

		section, ok := index.section(args[0])
		if !ok {
			return handleError(ErrInvalidInput, fmt.Errorf("unknown docs section: %s", args[0]),
				fmt.Sprintf("Available sections: %s", strings.Join(index.sectionIDs(), ", ")))
		}
		if len(args) == 1 {
			return outputDocsTopics(section)
		}

		topic, ok := section.topic(args[1])
		if !ok {
			return handleError(ErrInvalidInput, fmt.Errorf("unknown topic %q in section %q", args[1], section.ID),
				fmt.Sprintf("Run 'resqpack docs %s' to list topics", section.ID))
		}
		return outputDocsTopic(builtindocs.FS, section, topic)
	},
}

var docsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search bundled documentation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return handleError(ErrInvalidInput, fmt.Errorf("specify a search query"), "Usage: resqpack docs search <query>")
		}
		if docsSearchLimit < 1 {
			return handleError(ErrInvalidInput, fmt.Errorf("--limit must be >= 1"), "")
		}

		index, err := loadDocsIndex(builtindocs.FS)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		matches, err := searchDocs(builtindocs.FS, index, query, docsSearchSection, docsSearchLimit)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Run 'resqpack docs' to list sections")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"query":   query,
				"matches": matches,
			}, &Meta{Count: len(matches)})
			return nil
		}
		if len(matches) == 0 {
			fmt.Printf("No docs matched %q.\n", query)
			return nil
		}
		fmt.Printf("Matches for %q (%d):\n", query, len(matches))
		for _, m := range matches {
			fmt.Printf("- %s/%s:%d %s\n", m.Section, m.Topic, m.Line, m.Snippet)
		}
		return nil
	},
}

func loadDocsIndex(fsys fs.FS) (*docsIndex, error) {
	raw, err := fs.ReadFile(fsys, docsIndexPath)
	if err != nil {
		return nil, fmt.Errorf("read docs index: %w", err)
	}
	var index docsIndex
	if err := yaml.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}
	if len(index.Sections) == 0 {
		return nil, fmt.Errorf("docs index has no sections")
	}
	return &index, nil
}

// section finds a section by id. Titles and spaced spellings match too.
func (d *docsIndex) section(name string) (docsSection, bool) {
	want := slugs.Anchor(name)
	for _, s := range d.Sections {
		if s.ID == want || slugs.Anchor(s.Title) == want {
			return s, true
		}
	}
	return docsSection{}, false
}

func (d *docsIndex) sectionIDs() []string {
	ids := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		ids = append(ids, s.ID)
	}
	return ids
}

func (s docsSection) topic(name string) (docsTopic, bool) {
	want := slugs.Anchor(strings.ReplaceAll(name, "_", "-"))
	for _, t := range s.Topics {
		if t.ID == want {
			return t, true
		}
	}
	return docsTopic{}, false
}

func outputDocsSections(sections []docsSection) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"sections": sections}, &Meta{Count: len(sections)})
		return nil
	}
	fmt.Println("Documentation sections:")
	for _, s := range sections {
		fmt.Printf("  %-32s %s %s\n", "resqpack docs "+s.ID, s.Title, ui.Hint(fmt.Sprintf("(%s)", ui.Count(len(s.Topics), "topic", "topics"))))
	}
	return nil
}

func outputDocsTopics(section docsSection) error {
	if isJSONOutput() {
		outputSuccess(section, &Meta{Count: len(section.Topics)})
		return nil
	}
	fmt.Printf("Topics in %s:\n", section.Title)
	for _, t := range section.Topics {
		fmt.Printf("  %-40s %s\n", fmt.Sprintf("resqpack docs %s %s", section.ID, t.ID), t.Title)
	}
	return nil
}

func outputDocsTopic(fsys fs.FS, section docsSection, topic docsTopic) error {
	p := section.topicPath(topic)
	content, err := fs.ReadFile(fsys, p)
	if err != nil {
		return handleError(ErrInternal, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"section": section.ID,
			"topic":   topic.ID,
			"title":   topic.Title,
			"path":    p,
			"content": string(content),
		}, nil)
		return nil
	}

	out := string(content)
	display := docsDisplayContext()
	if display.IsTTY {
		if rendered, err := docsMarkdownRender(out, display.AvailableWidth(ui.MarkdownRenderMargin)); err == nil {
			out = rendered
		}
	}
	fmt.Print(out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Println()
	}
	return nil
}

// searchDocs returns case-insensitive line matches in index order.
func searchDocs(fsys fs.FS, index *docsIndex, query, sectionFilter string, limit int) ([]docsSearchMatch, error) {
	sections := index.Sections
	if sectionFilter != "" {
		s, ok := index.section(sectionFilter)
		if !ok {
			return nil, fmt.Errorf("unknown docs section: %s", sectionFilter)
		}
		sections = []docsSection{s}
	}

	needle := strings.ToLower(query)
	var matches []docsSearchMatch
	for _, s := range sections {
		for _, t := range s.Topics {
			content, err := fs.ReadFile(fsys, s.topicPath(t))
			if err != nil {
				return nil, err
			}
			sc := bufio.NewScanner(bytes.NewReader(content))
			for line := 1; sc.Scan(); line++ {
				text := strings.TrimSpace(sc.Text())
				if !strings.Contains(strings.ToLower(text), needle) {
					continue
				}
				matches = append(matches, docsSearchMatch{Section: s.ID, Topic: t.ID, Line: line, Snippet: text})
				if len(matches) >= limit {
					return matches, nil
				}
			}
		}
	}
	return matches, nil
}

func init() {
	docsSearchCmd.Flags().IntVar(&docsSearchLimit, "limit", 20, "Maximum number of matches")
	docsSearchCmd.Flags().StringVar(&docsSearchSection, "section", "", "Only search this section")
	docsCmd.AddCommand(docsSearchCmd)
	rootCmd.AddCommand(docsCmd)
}
