package ui

import (
	"strings"

	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
)

// MarkdownRenderMargin is the left margin of rendered markdown.
const MarkdownRenderMargin = 2

const defaultCodeTheme = "monokai"

var markdownCodeTheme = defaultCodeTheme

// ConfigureMarkdownCodeTheme selects the chroma theme of rendered code
// blocks. Unknown themes fall back to the default.
func ConfigureMarkdownCodeTheme(theme string) {
	name := strings.ToLower(strings.TrimSpace(theme))
	if _, ok := chromastyles.Registry[name]; !ok {
		name = defaultCodeTheme
	}
	markdownCodeTheme = name
}

// KnownCodeTheme reports whether theme is a registered chroma style.
func KnownCodeTheme(theme string) bool {
	_, ok := chromastyles.Registry[strings.ToLower(strings.TrimSpace(theme))]
	return ok
}

// RenderMarkdown renders markdown for the terminal, wrapped at width.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// markdownStyle is glamour's dark style with the terminal's own text color,
// accent-colored underlined headings and the configured code theme.
func markdownStyle() ansi.StyleConfig {
	s := glamourstyles.DarkStyleConfig
	margin := uint(MarkdownRenderMargin)
	underline := true

	s.Document.Color = nil
	s.Document.Margin = &margin

	s.Heading.Color = nil
	if color, ok := AccentColor(); ok {
		s.Heading.Color = &color
	}
	s.H1 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "# ", Underline: &underline}}
	s.H2 = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "## ", Underline: &underline}}

	codeColor, blockColor := "203", "244"
	s.Code.Color = &codeColor
	s.CodeBlock.Color = &blockColor
	s.CodeBlock.Margin = &margin
	s.CodeBlock.Chroma = nil
	s.CodeBlock.Theme = markdownCodeTheme

	sep, rowSep := "│", "─"
	s.Table.CenterSeparator = &sep
	s.Table.ColumnSeparator = &sep
	s.Table.RowSeparator = &rowSep
	return s
}
