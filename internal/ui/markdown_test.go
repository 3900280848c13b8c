package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("# RegularGrid", 80)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.False(t, strings.HasSuffix(out, "\n\n"), "got %q", out)
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	out, err := RenderMarkdown("| field | type |\n|---|---|\n| Ni | PositiveLong |\n", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestMarkdownStyleEmphasizesHeadingsAndSyntax(t *testing.T) {
	style := markdownStyle()

	require.NotNil(t, style.H1.Underline)
	assert.True(t, *style.H1.Underline)
	require.NotNil(t, style.H2.Underline)
	assert.True(t, *style.H2.Underline)
	assert.NotNil(t, style.Code.Color)
	assert.NotNil(t, style.CodeBlock.StylePrimitive.Color)
	assert.NotEmpty(t, style.CodeBlock.Theme)
}

func TestConfigureMarkdownCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() { markdownCodeTheme = orig })

	ConfigureMarkdownCodeTheme("DrAcUlA")
	assert.Equal(t, "dracula", markdownCodeTheme)
	assert.Equal(t, "dracula", markdownStyle().CodeBlock.Theme)

	ConfigureMarkdownCodeTheme("not-a-real-theme")
	assert.Equal(t, defaultCodeTheme, markdownCodeTheme)
}
