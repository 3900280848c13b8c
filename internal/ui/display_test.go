package ui

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableWidth(t *testing.T) {
	assert.Equal(t, 78, (&DisplayContext{TermWidth: 80}).AvailableWidth(MarkdownRenderMargin))
	assert.Equal(t, minWidth, (&DisplayContext{TermWidth: 20}).AvailableWidth(MarkdownRenderMargin))
}

func TestDetectDisplayOnFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	d := detectDisplay(f.Fd())
	assert.False(t, d.IsTTY)
	assert.Equal(t, DefaultTermWidth, d.TermWidth)
}
