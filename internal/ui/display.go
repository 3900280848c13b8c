package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
)

// DefaultTermWidth is used when stdout is not a terminal or its size is
// unknown.
const DefaultTermWidth = 100

// minWidth is the narrowest width handed to renderers.
const minWidth = 40

// DisplayContext describes the terminal stdout writes to.
type DisplayContext struct {
	TermWidth int
	IsTTY     bool
}

// NewDisplayContext inspects stdout.
func NewDisplayContext() *DisplayContext {
	return detectDisplay(os.Stdout.Fd())
}

func detectDisplay(fd uintptr) *DisplayContext {
	d := &DisplayContext{TermWidth: DefaultTermWidth, IsTTY: term.IsTerminal(fd)}
	if !d.IsTTY {
		return d
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		d.TermWidth = w
	}
	return d
}

// AvailableWidth returns the width left of leftMargin, never below minWidth.
func (d *DisplayContext) AvailableWidth(leftMargin int) int {
	if w := d.TermWidth - leftMargin; w > minWidth {
		return w
	}
	return minWidth
}
