package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/aidanlsb/resqpack/internal/check"
)

func TestIssue(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	i := check.Errorf(check.KindDanglingReference, "A/Partner", "no object with identifier %s", "b1")
	i.Part = "obj_A.xml"
	assert.Equal(t, "✗ [dangling-reference] obj_A.xml A/Partner: no object with identifier b1", Issue(i))

	w := check.Warnf(check.KindUnexpectedNode, "", "stray")
	assert.Equal(t, "⚠ [unexpected-node]: stray", Issue(w))
}

func TestErrorWarningCounts(t *testing.T) {
	assert.Equal(t, "(1 error, 2 warnings)", ErrorWarningCounts(1, 2))
	assert.Equal(t, "(3 errors)", ErrorWarningCounts(3, 0))
	assert.Equal(t, "(1 warning)", ErrorWarningCounts(0, 1))
}
