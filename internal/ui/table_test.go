package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestTable(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("obj_A.xml", "A", "first")
	tbl.AddRow("obj_LongName.xml", "B")
	tbl.AddRow("obj_C.xml", "C", "third", "dropped")

	assert.Equal(t, "obj_A.xml         A  first\nobj_LongName.xml  B  \nobj_C.xml         C  third\n", tbl.String())
	assert.Empty(t, NewTable(2).String())
}

func TestTableHeader(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	tbl := NewTable(2)
	tbl.SetHeader("part", "type")
	tbl.AddRow("obj_LongName.xml", "LocalDepth3dCrs")
	assert.Equal(t, "part              type\nobj_LongName.xml  LocalDepth3dCrs\n", tbl.String())
}

func TestList(t *testing.T) {
	l := NewList()
	l.Add("Partner -> b1")
	l.SetBullet("-")
	l.Add("Items[0]")
	assert.Equal(t, "  - Partner -> b1\n  - Items[0]\n", l.String())
}
