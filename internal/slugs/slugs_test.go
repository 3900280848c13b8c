package slugs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnchor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"IjkGridRepresentation", "ijkgridrepresentation"},
		{"resqml20:obj_LocalDepth3dCrs", "resqml20-obj-localdepth3dcrs"},
		{"A__B", "a-b"},
		{"A - B", "a-b"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"A:", "a"},
		{"!!!", ""},
		{"Привет мир", "привет-мир"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Anchor(tt.in))
		})
	}
}

func TestFileSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Regular grid", "regular-grid"},
		{"UPPER CASE", "upper-case"},
		{"Delta: Top / Base!", "delta-top-base"},
		{"Ærøskøbing", "aeroskobing"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FileSlug(tt.in))
		})
	}
}

func TestContainerName(t *testing.T) {
	assert.Equal(t, "regular-grid.epc", ContainerName("Regular grid", ".epc"))
	assert.Equal(t, "regular-grid", ContainerName("Regular grid", ""))
	assert.Equal(t, "container.epc", ContainerName("", ".epc"))
	assert.Equal(t, "container", ContainerName("???", ""))
}
