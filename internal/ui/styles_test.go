package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAccentColor(t *testing.T) {
	valid := map[string]string{
		"0":        "0",
		"39":       "39",
		" 244 ":    "244",
		"#7aa2f7":  "#7aa2f7",
		"#7AA2F7":  "#7aa2f7",
		"#abc":     "#aabbcc",
		"  #FFF  ": "#ffffff",
	}
	for in, want := range valid {
		got, ok := normalizeAccentColor(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "none", "OFF", "default", "256", "-1", "#zzzzzz", "#abcd", "blue"} {
		got, ok := normalizeAccentColor(in)
		assert.False(t, ok, in)
		assert.Empty(t, got, in)
	}
}

func TestConfigureTheme(t *testing.T) {
	prevAccent, prevBold, prevColor := Accent, AccentBold, accentColor
	t.Cleanup(func() { Accent, AccentBold, accentColor = prevAccent, prevBold, prevColor })

	ConfigureTheme("#abc")
	color, ok := AccentColor()
	assert.True(t, ok)
	assert.Equal(t, "#aabbcc", color)

	ConfigureTheme("none")
	_, ok = AccentColor()
	assert.False(t, ok)
	assert.Equal(t, "obj_A.xml", Accent.Render("obj_A.xml"))
}
