// Package slugs derives file names and anchors from free-text titles.
//
// Two strategies exist:
//   - Anchor slugs: fragment IDs for headings in rendered type documentation.
//     These keep non-ASCII letters and only fold separators to dashes.
//   - File slugs: container and payload file names, built on gosimple/slug.
package slugs

import (
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// DefaultName is used when a title slugs to nothing.
const DefaultName = "container"

// Anchor converts a heading text to a fragment ID.
func Anchor(text string) string {
	var result strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':' || r == '.':
			if !prevDash && result.Len() > 0 {
				result.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// FileSlug converts a title to a file-name-safe slug.
func FileSlug(title string) string {
	slugged := goslug.Make(title)
	if slugged == "" {
		slugged = Anchor(title)
	}
	return slugged
}

// ContainerName returns the default container file name for a title:
// the file slug plus ext (".epc" for archives, "" for directories).
func ContainerName(title, ext string) string {
	name := FileSlug(title)
	if name == "" {
		name = DefaultName
	}
	return name + ext
}
