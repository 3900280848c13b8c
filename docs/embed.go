// Package docs bundles the long-form Markdown documentation shipped with the
// resqpack binary.
package docs

import "embed"

// FS holds index.yaml and the section directories it lists.
//
//go:embed index.yaml guide reference
var FS embed.FS
