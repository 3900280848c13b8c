// Package buildinfo carries release metadata stamped at link time:
//
//	go build -ldflags "-X github.com/aidanlsb/resqpack/internal/buildinfo.Version=v0.3.0" ./cmd/resqpack
//
// Local builds leave every value empty.
package buildinfo

var (
	Version string
	Commit  string
	Date    string
)

// Stamped reports whether any value was set at link time.
func Stamped() bool {
	return Version != "" || Commit != "" || Date != ""
}
