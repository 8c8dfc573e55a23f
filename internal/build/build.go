// Package build holds version metadata injected at link time.
package build

// Set via -ldflags "-X go.trai.ch/kiln/internal/build.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
