// Package version holds the pagesmith release identifiers. They are printed by
// --version and stored with every build_started history event.
package version

// Version is the pagesmith release. Set it with ldflags when building:
// go build -ldflags "-X git.home.luguber.info/inful/pagesmith/internal/version.Version=v1.0.0".
var Version = "unknown"

// Commit and build date of the binary, also set with ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "pagesmith " + Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
