// Package version carries the build information stamped into the riko binary.
package version

var (
	// Version is the semantic version (set via ldflags)
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// BuildTime is the build timestamp (set via ldflags)
	BuildTime = "unknown"
)

// Info returns a one-line human-readable version string.
func Info() string {
	return "riko " + Version + " (" + GitCommit + ") built at " + BuildTime
}
