package version

// Build information. Commit and BuildTime are overridden at link time:
//
//	go build -ldflags "-X github.com/oshokin/rss-grabber/internal/version.Commit=$(git rev-parse --short HEAD)"
//
//nolint:gochecknoglobals // Set by the linker.
var (
	// Version is the semantic version of the application.
	Version = "0.3.0"
	// Commit is the git commit the binary was built from.
	Commit = "none"
	// BuildTime is the time the binary was built.
	BuildTime = "unknown"
)

// Short returns the bare version.
func Short() string {
	return Version
}

// Full returns the version together with the commit and the build time.
func Full() string {
	return "version: " + Version + ", commit: " + Commit + ", built at: " + BuildTime
}
