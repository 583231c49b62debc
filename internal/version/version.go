package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/jekyll-studio/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Released reports whether Version looks like a tagged release build.
func Released() bool {
	return Version != "" && Version != "dev" && Version != "unknown"
}
