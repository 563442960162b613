package version

import "fmt"

// Build information, set via ldflags:
//
//	-X github.com/ludo-technologies/xcprof/internal/version.Version=v1.2.3
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
	BuiltBy = "source"
)

// BuildInfo is the machine-readable form of the build information
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// GetVersion returns the current version
func GetVersion() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

// GetFullVersion returns the full version information
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, by: %s)",
		GetVersion(), Commit, Date, BuiltBy)
}

// Info returns the build information
func Info() BuildInfo {
	return BuildInfo{
		Version: GetVersion(),
		Commit:  Commit,
		Date:    Date,
		BuiltBy: BuiltBy,
	}
}
