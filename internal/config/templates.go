package config

import (
	"strconv"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/constants"
)

// ProjectLayout represents how an Xcode project pulls in third-party code
type ProjectLayout string

const (
	ProjectLayoutPlain     ProjectLayout = "plain"
	ProjectLayoutCocoaPods ProjectLayout = "cocoapods"
	ProjectLayoutCarthage  ProjectLayout = "carthage"
	ProjectLayoutSwiftPM   ProjectLayout = "swiftpm"
)

// Strictness represents the threshold strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds configuration presets for different project layouts
type ProjectPreset struct {
	IgnorePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	Thresholds domain.Thresholds
}

// GetProjectPresets returns presets for different project layouts
func GetProjectPresets() map[ProjectLayout]ProjectPreset {
	return map[ProjectLayout]ProjectPreset{
		ProjectLayoutPlain: {
			IgnorePatterns: []string{},
		},
		ProjectLayoutCocoaPods: {
			IgnorePatterns: []string{"Pods/"},
		},
		ProjectLayoutCarthage: {
			IgnorePatterns: []string{"Carthage/"},
		},
		ProjectLayoutSwiftPM: {
			IgnorePatterns: []string{".build/", "SourcePackages/"},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels.
// Relaxed uses the thresholds the plugin has always documented.
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			Thresholds: domain.DocumentedThresholds(),
		},
		StrictnessStandard: {
			Thresholds: domain.DefaultThresholds(),
		},
		StrictnessStrict: {
			Thresholds: domain.Thresholds{WarnMs: 25, FailMs: 50},
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(layout ProjectLayout, strictness Strictness, sink string) string {
	preset := GetProjectPresets()[layout]
	strict := GetStrictnessPresets()[strictness]
	if sink == "" {
		sink = constants.SinkConsole
	}

	return `# xcprof configuration
# Documentation: https://github.com/ludo-technologies/xcprof

# Base directory for relative .xcactivitylog paths. Annotated files are made
# relative to it. Empty means the directory xcprof is run from.
working_dir: ""

# Compile-time thresholds in milliseconds. A function body at or above
# fail_ms fails the review; at or above warn_ms it is a warning.
thresholds:
  warn_ms: ` + formatFloat(strict.Thresholds.WarnMs) + `
  fail_ms: ` + formatFloat(strict.Thresholds.FailMs) + `

# Post one comment per slow function on its line (true) or a single
# summary comment (false).
inline_mode: true

# gitignore-style patterns; measurements in matching files are not reported.
ignore_patterns:` + formatYAMLList(preset.IgnorePatterns) + `

profiler:
  # External profiler executable
  command: ` + DefaultProfilerCommand + `
  # Extra arguments appended to every profiler run
  args: []
  # Override the derived data location (empty = Xcode default)
  derived_data_path: ""
  timeout_seconds: ` + strconv.Itoa(DefaultProfilerTimeoutSeconds) + `

sink:
  # console, actions (GitHub Actions annotations) or github (PR comments)
  type: ` + sink + `
  github:
    # owner/name; defaults to GITHUB_REPOSITORY
    repository: ""
    pull_request: 0
    commit_sha: ""
    # The token is read from GITHUB_TOKEN; do not commit it here.
    base_url: ""

output:
  # text, json or yaml
  format: text

performance:
  # Number of targets profiled at once
  max_goroutines: ` + strconv.Itoa(DefaultMaxGoroutines) + `
  timeout_seconds: ` + strconv.Itoa(DefaultRunTimeoutSeconds) + `

logging:
  # debug and info also log per-target progress
  level: ` + constants.DefaultLogLevel + `
  json: false
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# xcprof configuration (minimal)
# See full options: https://github.com/ludo-technologies/xcprof

thresholds:
  warn_ms: ` + formatFloat(domain.DefaultWarnMs) + `
  fail_ms: ` + formatFloat(domain.DefaultFailMs) + `

inline_mode: true
`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatYAMLList formats a string slice as an indented YAML block list
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return " []"
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("\n  - ")
		sb.WriteString(strconv.Quote(item))
	}
	return sb.String()
}
