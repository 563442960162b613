package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"github.com/spf13/viper"
)

// Default profiler settings
const (
	// DefaultProfilerCommand is the external profiler executable
	DefaultProfilerCommand = "xcprofiler"

	// DefaultProfilerTimeoutSeconds bounds a single profiler invocation
	DefaultProfilerTimeoutSeconds = 120
)

// Default execution settings
const (
	// DefaultMaxGoroutines runs targets one after another
	DefaultMaxGoroutines = 1

	// DefaultRunTimeoutSeconds bounds a whole report run
	DefaultRunTimeoutSeconds = 600
)

// Config represents the main configuration structure
type Config struct {
	// WorkingDir resolves relative log paths and relativizes annotated files.
	// Empty means the directory the command was started from.
	WorkingDir string `json:"working_dir" mapstructure:"working_dir" yaml:"working_dir"`

	// Thresholds holds the warn/fail cutoffs in milliseconds
	Thresholds domain.Thresholds `json:"thresholds" mapstructure:"thresholds" yaml:"thresholds"`

	// InlineMode selects per-line annotations over a single summary.
	// nil means the default (true).
	InlineMode *bool `json:"inline_mode,omitempty" mapstructure:"inline_mode" yaml:"inline_mode,omitempty"`

	// IgnorePatterns are gitignore-style patterns; measurements in matching files are dropped
	IgnorePatterns []string `json:"ignore_patterns" mapstructure:"ignore_patterns" yaml:"ignore_patterns"`

	// Profiler configures the external profiler
	Profiler ProfilerConfig `json:"profiler" mapstructure:"profiler" yaml:"profiler"`

	// Sink selects where comments are posted
	Sink SinkConfig `json:"sink" mapstructure:"sink" yaml:"sink"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds execution configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Logging holds logger configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// ProfilerConfig holds configuration for the external profiler
type ProfilerConfig struct {
	// Command is the profiler executable name or path
	Command string `json:"command" mapstructure:"command" yaml:"command"`

	// Args are appended to every profiler invocation
	Args []string `json:"args" mapstructure:"args" yaml:"args"`

	// DerivedDataPath overrides the profiler's derived data lookup
	DerivedDataPath string `json:"derived_data_path" mapstructure:"derived_data_path" yaml:"derived_data_path"`

	// TimeoutSeconds bounds a single profiler invocation (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// SinkConfig holds comment sink configuration
type SinkConfig struct {
	// Type is one of: console, actions, github
	Type string `json:"type" mapstructure:"type" yaml:"type"`

	// GitHub configures the github sink
	GitHub GitHubConfig `json:"github" mapstructure:"github" yaml:"github"`
}

// GitHubConfig holds pull request coordinates for the github sink
type GitHubConfig struct {
	// Repository is "owner/name"
	Repository string `json:"repository" mapstructure:"repository" yaml:"repository"`

	// PullRequest is the pull request number
	PullRequest int `json:"pull_request" mapstructure:"pull_request" yaml:"pull_request"`

	// CommitSHA is the head commit inline comments are attached to
	CommitSHA string `json:"commit_sha" mapstructure:"commit_sha" yaml:"commit_sha"`

	// Token authenticates API calls; usually taken from GITHUB_TOKEN
	Token string `json:"-" mapstructure:"token" yaml:"-"`

	// BaseURL points at a GitHub Enterprise API (empty = github.com)
	BaseURL string `json:"base_url" mapstructure:"base_url" yaml:"base_url"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// PerformanceConfig holds execution configuration
type PerformanceConfig struct {
	// MaxGoroutines is the number of targets profiled at once
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds the whole run
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`

	// JSON switches to structured JSON log lines
	JSON bool `json:"json" mapstructure:"json" yaml:"json"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Thresholds:     domain.DefaultThresholds(),
		IgnorePatterns: []string{},
		Profiler: ProfilerConfig{
			Command:        DefaultProfilerCommand,
			Args:           []string{},
			TimeoutSeconds: DefaultProfilerTimeoutSeconds,
		},
		Sink: SinkConfig{
			Type: constants.SinkConsole,
		},
		Output: OutputConfig{
			Format: constants.OutputFormatText,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultRunTimeoutSeconds,
		},
		Logging: LoggingConfig{
			Level: constants.DefaultLogLevel,
		},
	}
}

// Inline returns the effective inline mode
func (c *Config) Inline() bool {
	return domain.BoolValue(c.InlineMode, true)
}

// ResolveWorkingDir returns the configured working directory as an absolute
// path, resolving it against cwd. cwd is used as is when nothing is configured.
func (c *Config) ResolveWorkingDir(cwd string) string {
	dir := c.WorkingDir
	if dir == "" {
		return cwd
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(cwd, dir)
	}
	return filepath.Clean(dir)
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// newViper creates a viper instance with environment bindings.
// A fresh instance per load avoids sharing global state between loads.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees env values for keys viper knows about
	for _, key := range []string{
		"working_dir",
		"thresholds.warn_ms",
		"thresholds.fail_ms",
		"inline_mode",
		"profiler.command",
		"profiler.derived_data_path",
		"sink.type",
		"output.format",
		"logging.level",
		"logging.json",
	} {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("sink.github.token", constants.EnvVarPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("sink.github.repository", constants.EnvVarPrefix+"_GITHUB_REPOSITORY", "GITHUB_REPOSITORY")
	_ = v.BindEnv("sink.github.base_url", constants.EnvVarPrefix+"_GITHUB_BASE_URL", "GITHUB_API_URL")
	return v
}

// loadConfigFromFile reads and parses a configuration file.
// An empty path yields the defaults plus environment overrides.
func loadConfigFromFile(configPath string) (*Config, error) {
	v := newViper()
	config := DefaultConfig()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is usually the working directory of the run.
func findDefaultConfig(targetPath string) string {
	candidates := constants.ConfigFileNames

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("thresholds: %w", err)
	}

	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	validSinks := map[string]bool{
		constants.SinkConsole: true,
		constants.SinkActions: true,
		constants.SinkGitHub:  true,
	}
	if !validSinks[c.Sink.Type] {
		return fmt.Errorf("invalid sink.type '%s', must be one of: console, actions, github", c.Sink.Type)
	}

	if err := c.validateGitHubConfig(); err != nil {
		return err
	}

	if c.Profiler.Command == "" {
		return fmt.Errorf("profiler.command cannot be empty")
	}
	if c.Profiler.TimeoutSeconds < 0 {
		return fmt.Errorf("profiler.timeout_seconds must be >= 0, got %d", c.Profiler.TimeoutSeconds)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// validateGitHubConfig checks the pieces of the github sink that can be
// checked without flags. Missing values are reported when the sink is built.
func (c *Config) validateGitHubConfig() error {
	gh := c.Sink.GitHub
	if gh.Repository != "" {
		if _, _, err := SplitRepository(gh.Repository); err != nil {
			return err
		}
	}
	if gh.PullRequest < 0 {
		return fmt.Errorf("sink.github.pull_request must be >= 0, got %d", gh.PullRequest)
	}
	return nil
}

// SplitRepository splits "owner/name"
func SplitRepository(repository string) (owner, name string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid sink.github.repository '%s', expected owner/name", repository)
	}
	return parts[0], parts[1], nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("working_dir", config.WorkingDir)
	v.Set("thresholds.warn_ms", config.Thresholds.WarnMs)
	v.Set("thresholds.fail_ms", config.Thresholds.FailMs)
	if config.InlineMode != nil {
		v.Set("inline_mode", *config.InlineMode)
	}
	v.Set("ignore_patterns", config.IgnorePatterns)
	v.Set("profiler", config.Profiler)
	v.Set("sink.type", config.Sink.Type)
	v.Set("output", config.Output)

	return v.WriteConfig()
}
