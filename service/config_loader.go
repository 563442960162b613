package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/config"
)

// ConfigOverrides carries command-line values. A nil field means the flag
// was not given and the configured value stands.
type ConfigOverrides struct {
	WarnMs      *float64
	FailMs      *float64
	Inline      *bool
	WorkingDir  *string
	SinkType    *string
	Format      *string
	Repository  *string
	PullRequest *int
	CommitSHA   *string
	LogLevel    *string
	LogJSON     *bool
	Concurrency *int
}

// ConfigurationLoaderImpl loads configuration and turns it into report requests
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads the configuration at path, or discovers one starting
// from searchDir when path is empty
func (c *ConfigurationLoaderImpl) LoadConfig(path, searchDir string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, searchDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

// ApplyOverrides returns a copy of cfg with every set override applied and
// validates the result
func (c *ConfigurationLoaderImpl) ApplyOverrides(cfg *config.Config, o ConfigOverrides) (*config.Config, error) {
	merged := *cfg

	if o.WarnMs != nil {
		merged.Thresholds.WarnMs = *o.WarnMs
	}
	if o.FailMs != nil {
		merged.Thresholds.FailMs = *o.FailMs
	}
	if o.Inline != nil {
		merged.InlineMode = domain.BoolPtr(*o.Inline)
	}
	if o.WorkingDir != nil {
		merged.WorkingDir = *o.WorkingDir
	}
	if o.SinkType != nil {
		merged.Sink.Type = *o.SinkType
	}
	if o.Format != nil {
		merged.Output.Format = *o.Format
	}
	if o.Repository != nil {
		merged.Sink.GitHub.Repository = *o.Repository
	}
	if o.PullRequest != nil {
		merged.Sink.GitHub.PullRequest = *o.PullRequest
	}
	if o.CommitSHA != nil {
		merged.Sink.GitHub.CommitSHA = *o.CommitSHA
	}
	if o.LogLevel != nil {
		merged.Logging.Level = strings.ToLower(*o.LogLevel)
	}
	if o.LogJSON != nil {
		merged.Logging.JSON = *o.LogJSON
	}
	if o.Concurrency != nil {
		merged.Performance.MaxGoroutines = *o.Concurrency
	}

	if err := merged.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return &merged, nil
}

// BuildRequest resolves defaults and produces the request for one run
func (c *ConfigurationLoaderImpl) BuildRequest(cfg *config.Config, targets []string, cwd string) domain.ReportRequest {
	return domain.ReportRequest{
		Targets:        append([]string(nil), targets...),
		WorkingDir:     cfg.ResolveWorkingDir(cwd),
		Thresholds:     cfg.Thresholds,
		Inline:         cfg.Inline(),
		IgnorePatterns: append([]string(nil), cfg.IgnorePatterns...),
	}
}

// ValidateRequest checks a request before any profiler runs
func (c *ConfigurationLoaderImpl) ValidateRequest(req domain.ReportRequest) error {
	if len(req.Targets) == 0 {
		return domain.NewValidationError("at least one target (product name, .xcactivitylog or report file) is required")
	}
	for i, t := range req.Targets {
		if strings.TrimSpace(t) == "" {
			return domain.NewValidationError(fmt.Sprintf("target %d is empty", i+1))
		}
	}
	if err := req.Thresholds.Validate(); err != nil {
		return domain.NewInvalidInputError("invalid thresholds", err)
	}
	if req.WorkingDir != "" {
		info, err := os.Stat(req.WorkingDir)
		if err != nil {
			return domain.NewInvalidInputError(fmt.Sprintf("working directory %s is not accessible", req.WorkingDir), err)
		}
		if !info.IsDir() {
			return domain.NewValidationError(fmt.Sprintf("working directory %s is not a directory", req.WorkingDir))
		}
	}
	return nil
}
