package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/config"
	"go.uber.org/zap"
)

// DefaultReporterArgs make the profiler print its results as JSON on stdout
var DefaultReporterArgs = []string{"--reporters", "json"}

// CommandRunner runs an executable and returns its stdout and stderr
type CommandRunner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandProfiler delegates profiling to the external xcprofiler executable
// and decodes its JSON reporter output.
type CommandProfiler struct {
	command         string
	args            []string
	derivedDataPath string
	timeout         time.Duration
	run             CommandRunner
	logger          *zap.SugaredLogger
}

// NewCommandProfiler creates a profiler from configuration
func NewCommandProfiler(cfg *config.ProfilerConfig, logger *zap.SugaredLogger) *CommandProfiler {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultProfilerTimeoutSeconds * time.Second
	}
	command := cfg.Command
	if command == "" {
		command = config.DefaultProfilerCommand
	}
	return &CommandProfiler{
		command:         command,
		args:            append([]string(nil), cfg.Args...),
		derivedDataPath: cfg.DerivedDataPath,
		timeout:         timeout,
		run:             ExecRunner,
		logger:          logger,
	}
}

// WithRunner replaces the command runner
func (p *CommandProfiler) WithRunner(run CommandRunner) *CommandProfiler {
	p.run = run
	return p
}

// ByProductName profiles the latest build of the named product
func (p *CommandProfiler) ByProductName(ctx context.Context, name string) ([]domain.Measurement, error) {
	if name == "" {
		return nil, domain.NewInvalidInputError("product name is empty", nil)
	}
	return p.profile(ctx, name)
}

// ByLogPath profiles the given build log
func (p *CommandProfiler) ByLogPath(ctx context.Context, path string) ([]domain.Measurement, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("build log %s does not exist: %w", path, domain.ErrDerivedDataNotFound)
		}
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return p.profile(ctx, path)
}

func (p *CommandProfiler) buildArgs(target string) []string {
	args := make([]string, 0, len(p.args)+len(DefaultReporterArgs)+3)
	args = append(args, target)
	args = append(args, DefaultReporterArgs...)
	if p.derivedDataPath != "" {
		args = append(args, "--derived-data-path", p.derivedDataPath)
	}
	return append(args, p.args...)
}

func (p *CommandProfiler) profile(ctx context.Context, target string) ([]domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	args := p.buildArgs(target)
	p.logger.Debugw("running profiler", "command", p.command, "args", args)

	stdout, stderr, err := p.run(ctx, p.command, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, domain.NewConfigError(fmt.Sprintf("profiler executable %q not found", p.command), err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewAnalysisError(fmt.Sprintf("profiler timed out after %s", p.timeout), ctxErr)
		}
		if sentinel := classifyProfilerOutput(stderr, stdout); sentinel != nil {
			return nil, fmt.Errorf("%s: %w", firstLine(stderr, stdout), sentinel)
		}
		return nil, domain.NewAnalysisError(fmt.Sprintf("profiler failed for %s: %s", target, firstLine(stderr, stdout)), err)
	}

	rows, err := DecodeProfileRowsJSON(stdout)
	if err != nil {
		return nil, domain.NewParseError(target, err)
	}

	p.logger.Debugw("profiler finished", "target", target, "rows", len(rows))
	return RowsToMeasurements(rows), nil
}

// classifyProfilerOutput maps the profiler's error text to a sentinel.
// It returns nil for anything that is not a missing-source condition.
func classifyProfilerOutput(outputs ...[]byte) error {
	for _, out := range outputs {
		text := strings.ToLower(string(out))
		switch {
		case strings.Contains(text, "debug-time-function-bodies"),
			strings.Contains(text, "flag is not enabled"):
			return domain.ErrBuildFlagNotEnabled
		case strings.Contains(text, "derived data") && strings.Contains(text, "not found"),
			strings.Contains(text, "deriveddatanotfound"),
			strings.Contains(text, "no .xcactivitylog"):
			return domain.ErrDerivedDataNotFound
		}
	}
	return nil
}

func firstLine(outputs ...[]byte) string {
	for _, out := range outputs {
		text := strings.TrimSpace(string(out))
		if text == "" {
			continue
		}
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			return strings.TrimSpace(text[:i])
		}
		return text
	}
	return "no output"
}
