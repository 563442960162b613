package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/xcprof/app"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"github.com/ludo-technologies/xcprof/internal/logging"
	"github.com/ludo-technologies/xcprof/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for report exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [target...]",
		Short: "Report slow-to-compile Swift methods",
		Long: `Profile each target and report methods whose compile time crosses the
warn or fail threshold.

A target is a product name (the latest build log for it is located by the
profiler), a path to an .xcactivitylog, or a report file (.json, .yaml, .yml)
saved from an earlier profiler run. Relative paths are resolved against the
working directory.

Exit codes:
  0 - No method crossed the fail threshold
  1 - At least one method crossed the fail threshold
  2 - Operational error (configuration, profiler or comment posting failure)

Examples:
  # Report to the terminal with default thresholds (warn 50 ms, fail 100 ms)
  xcprof report MyApp

  # Explicit build log, stricter thresholds
  xcprof report --warn 25 --fail 50 ~/Library/Developer/Xcode/DerivedData/MyApp/Logs/Build/abc.xcactivitylog

  # GitHub Actions annotations
  xcprof report --sink actions MyApp

  # Pull request comments
  GITHUB_TOKEN=... xcprof report --sink github --github-repo owner/app --github-pr 42 --github-sha $SHA MyApp

  # Machine-readable result
  xcprof report --format json MyApp`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runReport,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Float64("warn", 0, "Warn threshold in milliseconds (default from config: 50)")
	cmd.Flags().Float64("fail", 0, "Fail threshold in milliseconds (default from config: 100)")
	cmd.Flags().Bool("inline", true, "Post located entries as inline annotations")
	cmd.Flags().String("working-dir", "", "Directory for relative paths (default: current directory)")
	cmd.Flags().String("sink", constants.SinkConsole, "Where to post comments: console, actions, github")
	cmd.Flags().StringP("format", "f", constants.OutputFormatText, "Output format: text, json, yaml")
	cmd.Flags().StringP("config", "c", "", "Path to config file")
	cmd.Flags().String("github-repo", "", "Repository as owner/name (github sink)")
	cmd.Flags().Int("github-pr", 0, "Pull request number (github sink)")
	cmd.Flags().String("github-sha", "", "Head commit SHA for inline comments (github sink)")
	cmd.Flags().String("log-level", constants.DefaultLogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.Flags().Int("concurrency", 0, "Number of targets profiled at once (default from config: 1)")

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no targets specified"}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("cannot determine current directory: %v", err)}
	}

	configPath, _ := cmd.Flags().GetString("config")
	searchDir := cwd
	if dir, _ := cmd.Flags().GetString("working-dir"); dir != "" {
		searchDir = dir
	}

	loader := service.NewConfigurationLoader()
	baseCfg, err := loader.LoadConfig(configPath, searchDir)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := loader.ApplyOverrides(baseCfg, overridesFromFlags(cmd))
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.JSON)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}
	defer func() { _ = logger.Sync() }()

	req := loader.BuildRequest(cfg, args, cwd)
	if err := loader.ValidateRequest(req); err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	sink, err := service.NewCommentSink(cfg, out, cmd.ErrOrStderr(), logger)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	// Progress bars only on a terminal, and never around structured output
	pm := service.NewProgressManager(cfg.Output.Format == constants.OutputFormatText && len(req.Targets) > 1)
	defer pm.Close()

	useCase, err := app.NewReportUseCaseBuilder().
		WithProfiler(service.NewCommandProfiler(&cfg.Profiler, logger)).
		WithReportProfiler(service.NewReportFileProfiler()).
		WithDispatcher(service.NewCommentDispatcher(sink, logger)).
		WithExecutor(service.NewParallelExecutorWithProgress(&cfg.Performance, pm, logger)).
		WithFilter(service.NewMeasurementFilter(req.WorkingDir, req.IgnorePatterns)).
		WithLogger(logger).
		Build()
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	logger.Debugw("starting report",
		"targets", req.Targets,
		"working_dir", req.WorkingDir,
		"warn_ms", req.Thresholds.WarnMs,
		"fail_ms", req.Thresholds.FailMs,
		"inline", req.Inline,
		"sink", cfg.Sink.Type,
	)
	if req.Thresholds.Inverted() {
		logger.Warnw("fail threshold is below warn threshold; every flagged method will fail",
			"warn_ms", req.Thresholds.WarnMs, "fail_ms", req.Thresholds.FailMs)
	}

	result, runErr := useCase.Execute(cmd.Context(), req)
	if result != nil {
		if rec, ok := sink.(*service.RecordingSink); ok {
			result.Comments = rec.Posts()
		}
		if err := service.NewOutputFormatter().Write(result, cfg.Output.Format, out); err != nil {
			return &CheckExitError{Code: 2, Message: err.Error()}
		}
	}

	if runErr != nil {
		return &CheckExitError{Code: 2, Message: runErr.Error()}
	}
	if result.ExitCode != 0 {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

// overridesFromFlags collects the flags given on the command line. Flags left
// at their defaults do not override the configuration file.
func overridesFromFlags(cmd *cobra.Command) service.ConfigOverrides {
	var o service.ConfigOverrides
	flags := cmd.Flags()

	if flags.Changed("warn") {
		v, _ := flags.GetFloat64("warn")
		o.WarnMs = &v
	}
	if flags.Changed("fail") {
		v, _ := flags.GetFloat64("fail")
		o.FailMs = &v
	}
	if flags.Changed("inline") {
		v, _ := flags.GetBool("inline")
		o.Inline = &v
	}
	if flags.Changed("working-dir") {
		v, _ := flags.GetString("working-dir")
		o.WorkingDir = &v
	}
	if flags.Changed("sink") {
		v, _ := flags.GetString("sink")
		o.SinkType = &v
	}
	if flags.Changed("format") {
		v, _ := flags.GetString("format")
		o.Format = &v
	}
	if flags.Changed("github-repo") {
		v, _ := flags.GetString("github-repo")
		o.Repository = &v
	}
	if flags.Changed("github-pr") {
		v, _ := flags.GetInt("github-pr")
		o.PullRequest = &v
	}
	if flags.Changed("github-sha") {
		v, _ := flags.GetString("github-sha")
		o.CommitSHA = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if flags.Changed("log-json") {
		v, _ := flags.GetBool("log-json")
		o.LogJSON = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		o.Concurrency = &v
	}
	return o
}
