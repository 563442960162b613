package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/reporter"
	"github.com/ludo-technologies/xcprof/internal/version"
	"go.uber.org/zap"
)

const errTargetNotRun = "target did not run before the run was cancelled or timed out"

// ReportUseCase profiles each target, classifies the measurements and
// forwards the resulting entries to the dispatcher
type ReportUseCase struct {
	profiler       domain.Profiler
	reportProfiler domain.Profiler
	dispatcher     domain.ReportDispatcher
	executor       domain.ParallelExecutor
	filter         domain.MeasurementFilter
	fileHelper     *FileHelper
	logger         *zap.SugaredLogger
	now            func() time.Time
}

// Execute runs a report over every target in req. Targets whose build data
// is unavailable produce a single warning and are skipped. Other failures
// do not stop the remaining targets; they are returned together after all
// targets finish, alongside the partial result.
func (uc *ReportUseCase) Execute(ctx context.Context, req domain.ReportRequest) (*domain.RunResult, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	start := uc.now()
	results := make([]domain.TargetResult, len(req.Targets))
	tasks := make([]domain.ExecutableTask, len(req.Targets))
	for i, target := range req.Targets {
		i, target := i, target // per-iteration copy (go1.21 loop semantics)
		// stays in place when the executor gives up before the task starts
		results[i] = domain.TargetResult{
			Target: target,
			Source: uc.fileHelper.SourceKind(target),
			Error:  errTargetNotRun,
		}
		tasks[i] = &targetTask{
			name: target,
			run: func(ctx context.Context) error {
				res, err := uc.reportTarget(ctx, target, req)
				if err != nil {
					res.Error = err.Error()
				}
				results[i] = res
				return err
			},
		}
	}

	var execErr error
	if uc.executor != nil {
		execErr = uc.executor.Execute(ctx, tasks)
	} else {
		execErr = runSequentially(ctx, tasks)
	}

	result := &domain.RunResult{
		Targets:     results,
		GeneratedAt: start.UTC().Format(time.RFC3339),
		Version:     version.GetVersion(),
		Duration:    uc.now().Sub(start).Milliseconds(),
	}
	result.Summarize()

	uc.logger.Infow("report finished",
		"targets", result.Summary.TargetsRequested,
		"skipped", result.Summary.TargetsSkipped,
		"failed", result.Summary.TargetsFailed,
		"warn", result.Summary.WarnEntries,
		"fail", result.Summary.FailEntries,
	)

	if execErr != nil {
		result.ExitCode = 2
		return result, execErr
	}
	return result, nil
}

// reportTarget handles one target. The returned TargetResult is meaningful
// even when an error is returned.
func (uc *ReportUseCase) reportTarget(ctx context.Context, target string, req domain.ReportRequest) (domain.TargetResult, error) {
	started := uc.now()
	res := domain.TargetResult{Target: target, Source: uc.fileHelper.SourceKind(target)}
	log := uc.logger.With("target", target, "source", res.Source)

	measurements, err := uc.profile(ctx, target, res.Source, req.WorkingDir)
	if err != nil {
		if !domain.IsSourceUnavailable(err) {
			log.Errorw("profiling failed", "error", err)
			return res, err
		}

		res.Skipped = true
		res.Warning = fmt.Sprintf("cannot profile %s: %s", target, domain.SourceUnavailableMessage(err))
		log.Warnw("target skipped", "reason", domain.SourceUnavailableMessage(err))
		if werr := uc.dispatcher.Warn(ctx, res.Warning); werr != nil {
			return res, werr
		}
		return res, nil
	}

	res.Measured = len(measurements)
	if uc.filter != nil {
		measurements, res.Ignored = uc.filter.Apply(measurements)
	}

	res.Report = reporter.ClassifyAndReport(measurements, req.Thresholds, req.Inline)
	res.DurationMs = uc.now().Sub(started).Milliseconds()

	log.Infow("target profiled",
		"measured", res.Measured,
		"ignored", res.Ignored,
		"warn", res.Report.Count(domain.SeverityWarn),
		"fail", res.Report.Count(domain.SeverityFail),
	)

	if err := uc.dispatcher.Dispatch(ctx, res.Report); err != nil {
		log.Errorw("posting comments failed", "error", err)
		return res, err
	}
	return res, nil
}

func (uc *ReportUseCase) profile(ctx context.Context, target string, kind domain.SourceKind, workingDir string) ([]domain.Measurement, error) {
	switch kind {
	case domain.SourceLogPath:
		return uc.profiler.ByLogPath(ctx, uc.fileHelper.ResolvePath(target, workingDir))
	case domain.SourceReportFile:
		return uc.reportProfiler.ByLogPath(ctx, uc.fileHelper.ResolvePath(target, workingDir))
	default:
		return uc.profiler.ByProductName(ctx, target)
	}
}

// validateRequest validates the report request
func (uc *ReportUseCase) validateRequest(req domain.ReportRequest) error {
	if len(req.Targets) == 0 {
		return fmt.Errorf("no targets specified")
	}
	return req.Thresholds.Validate()
}

// targetTask adapts one target to domain.ExecutableTask
type targetTask struct {
	name string
	run  func(ctx context.Context) error
}

func (t *targetTask) Name() string    { return t.name }
func (t *targetTask) IsEnabled() bool { return true }

func (t *targetTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}

// runSequentially is used when no executor is configured
func runSequentially(ctx context.Context, tasks []domain.ExecutableTask) error {
	var errs []error
	for _, t := range tasks {
		if _, err := t.Execute(ctx); err != nil {
			errs = append(errs, fmt.Errorf("[%s] %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// ReportUseCaseBuilder provides a builder pattern for creating ReportUseCase
type ReportUseCaseBuilder struct {
	profiler       domain.Profiler
	reportProfiler domain.Profiler
	dispatcher     domain.ReportDispatcher
	executor       domain.ParallelExecutor
	filter         domain.MeasurementFilter
	fileHelper     *FileHelper
	logger         *zap.SugaredLogger
}

// NewReportUseCaseBuilder creates a new builder
func NewReportUseCaseBuilder() *ReportUseCaseBuilder {
	return &ReportUseCaseBuilder{}
}

// WithProfiler sets the profiler used for product names and build logs
func (b *ReportUseCaseBuilder) WithProfiler(p domain.Profiler) *ReportUseCaseBuilder {
	b.profiler = p
	return b
}

// WithReportProfiler sets the profiler used for saved report files
func (b *ReportUseCaseBuilder) WithReportProfiler(p domain.Profiler) *ReportUseCaseBuilder {
	b.reportProfiler = p
	return b
}

// WithDispatcher sets where report entries are posted
func (b *ReportUseCaseBuilder) WithDispatcher(d domain.ReportDispatcher) *ReportUseCaseBuilder {
	b.dispatcher = d
	return b
}

// WithExecutor sets the executor that runs targets
func (b *ReportUseCaseBuilder) WithExecutor(e domain.ParallelExecutor) *ReportUseCaseBuilder {
	b.executor = e
	return b
}

// WithFilter sets the measurement filter
func (b *ReportUseCaseBuilder) WithFilter(f domain.MeasurementFilter) *ReportUseCaseBuilder {
	b.filter = f
	return b
}

// WithFileHelper sets the file helper
func (b *ReportUseCaseBuilder) WithFileHelper(h *FileHelper) *ReportUseCaseBuilder {
	b.fileHelper = h
	return b
}

// WithLogger sets the logger
func (b *ReportUseCaseBuilder) WithLogger(l *zap.SugaredLogger) *ReportUseCaseBuilder {
	b.logger = l
	return b
}

// Build creates the ReportUseCase with the configured dependencies
func (b *ReportUseCaseBuilder) Build() (*ReportUseCase, error) {
	if b.profiler == nil {
		return nil, fmt.Errorf("profiler is required")
	}
	if b.dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}

	uc := &ReportUseCase{
		profiler:       b.profiler,
		reportProfiler: b.reportProfiler,
		dispatcher:     b.dispatcher,
		executor:       b.executor,
		filter:         b.filter,
		fileHelper:     b.fileHelper,
		logger:         b.logger,
		now:            time.Now,
	}
	if uc.reportProfiler == nil {
		uc.reportProfiler = b.profiler
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	if uc.logger == nil {
		uc.logger = zap.NewNop().Sugar()
	}
	return uc, nil
}
