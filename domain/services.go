package domain

import "context"

// Profiler produces compile-time measurements for a build target.
// Both methods fail with an error matching ErrDerivedDataNotFound or
// ErrBuildFlagNotEnabled when the build artifacts are unusable.
type Profiler interface {
	// ByProductName locates the latest build log for the named product
	ByProductName(ctx context.Context, name string) ([]Measurement, error)

	// ByLogPath reads the given .xcactivitylog
	ByLogPath(ctx context.Context, path string) ([]Measurement, error)
}

// CommentSink is where report entries end up: a review host, CI log or terminal
type CommentSink interface {
	// PostSummary posts one aggregate comment for non-inline entries
	PostSummary(ctx context.Context, text string) error

	// PostInlineAnnotation attaches a comment to a file and line
	PostInlineAnnotation(ctx context.Context, file string, line int, severity Severity, text string) error

	// PostWarning posts a standalone warning, used when a target cannot be profiled
	PostWarning(ctx context.Context, text string) error
}

// ProgressManager creates progress indicators for long-running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}

// ExecutableTask is a unit of work for the parallel executor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ReportDispatcher forwards classified reports to a CommentSink
type ReportDispatcher interface {
	// Dispatch posts the summary and inline entries of one report
	Dispatch(ctx context.Context, report Report) error

	// Warn posts a standalone warning
	Warn(ctx context.Context, text string) error
}

// MeasurementFilter drops and rewrites measurements before classification
type MeasurementFilter interface {
	// Apply returns the kept measurements in order and the number dropped
	Apply(measurements []Measurement) ([]Measurement, int)
}
