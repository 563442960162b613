package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Default values for the parallel executor
const (
	// DefaultMaxConcurrency profiles one target at a time
	DefaultMaxConcurrency = config.DefaultMaxGoroutines
	DefaultTimeout        = config.DefaultRunTimeoutSeconds * time.Second

	// DefaultTaskDescription labels the progress bar
	DefaultTaskDescription = "Profiling targets"
)

// TaskError represents a single task failure
type TaskError struct {
	// Index is the task's position in the submitted list
	Index    int
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects all task failures in submission order
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d targets failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns every task error so errors.Is/As see all of them
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors))
	for _, te := range e.Errors {
		errs = append(errs, te)
	}
	return errs
}

// ParallelExecutorImpl implements domain.ParallelExecutor. A failing task
// never cancels the others; every failure is collected.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	description    string
	progress       domain.ProgressManager
	logger         *zap.SugaredLogger
	mu             sync.RWMutex
}

// NewParallelExecutor creates a sequential executor with the default timeout
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: DefaultMaxConcurrency,
		timeout:        DefaultTimeout,
		description:    DefaultTaskDescription,
		logger:         zap.NewNop().Sugar(),
	}
}

// NewParallelExecutorFromConfig creates a parallel executor from configuration
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	if cfg.MaxGoroutines > 0 {
		executor.maxConcurrency = cfg.MaxGoroutines
	}
	if cfg.TimeoutSeconds > 0 {
		executor.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return executor
}

// NewParallelExecutorWithProgress creates a parallel executor with progress tracking
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager, logger *zap.SugaredLogger) *ParallelExecutorImpl {
	executor := NewParallelExecutorFromConfig(cfg)
	executor.progress = pm
	if logger != nil {
		executor.logger = logger
	}
	return executor
}

// Execute runs the enabled tasks with the configured concurrency and timeout.
// Tasks that never started because the deadline passed are reported as failures.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := e.filterEnabledTasks(tasks)
	if len(enabled) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	description := e.description
	e.mu.RUnlock()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var progress domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		progress = e.progress.StartTask(description, len(enabled))
	}
	defer progress.Complete()

	g, gCtx := errgroup.WithContext(timeoutCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var taskErrors []TaskError
	collect := func(te TaskError) {
		errMu.Lock()
		taskErrors = append(taskErrors, te)
		errMu.Unlock()
	}

	for _, it := range enabled {
		it := it // per-iteration copy (go1.21 loop semantics)
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				collect(TaskError{Index: it.index, TaskName: it.task.Name(), Err: err})
				return nil
			}

			progress.Describe(it.task.Name())
			start := time.Now()
			_, err := it.task.Execute(gCtx)
			progress.Increment(1)

			if err != nil {
				e.logger.Debugw("task failed", "task", it.task.Name(), "error", err)
				collect(TaskError{Index: it.index, TaskName: it.task.Name(), Err: err})
				return nil
			}
			e.logger.Debugw("task finished", "task", it.task.Name(), "elapsed", time.Since(start))
			return nil
		})
	}

	// goroutines always return nil; failures live in taskErrors
	_ = g.Wait()

	if len(taskErrors) > 0 {
		sort.Slice(taskErrors, func(i, j int) bool { return taskErrors[i].Index < taskErrors[j].Index })
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for the whole run
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// SetDescription changes the progress bar label
func (e *ParallelExecutorImpl) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if description != "" {
		e.description = description
	}
}

type indexedTask struct {
	index int
	task  domain.ExecutableTask
}

// filterEnabledTasks keeps tasks where IsEnabled() is true, remembering their position
func (e *ParallelExecutorImpl) filterEnabledTasks(tasks []domain.ExecutableTask) []indexedTask {
	enabled := make([]indexedTask, 0, len(tasks))
	for i, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, indexedTask{index: i, task: t})
		}
	}
	return enabled
}
