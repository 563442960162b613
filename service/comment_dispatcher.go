package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/reporter"
	"go.uber.org/zap"
)

// PlainTextSink is implemented by sinks that cannot render Markdown
type PlainTextSink interface {
	PlainText() bool
}

type annotationKey struct {
	file     string
	line     int
	severity domain.Severity
	text     string
}

// CommentDispatcher forwards reports to a CommentSink. It is shared by all
// targets of a run; identical inline annotations are posted once per run.
type CommentDispatcher struct {
	sink   domain.CommentSink
	logger *zap.SugaredLogger

	mu   sync.Mutex
	seen map[annotationKey]struct{}
}

// NewCommentDispatcher creates a dispatcher for sink
func NewCommentDispatcher(sink domain.CommentSink, logger *zap.SugaredLogger) *CommentDispatcher {
	return &CommentDispatcher{
		sink:   sink,
		logger: logger,
		seen:   make(map[annotationKey]struct{}),
	}
}

// Dispatch posts the summary (when there are summary entries) and then every
// inline entry in order. It stops at the first sink error.
func (d *CommentDispatcher) Dispatch(ctx context.Context, report domain.Report) error {
	if report.IsEmpty() {
		return nil
	}

	if len(report.Summary) > 0 {
		text := d.renderSummary(report.Summary)
		if err := d.sink.PostSummary(ctx, text); err != nil {
			return domain.NewSinkError("failed to post summary", err)
		}
	}

	for _, e := range report.Inline {
		key := annotationKey{file: e.Location.FilePath, line: e.Location.Line, severity: e.Severity, text: e.Message}
		if !d.claim(key) {
			d.logger.Debugw("skipping duplicate annotation", "file", key.file, "line", key.line)
			continue
		}
		if err := d.sink.PostInlineAnnotation(ctx, key.file, key.line, e.Severity, e.Message); err != nil {
			return domain.NewSinkError(fmt.Sprintf("failed to annotate %s:%d", key.file, key.line), err)
		}
	}
	return nil
}

// Warn posts a standalone warning
func (d *CommentDispatcher) Warn(ctx context.Context, text string) error {
	if err := d.sink.PostWarning(ctx, text); err != nil {
		return domain.NewSinkError("failed to post warning", err)
	}
	return nil
}

func (d *CommentDispatcher) renderSummary(entries []domain.ReportEntry) string {
	if p, ok := d.sink.(PlainTextSink); ok && p.PlainText() {
		return reporter.RenderPlainSummary(entries)
	}
	return reporter.RenderSummary(entries)
}

// claim reports whether key has not been posted yet and marks it posted
func (d *CommentDispatcher) claim(key annotationKey) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
