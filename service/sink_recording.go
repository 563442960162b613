package service

import (
	"context"
	"sync"

	"github.com/ludo-technologies/xcprof/domain"
)

// RecordingSink keeps every post in memory. Structured output formats use it
// so nothing but the formatted result reaches stdout; the posts are then
// emitted as RunResult.Comments.
type RecordingSink struct {
	mu    sync.Mutex
	posts []domain.PostedComment
}

// NewRecordingSink creates an empty recording sink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

// PostSummary records a summary
func (s *RecordingSink) PostSummary(_ context.Context, text string) error {
	s.record(domain.PostedComment{Kind: domain.CommentSummary, Text: text})
	return nil
}

// PostInlineAnnotation records an inline annotation
func (s *RecordingSink) PostInlineAnnotation(_ context.Context, file string, line int, severity domain.Severity, text string) error {
	s.record(domain.PostedComment{Kind: domain.CommentInline, File: file, Line: line, Severity: severity, Text: text})
	return nil
}

// PostWarning records a warning
func (s *RecordingSink) PostWarning(_ context.Context, text string) error {
	s.record(domain.PostedComment{Kind: domain.CommentWarning, Text: text})
	return nil
}

// Posts returns a copy of everything recorded so far
func (s *RecordingSink) Posts() []domain.PostedComment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PostedComment(nil), s.posts...)
}

// Count returns how many posts of the given kind were recorded
func (s *RecordingSink) Count(kind domain.CommentKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.posts {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func (s *RecordingSink) record(p domain.PostedComment) {
	s.mu.Lock()
	s.posts = append(s.posts, p)
	s.mu.Unlock()
}
