package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ludo-technologies/xcprof/domain"
)

// ConsoleSink writes comments as plain text, e.g. to a terminal
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a console sink writing to w
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// PlainText reports that summaries should be rendered without Markdown
func (s *ConsoleSink) PlainText() bool { return true }

// PostSummary writes the summary block
func (s *ConsoleSink) PostSummary(_ context.Context, text string) error {
	return s.write(strings.TrimRight(text, "\n") + "\n")
}

// PostInlineAnnotation writes "SEVERITY file:line message"
func (s *ConsoleSink) PostInlineAnnotation(_ context.Context, file string, line int, severity domain.Severity, text string) error {
	return s.write(fmt.Sprintf("%s %s:%d %s\n", severity, file, line, text))
}

// PostWarning writes a warning line
func (s *ConsoleSink) PostWarning(_ context.Context, text string) error {
	return s.write(fmt.Sprintf("WARNING %s\n", text))
}

func (s *ConsoleSink) write(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, text)
	return err
}
