package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/ludo-technologies/xcprof/domain"
)

// ActionsSink emits GitHub Actions workflow commands, which the runner turns
// into check annotations on the pull request.
type ActionsSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewActionsSink creates an Actions sink writing to w (normally stdout)
func NewActionsSink(w io.Writer) *ActionsSink {
	return &ActionsSink{w: w}
}

// PlainText reports that summaries should be rendered without Markdown
func (s *ActionsSink) PlainText() bool { return true }

// PostSummary emits the summary as one notice
func (s *ActionsSink) PostSummary(_ context.Context, text string) error {
	return s.command("notice", map[string]string{"title": "Compilation time report"}, strings.TrimRight(text, "\n"))
}

// PostInlineAnnotation emits ::warning or ::error for the file and line
func (s *ActionsSink) PostInlineAnnotation(_ context.Context, file string, line int, severity domain.Severity, text string) error {
	cmd := "warning"
	if severity == domain.SeverityFail {
		cmd = "error"
	}
	return s.command(cmd, map[string]string{"file": file, "line": strconv.Itoa(line)}, text)
}

// PostWarning emits an unlocated ::warning
func (s *ActionsSink) PostWarning(_ context.Context, text string) error {
	return s.command("warning", nil, text)
}

// property order is fixed so output is stable
var actionsPropertyOrder = []string{"title", "file", "line"}

func (s *ActionsSink) command(name string, props map[string]string, message string) error {
	var sb strings.Builder
	sb.WriteString("::")
	sb.WriteString(name)

	first := true
	for _, key := range actionsPropertyOrder {
		value, ok := props[key]
		if !ok {
			continue
		}
		if first {
			sb.WriteByte(' ')
			first = false
		} else {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%s=%s", key, EscapeActionsProperty(value))
	}

	sb.WriteString("::")
	sb.WriteString(EscapeActionsData(message))
	sb.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := io.WriteString(s.w, sb.String())
	return err
}

// EscapeActionsData escapes a workflow command message
func EscapeActionsData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

// EscapeActionsProperty escapes a workflow command property value
func EscapeActionsProperty(s string) string {
	s = EscapeActionsData(s)
	s = strings.ReplaceAll(s, ":", "%3A")
	return strings.ReplaceAll(s, ",", "%2C")
}
