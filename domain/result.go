package domain

// SourceKind tells which profiler entry point served a target
type SourceKind string

const (
	SourceProductName SourceKind = "product"
	SourceLogPath     SourceKind = "log"
	SourceReportFile  SourceKind = "report"
)

// ReportRequest is everything one report run needs. All defaults are
// resolved by the caller before the request is built.
type ReportRequest struct {
	// Targets are product names, .xcactivitylog paths or saved report files
	Targets []string

	// WorkingDir resolves relative log paths and relativizes annotated files
	WorkingDir string

	Thresholds Thresholds
	Inline     bool

	// IgnorePatterns are gitignore-style patterns matched against measurement files
	IgnorePatterns []string
}

// TargetResult is the outcome for one target
type TargetResult struct {
	Target     string     `json:"target" yaml:"target"`
	Source     SourceKind `json:"source" yaml:"source"`
	Skipped    bool       `json:"skipped" yaml:"skipped"`
	Warning    string     `json:"warning,omitempty" yaml:"warning,omitempty"`
	// Error is set when the target failed or never ran
	Error      string     `json:"error,omitempty" yaml:"error,omitempty"`
	Measured   int        `json:"measured" yaml:"measured"`
	Ignored    int        `json:"ignored,omitempty" yaml:"ignored,omitempty"`
	Report     Report     `json:"report" yaml:"report"`
	DurationMs int64      `json:"duration_ms" yaml:"duration_ms"`
}

// RunResult is the outcome of a report run across all targets
type RunResult struct {
	Passed      bool            `json:"passed" yaml:"passed"`
	ExitCode    int             `json:"exit_code" yaml:"exit_code"`
	Targets     []TargetResult  `json:"targets" yaml:"targets"`
	Summary     RunSummary      `json:"summary" yaml:"summary"`
	// Comments holds what would have been posted when the result itself
	// is the output (json/yaml with the console sink)
	Comments    []PostedComment `json:"comments,omitempty" yaml:"comments,omitempty"`
	Duration    int64           `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string          `json:"generated_at" yaml:"generated_at"`
	Version     string          `json:"version" yaml:"version"`
}

// RunSummary provides aggregate statistics
type RunSummary struct {
	TargetsRequested int `json:"targets_requested" yaml:"targets_requested"`
	TargetsReported  int `json:"targets_reported" yaml:"targets_reported"`
	TargetsSkipped   int `json:"targets_skipped" yaml:"targets_skipped"`
	TargetsFailed    int `json:"targets_failed" yaml:"targets_failed"`
	TotalEntries     int `json:"total_entries" yaml:"total_entries"`
	WarnEntries      int `json:"warn_entries" yaml:"warn_entries"`
	FailEntries      int `json:"fail_entries" yaml:"fail_entries"`
	InlineEntries    int `json:"inline_entries" yaml:"inline_entries"`
}

// Summarize recomputes the summary, Passed and ExitCode from Targets
func (r *RunResult) Summarize() {
	s := RunSummary{TargetsRequested: len(r.Targets)}
	for _, t := range r.Targets {
		if t.Error != "" {
			s.TargetsFailed++
			continue
		}
		if t.Skipped {
			s.TargetsSkipped++
			continue
		}
		s.TargetsReported++
		s.WarnEntries += t.Report.Count(SeverityWarn)
		s.FailEntries += t.Report.Count(SeverityFail)
		s.InlineEntries += len(t.Report.Inline)
	}
	s.TotalEntries = s.WarnEntries + s.FailEntries
	r.Summary = s
	r.Passed = s.FailEntries == 0 && s.TargetsFailed == 0
	switch {
	case s.TargetsFailed > 0:
		r.ExitCode = 2
	case s.FailEntries > 0:
		r.ExitCode = 1
	default:
		r.ExitCode = 0
	}
}

// CommentKind identifies which CommentSink method produced a PostedComment
type CommentKind string

const (
	CommentSummary CommentKind = "summary"
	CommentInline  CommentKind = "inline"
	CommentWarning CommentKind = "warning"
)

// PostedComment is one captured sink call
type PostedComment struct {
	Kind     CommentKind `json:"kind" yaml:"kind"`
	File     string      `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int         `json:"line,omitempty" yaml:"line,omitempty"`
	Severity Severity    `json:"severity,omitempty" yaml:"severity,omitempty"`
	Text     string      `json:"text" yaml:"text"`
}
