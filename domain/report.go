package domain

// Severity is the outcome of comparing a measurement to the thresholds
type Severity string

const (
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

// String returns the severity label used in console output
func (s Severity) String() string {
	switch s {
	case SeverityFail:
		return "FAIL"
	case SeverityWarn:
		return "WARN"
	default:
		return string(s)
	}
}

// ReportEntry is one classified measurement ready to be posted
type ReportEntry struct {
	Severity    Severity  `json:"severity" yaml:"severity"`
	Message     string    `json:"message" yaml:"message"`
	Location    *Location `json:"location,omitempty" yaml:"location,omitempty"`
	Identifier  string    `json:"identifier" yaml:"identifier"`
	DurationMs  float64   `json:"duration_ms" yaml:"duration_ms"`
	ThresholdMs float64   `json:"threshold_ms" yaml:"threshold_ms"`
}

// Report holds the two output channels of one report run.
// Both slices keep the order of the source measurements.
type Report struct {
	Inline  []ReportEntry `json:"inline,omitempty" yaml:"inline,omitempty"`
	Summary []ReportEntry `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// IsEmpty reports whether the run produced no entries
func (r Report) IsEmpty() bool {
	return len(r.Inline) == 0 && len(r.Summary) == 0
}

// Count returns the number of entries with the given severity across both channels
func (r Report) Count(severity Severity) int {
	n := 0
	for _, e := range r.Inline {
		if e.Severity == severity {
			n++
		}
	}
	for _, e := range r.Summary {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

// HasFailures reports whether any entry is a failure
func (r Report) HasFailures() bool {
	return r.Count(SeverityFail) > 0
}
