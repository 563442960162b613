// Package reporter classifies compile-time measurements against warn/fail
// thresholds and routes the results to inline or summary output.
package reporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
)

// SummaryHeader is the first line of a rendered summary
const SummaryHeader = "### Compilation time report"

// Classify returns the severity of m under th. The fail comparison runs
// first, so a measurement meeting both cutoffs is always a failure.
// ok is false when the measurement is below the warn cutoff.
func Classify(m domain.Measurement, th domain.Thresholds) (severity domain.Severity, threshold float64, ok bool) {
	switch {
	case m.DurationMs >= th.FailMs:
		return domain.SeverityFail, th.FailMs, true
	case m.DurationMs >= th.WarnMs:
		return domain.SeverityWarn, th.WarnMs, true
	default:
		return "", 0, false
	}
}

// FormatMessage renders the human-readable message for a classified measurement
func FormatMessage(m domain.Measurement, severity domain.Severity, threshold float64) string {
	return fmt.Sprintf("`%s` takes %s ms to build (%s threshold: %s ms)",
		m.Identifier, FormatMs(m.DurationMs), severity, FormatMs(threshold))
}

// FormatMs prints a millisecond value without a trailing ".0"
func FormatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

// ClassifyAndReport classifies every measurement and routes each resulting
// entry to the inline channel (inline mode and a known location) or to the
// summary channel. Measurements below the warn cutoff produce nothing.
func ClassifyAndReport(measurements []domain.Measurement, th domain.Thresholds, inline bool) domain.Report {
	var report domain.Report
	for _, m := range measurements {
		severity, threshold, ok := Classify(m, th)
		if !ok {
			continue
		}

		entry := domain.ReportEntry{
			Severity:    severity,
			Message:     FormatMessage(m, severity, threshold),
			Identifier:  m.Identifier,
			DurationMs:  m.DurationMs,
			ThresholdMs: threshold,
		}

		if inline && m.HasLocation() {
			loc := *m.Location
			entry.Location = &loc
			report.Inline = append(report.Inline, entry)
			continue
		}
		report.Summary = append(report.Summary, entry)
	}
	return report
}

// RenderSummary concatenates summary entries into one Markdown comment.
// It returns "" for no entries.
func RenderSummary(entries []domain.ReportEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(SummaryHeader)
	sb.WriteString("\n\n|   | Message |\n|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "| %s | %s |\n", SeverityEmoji(e.Severity), escapeCell(e.Message))
	}
	return sb.String()
}

// RenderPlainSummary renders summary entries one per line without Markdown
func RenderPlainSummary(entries []domain.ReportEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "[%s] %s\n", e.Severity, e.Message)
	}
	return sb.String()
}

// SeverityEmoji is the GitHub emoji shortcode shown next to an entry
func SeverityEmoji(s domain.Severity) string {
	if s == domain.SeverityFail {
		return ":no_entry_sign:"
	}
	return ":warning:"
}

// escapeCell keeps pipes inside Swift signatures from breaking the table
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
