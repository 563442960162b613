package service

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl writes a RunResult as text, JSON or YAML
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// Write writes the run result in the given format
func (f *OutputFormatterImpl) Write(result *domain.RunResult, format string, writer io.Writer) error {
	var err error
	switch format {
	case constants.OutputFormatJSON:
		err = WriteJSON(writer, result)
	case constants.OutputFormatYAML:
		err = WriteYAML(writer, result)
	case constants.OutputFormatText, "":
		err = f.writeText(result, writer)
	default:
		return domain.NewUnsupportedFormatError(format)
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

// writeText prints a short per-target overview. The entries themselves
// have already gone through the comment sink.
func (f *OutputFormatterImpl) writeText(result *domain.RunResult, writer io.Writer) error {
	s := result.Summary

	if _, err := fmt.Fprintf(writer, "\n=== %s Compilation Time Report ===\n", constants.ToolName); err != nil {
		return err
	}
	fmt.Fprintf(writer, "Generated: %s\n", result.GeneratedAt)
	fmt.Fprintf(writer, "Duration: %dms\n", result.Duration)
	fmt.Fprintf(writer, "Version: %s\n\n", result.Version)

	fmt.Fprintf(writer, "Targets:\n")
	for _, t := range result.Targets {
		if t.Error != "" {
			fmt.Fprintf(writer, "  %s: failed (%s)\n", t.Target, t.Error)
			continue
		}
		if t.Skipped {
			fmt.Fprintf(writer, "  %s: skipped (%s)\n", t.Target, t.Warning)
			continue
		}
		fmt.Fprintf(writer, "  %s: %d warn, %d fail (%d measured",
			t.Target, t.Report.Count(domain.SeverityWarn), t.Report.Count(domain.SeverityFail), t.Measured)
		if t.Ignored > 0 {
			fmt.Fprintf(writer, ", %d ignored", t.Ignored)
		}
		fmt.Fprintf(writer, ")\n")
	}

	fmt.Fprintf(writer, "\nSummary:\n")
	fmt.Fprintf(writer, "  Targets reported: %d/%d\n", s.TargetsReported, s.TargetsRequested)
	if s.TargetsSkipped > 0 {
		fmt.Fprintf(writer, "  Targets skipped: %d\n", s.TargetsSkipped)
	}
	if s.TargetsFailed > 0 {
		fmt.Fprintf(writer, "  Targets failed: %d\n", s.TargetsFailed)
	}
	fmt.Fprintf(writer, "  Warnings: %d\n", s.WarnEntries)
	fmt.Fprintf(writer, "  Failures: %d\n", s.FailEntries)
	fmt.Fprintf(writer, "  Inline annotations: %d\n", s.InlineEntries)

	status := "PASSED"
	if !result.Passed {
		status = "FAILED"
	}
	_, err := fmt.Fprintf(writer, "\nResult: %s\n", status)
	return err
}
