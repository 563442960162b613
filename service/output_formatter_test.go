package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/constants"
	"gopkg.in/yaml.v3"
)

func sampleRunResult() *domain.RunResult {
	result := &domain.RunResult{
		GeneratedAt: "2026-01-02T03:04:05Z",
		Duration:    1234,
		Version:     "1.2.3",
		Targets: []domain.TargetResult{
			{
				Target:   "App",
				Source:   domain.SourceProductName,
				Measured: 10,
				Ignored:  2,
				Report: domain.Report{
					Inline: []domain.ReportEntry{{
						Severity: domain.SeverityFail,
						Message:  "`A.init` takes 150 ms to build (FAIL threshold: 100 ms)",
						Location: &domain.Location{FilePath: "A.swift", Line: 3},
					}},
					Summary: []domain.ReportEntry{{
						Severity: domain.SeverityWarn,
						Message:  "`B` takes 60 ms to build (WARN threshold: 50 ms)",
					}},
				},
			},
			{
				Target:  "Widget",
				Source:  domain.SourceProductName,
				Skipped: true,
				Warning: "derived data not found",
			},
		},
	}
	result.Summarize()
	return result
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]interface{}{"name": "test", "value": 42}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleRunResult(), constants.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded domain.RunResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Passed || decoded.ExitCode != 1 {
		t.Errorf("expected failing result, got passed=%v exit=%d", decoded.Passed, decoded.ExitCode)
	}
	if decoded.Summary.FailEntries != 1 || decoded.Summary.TargetsSkipped != 1 {
		t.Errorf("unexpected summary: %+v", decoded.Summary)
	}
	if !strings.Contains(buf.String(), `"severity": "fail"`) {
		t.Errorf("severity should be serialized lowercase:\n%s", buf.String())
	}
}

func TestOutputFormatter_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleRunResult(), constants.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if decoded["version"] != "1.2.3" {
		t.Errorf("version = %v", decoded["version"])
	}
	if !strings.Contains(buf.String(), "duration_ms: 1234") {
		t.Errorf("expected duration in output:\n%s", buf.String())
	}
}

func TestOutputFormatter_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleRunResult(), constants.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Compilation Time Report",
		"App: 1 warn, 1 fail (10 measured, 2 ignored)",
		"Widget: skipped (derived data not found)",
		"Targets reported: 1/2",
		"Result: FAILED",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestOutputFormatter_TextFailedTarget(t *testing.T) {
	result := sampleRunResult()
	result.Targets = append(result.Targets, domain.TargetResult{
		Target: "Slow",
		Source: domain.SourceProductName,
		Error:  "context deadline exceeded",
	})
	result.Summarize()

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(result, constants.OutputFormatText, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Slow: failed (context deadline exceeded)",
		"Targets reported: 1/3",
		"Targets failed: 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Slow: 0 warn") {
		t.Errorf("a failed target must not be shown as reported:\n%s", out)
	}
}

func TestOutputFormatter_JSONComments(t *testing.T) {
	result := sampleRunResult()
	result.Comments = []domain.PostedComment{
		{Kind: domain.CommentInline, File: "A.swift", Line: 3, Severity: domain.SeverityFail, Text: "slow"},
		{Kind: domain.CommentWarning, Text: "cannot profile Widget: derived data not found"},
	}

	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(result, constants.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var decoded domain.RunResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Comments) != 2 || decoded.Comments[0].Kind != domain.CommentInline || decoded.Comments[0].Line != 3 {
		t.Errorf("comments should round-trip: %+v", decoded.Comments)
	}
}

func TestOutputFormatter_UnsupportedFormat(t *testing.T) {
	err := NewOutputFormatter().Write(sampleRunResult(), "html", &bytes.Buffer{})

	var de domain.DomainError
	if !errors.As(err, &de) || de.Code != domain.ErrCodeUnsupportedFormat {
		t.Errorf("expected UNSUPPORTED_FORMAT, got %v", err)
	}
}
