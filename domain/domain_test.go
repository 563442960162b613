package domain

import (
	"errors"
	"fmt"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Error("Unwrap should return the cause")
	}

	// Without cause
	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewInvalidInputError(t *testing.T) {
	cause := errors.New("invalid")
	err := NewInvalidInputError("bad input", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewParseError(t *testing.T) {
	cause := errors.New("syntax error")
	err := NewParseError("report.json", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeParseError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeParseError, domainErr.Code)
	}
}

func TestNewAnalysisError(t *testing.T) {
	err := NewAnalysisError("analysis failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeAnalysisError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeAnalysisError, domainErr.Code)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("invalid config", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeConfigError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeConfigError, domainErr.Code)
	}
}

func TestNewOutputError(t *testing.T) {
	err := NewOutputError("write failed", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeOutputError {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeOutputError, domainErr.Code)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("xml")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedFormat {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedFormat, domainErr.Code)
	}
	if domainErr.Message != "unsupported format: xml" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}


func TestNewSourceUnavailableError(t *testing.T) {
	err := NewSourceUnavailableError("MyApp", ErrDerivedDataNotFound)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeSourceUnavailable {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeSourceUnavailable, domainErr.Code)
	}
	if !errors.Is(err, ErrDerivedDataNotFound) {
		t.Error("Source unavailable error should wrap the profiler sentinel")
	}
}

func TestIsSourceUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"derived data sentinel", ErrDerivedDataNotFound, true},
		{"build flag sentinel", ErrBuildFlagNotEnabled, true},
		{"wrapped sentinel", fmt.Errorf("profiling MyApp: %w", ErrBuildFlagNotEnabled), true},
		{"domain error", NewSourceUnavailableError("MyApp", nil), true},
		{"other domain error", NewAnalysisError("boom", nil), false},
		{"plain error", errors.New("exec: not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSourceUnavailable(tt.err); got != tt.want {
				t.Errorf("IsSourceUnavailable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSourceUnavailableMessage(t *testing.T) {
	err := NewSourceUnavailableError("MyApp", ErrBuildFlagNotEnabled)
	if got := SourceUnavailableMessage(err); got != ErrBuildFlagNotEnabled.Error() {
		t.Errorf("Expected sentinel message, got '%s'", got)
	}

	plain := errors.New("something else")
	if got := SourceUnavailableMessage(plain); got != "something else" {
		t.Errorf("Expected error text, got '%s'", got)
	}
}

func TestErrorCodeConstants(t *testing.T) {
	codes := map[string]string{
		ErrCodeInvalidInput:      "INVALID_INPUT",
		ErrCodeFileNotFound:      "FILE_NOT_FOUND",
		ErrCodeParseError:        "PARSE_ERROR",
		ErrCodeAnalysisError:     "ANALYSIS_ERROR",
		ErrCodeConfigError:       "CONFIG_ERROR",
		ErrCodeOutputError:       "OUTPUT_ERROR",
		ErrCodeUnsupportedFormat: "UNSUPPORTED_FORMAT",
		ErrCodeSourceUnavailable: "SOURCE_UNAVAILABLE",
		ErrCodeSinkError:         "SINK_ERROR",
	}

	for code, expected := range codes {
		if code != expected {
			t.Errorf("Error code should be '%s', got '%s'", expected, code)
		}
	}
}

// Measurement tests

func TestNewMeasurement_Location(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		line         int
		wantLocation bool
	}{
		{"file and line", "B.swift", 12, true},
		{"no file", "", 12, false},
		{"no line", "B.swift", 0, false},
		{"negative line", "B.swift", -3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMeasurement("B.run()", tt.file, tt.line, 10)
			if m.HasLocation() != tt.wantLocation {
				t.Fatalf("HasLocation() = %v, want %v", m.HasLocation(), tt.wantLocation)
			}
			if tt.wantLocation && (m.Location.FilePath != tt.file || m.Location.Line != tt.line) {
				t.Errorf("Unexpected location %+v", *m.Location)
			}
		})
	}
}

// Threshold tests

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	if th.WarnMs != 50 || th.FailMs != 100 {
		t.Errorf("Expected effective defaults {50 100}, got %+v", th)
	}

	doc := DocumentedThresholds()
	if doc.WarnMs != 100 || doc.FailMs != 500 {
		t.Errorf("Expected documented defaults {100 500}, got %+v", doc)
	}
}

func TestThresholds_Validate(t *testing.T) {
	if err := (Thresholds{WarnMs: 0, FailMs: 0}).Validate(); err != nil {
		t.Errorf("Zero thresholds should be valid: %v", err)
	}
	if err := (Thresholds{WarnMs: -1, FailMs: 10}).Validate(); err == nil {
		t.Error("Expected error for negative warn threshold")
	}
	if err := (Thresholds{WarnMs: 1, FailMs: -10}).Validate(); err == nil {
		t.Error("Expected error for negative fail threshold")
	}
	if !(Thresholds{WarnMs: 100, FailMs: 50}).Inverted() {
		t.Error("Thresholds with fail < warn should be reported as inverted")
	}
}

func TestBoolValue(t *testing.T) {
	if !BoolValue(nil, true) {
		t.Error("nil should fall back to the default")
	}
	if BoolValue(BoolPtr(false), true) {
		t.Error("explicit false should win over the default")
	}
	if !BoolValue(BoolPtr(true), false) {
		t.Error("explicit true should win over the default")
	}
}

// Report tests

func TestReport_Count(t *testing.T) {
	r := Report{
		Inline: []ReportEntry{
			{Severity: SeverityFail, Location: &Location{FilePath: "A.swift", Line: 1}},
		},
		Summary: []ReportEntry{
			{Severity: SeverityWarn},
			{Severity: SeverityFail},
		},
	}

	if r.Count(SeverityFail) != 2 {
		t.Errorf("Expected 2 failures, got %d", r.Count(SeverityFail))
	}
	if r.Count(SeverityWarn) != 1 {
		t.Errorf("Expected 1 warning, got %d", r.Count(SeverityWarn))
	}
	if !r.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if r.IsEmpty() {
		t.Error("Report should not be empty")
	}
	if !(Report{}).IsEmpty() {
		t.Error("Zero report should be empty")
	}
}

func TestRunResult_Summarize(t *testing.T) {
	result := &RunResult{
		Targets: []TargetResult{
			{Target: "MyApp", Report: Report{Summary: []ReportEntry{{Severity: SeverityWarn}}}},
			{Target: "Missing", Skipped: true, Warning: "derived data not found"},
		},
	}
	result.Summarize()

	if !result.Passed || result.ExitCode != 0 {
		t.Errorf("Warnings only should pass, got passed=%v exit=%d", result.Passed, result.ExitCode)
	}
	if result.Summary.TargetsSkipped != 1 || result.Summary.TargetsReported != 1 {
		t.Errorf("Unexpected target counts: %+v", result.Summary)
	}

	result.Targets[0].Report.Inline = []ReportEntry{{Severity: SeverityFail, Location: &Location{FilePath: "B.swift", Line: 12}}}
	result.Summarize()

	if result.Passed || result.ExitCode != 1 {
		t.Errorf("A failure should fail the run, got passed=%v exit=%d", result.Passed, result.ExitCode)
	}
	if result.Summary.InlineEntries != 1 || result.Summary.TotalEntries != 2 {
		t.Errorf("Unexpected entry counts: %+v", result.Summary)
	}
}

func TestRunResult_SummarizeFailedTargets(t *testing.T) {
	result := &RunResult{
		Targets: []TargetResult{
			{Target: "MyApp", Report: Report{Summary: []ReportEntry{{Severity: SeverityWarn}}}},
			{Target: "Widget", Source: SourceProductName, Error: "context deadline exceeded"},
		},
	}
	result.Summarize()

	if result.Summary.TargetsReported != 1 || result.Summary.TargetsFailed != 1 {
		t.Errorf("A target that never ran must not count as reported: %+v", result.Summary)
	}
	if result.Passed || result.ExitCode != 2 {
		t.Errorf("A failed target should fail the run with exit 2, got passed=%v exit=%d", result.Passed, result.ExitCode)
	}
}

func TestSeverity_String(t *testing.T) {
	if SeverityWarn.String() != "WARN" || SeverityFail.String() != "FAIL" {
		t.Errorf("Unexpected labels %s %s", SeverityWarn, SeverityFail)
	}
}
