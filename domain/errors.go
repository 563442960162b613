package domain

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeParseError        = "PARSE_ERROR"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeSinkError         = "SINK_ERROR"
)

// Profiler failures that mean the build artifacts cannot be used.
var (
	// ErrDerivedDataNotFound is returned when no build log exists for the target
	ErrDerivedDataNotFound = errors.New("derived data not found")

	// ErrBuildFlagNotEnabled is returned when the build was not run with
	// -Xfrontend -debug-time-function-bodies
	ErrBuildFlagNotEnabled = errors.New("build flag -debug-time-function-bodies is not enabled")
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates a parse error
func NewParseError(path string, cause error) error {
	return NewDomainError(ErrCodeParseError, fmt.Sprintf("failed to parse %s", path), cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewSourceUnavailableError wraps a profiler failure for the given target.
// cause should be ErrDerivedDataNotFound or ErrBuildFlagNotEnabled (possibly wrapped).
func NewSourceUnavailableError(target string, cause error) error {
	return NewDomainError(ErrCodeSourceUnavailable, fmt.Sprintf("cannot profile %s", target), cause)
}

// NewSinkError creates a comment sink error
func NewSinkError(message string, cause error) error {
	return NewDomainError(ErrCodeSinkError, message, cause)
}

// IsSourceUnavailable reports whether err means the profiler had nothing to read.
// Such errors are surfaced as a warning, never as a failure of the run.
func IsSourceUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDerivedDataNotFound) || errors.Is(err, ErrBuildFlagNotEnabled) {
		return true
	}
	var de DomainError
	return errors.As(err, &de) && de.Code == ErrCodeSourceUnavailable
}

// SourceUnavailableMessage returns the user-facing text for a source failure:
// the innermost sentinel message when there is one, else err's own text.
func SourceUnavailableMessage(err error) string {
	switch {
	case errors.Is(err, ErrBuildFlagNotEnabled):
		return ErrBuildFlagNotEnabled.Error()
	case errors.Is(err, ErrDerivedDataNotFound):
		return ErrDerivedDataNotFound.Error()
	default:
		return err.Error()
	}
}
