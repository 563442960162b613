package domain

import "fmt"

// Effective default thresholds, applied when the caller configures none.
const (
	DefaultWarnMs = 50.0
	DefaultFailMs = 100.0
)

// Advertised default thresholds.
//
// NOTE: the plugin's public documentation has always advertised
// { warn: 100, fail: 500 }, while the value actually used when nothing is
// configured is { warn: 50, fail: 100 }. The effective pair above is what
// DefaultThresholds returns; this pair is kept so callers can opt into it
// explicitly (the "relaxed" init preset uses it).
const (
	DocumentedWarnMs = 100.0
	DocumentedFailMs = 500.0
)

// Thresholds holds the warn/fail cutoffs in milliseconds.
// FailMs >= WarnMs is expected but not enforced.
type Thresholds struct {
	WarnMs float64 `json:"warn_ms" yaml:"warn_ms" mapstructure:"warn_ms"`
	FailMs float64 `json:"fail_ms" yaml:"fail_ms" mapstructure:"fail_ms"`
}

// DefaultThresholds returns the effective default thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{WarnMs: DefaultWarnMs, FailMs: DefaultFailMs}
}

// DocumentedThresholds returns the thresholds the public docs advertise
func DocumentedThresholds() Thresholds {
	return Thresholds{WarnMs: DocumentedWarnMs, FailMs: DocumentedFailMs}
}

// Validate rejects negative cutoffs
func (t Thresholds) Validate() error {
	if t.WarnMs < 0 {
		return fmt.Errorf("warn threshold must be >= 0, got %g", t.WarnMs)
	}
	if t.FailMs < 0 {
		return fmt.Errorf("fail threshold must be >= 0, got %g", t.FailMs)
	}
	return nil
}

// Inverted reports whether the fail cutoff sits below the warn cutoff
func (t Thresholds) Inverted() bool {
	return t.FailMs < t.WarnMs
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// BoolValue dereferences b, falling back to def when b is nil
func BoolValue(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
