package domain

// Location identifies a line in a source file
type Location struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Line     int    `json:"line" yaml:"line"`
}

// Measurement is one profiled unit: a function body and how long it took to type-check
type Measurement struct {
	// Identifier is the method signature or symbol name reported by the profiler
	Identifier string `json:"identifier" yaml:"identifier"`

	// Location is nil when the profiler could not attribute the measurement to a file
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`

	// DurationMs is the measured compile time in milliseconds
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
}

// NewMeasurement builds a Measurement. The location is kept only when both a
// file path and a line >= 1 are present.
func NewMeasurement(identifier, filePath string, line int, durationMs float64) Measurement {
	m := Measurement{
		Identifier: identifier,
		DurationMs: durationMs,
	}
	if filePath != "" && line >= 1 {
		m.Location = &Location{FilePath: filePath, Line: line}
	}
	return m
}

// HasLocation reports whether the measurement can be annotated inline
func (m Measurement) HasLocation() bool {
	return m.Location != nil
}
