package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	"gopkg.in/yaml.v3"
)

// ProfileRow is one row of the profiler's JSON reporter output
type ProfileRow struct {
	MethodName string  `json:"method_name" yaml:"method_name"`
	Path       string  `json:"path" yaml:"path"`
	Line       int     `json:"line" yaml:"line"`
	Column     int     `json:"column" yaml:"column"`
	Time       float64 `json:"time" yaml:"time"`
}

// ToMeasurement converts a row. Rows the compiler could not attribute to a
// source position ("<invalid loc>") become unlocated measurements.
func (r ProfileRow) ToMeasurement() domain.Measurement {
	path := r.Path
	if strings.HasPrefix(path, "<") {
		path = ""
	}
	return domain.NewMeasurement(r.MethodName, path, r.Line, r.Time)
}

// DecodeProfileRowsJSON decodes a JSON array of rows
func DecodeProfileRowsJSON(data []byte) ([]ProfileRow, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var rows []ProfileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode profiler JSON: %w", err)
	}
	return rows, nil
}

// DecodeProfileRowsYAML decodes a YAML sequence of rows
func DecodeProfileRowsYAML(data []byte) ([]ProfileRow, error) {
	var rows []ProfileRow
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode profiler YAML: %w", err)
	}
	return rows, nil
}

// RowsToMeasurements converts rows keeping their order
func RowsToMeasurements(rows []ProfileRow) []domain.Measurement {
	measurements := make([]domain.Measurement, 0, len(rows))
	for _, r := range rows {
		measurements = append(measurements, r.ToMeasurement())
	}
	return measurements
}
