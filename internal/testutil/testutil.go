// Package testutil provides helper functions for testing xcprof components
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Row is one line of a saved profiler report
type Row struct {
	Method string  `json:"method_name"`
	Path   string  `json:"path"`
	Line   int     `json:"line"`
	Column int     `json:"column"`
	Time   float64 `json:"time"`
}

// WriteFile writes content to dir/name and returns the full path
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ReportJSON renders rows the way the profiler's JSON reporter does
func ReportJSON(t *testing.T, rows ...Row) string {
	t.Helper()
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		t.Fatalf("Failed to encode report: %v", err)
	}
	return string(data)
}

// WriteReport writes a saved JSON report and returns its path
func WriteReport(t *testing.T, dir, name string, rows ...Row) string {
	t.Helper()
	return WriteFile(t, dir, name, ReportJSON(t, rows...))
}

// IsolateConfig keeps config discovery inside dir: it writes a config file
// there and points the user config locations at dir
func IsolateConfig(t *testing.T, dir, content string) {
	t.Helper()
	WriteFile(t, dir, "xcprof.yaml", content)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("XCPROF_CONFIG", "")
}
