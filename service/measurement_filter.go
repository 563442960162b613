package service

import (
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	ignore "github.com/sabhiram/go-gitignore"
)

// MeasurementFilter drops measurements located in ignored files and rewrites
// absolute file paths relative to the working directory.
type MeasurementFilter struct {
	workingDir string
	matcher    *ignore.GitIgnore
}

// NewMeasurementFilter compiles gitignore-style patterns. A nil or empty
// pattern list ignores nothing.
func NewMeasurementFilter(workingDir string, patterns []string) *MeasurementFilter {
	f := &MeasurementFilter{workingDir: workingDir}

	lines := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			lines = append(lines, p)
		}
	}
	if len(lines) > 0 {
		f.matcher = ignore.CompileIgnoreLines(lines...)
	}
	return f
}

// Apply returns the kept measurements, in order, and how many were dropped.
// The input slice is not modified.
func (f *MeasurementFilter) Apply(measurements []domain.Measurement) ([]domain.Measurement, int) {
	kept := make([]domain.Measurement, 0, len(measurements))
	dropped := 0

	for _, m := range measurements {
		if m.Location != nil {
			loc := *m.Location
			loc.FilePath = f.RelativePath(loc.FilePath)
			if f.matcher != nil && f.matcher.MatchesPath(filepath.ToSlash(loc.FilePath)) {
				dropped++
				continue
			}
			m.Location = &loc
		}
		kept = append(kept, m)
	}

	return kept, dropped
}

// RelativePath makes an absolute path relative to the working directory.
// Paths outside it, and relative paths, are returned unchanged.
func (f *MeasurementFilter) RelativePath(path string) string {
	if f.workingDir == "" || !filepath.IsAbs(path) {
		return path
	}

	rel, err := filepath.Rel(f.workingDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}
