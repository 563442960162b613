package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
)

// ReportFileProfiler reads measurements from a report the profiler wrote
// earlier, e.g. in a separate CI step. It only serves explicit paths.
type ReportFileProfiler struct{}

// NewReportFileProfiler creates a new report file profiler
func NewReportFileProfiler() *ReportFileProfiler {
	return &ReportFileProfiler{}
}

// ByProductName is not supported: a saved report has no product lookup
func (p *ReportFileProfiler) ByProductName(_ context.Context, name string) ([]domain.Measurement, error) {
	return nil, domain.NewInvalidInputError(fmt.Sprintf("report files are addressed by path, got product name %q", name), nil)
}

// ByLogPath reads a .json, .yaml or .yml report
func (p *ReportFileProfiler) ByLogPath(ctx context.Context, path string) ([]domain.Measurement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("report %s does not exist: %w", path, domain.ErrDerivedDataNotFound)
		}
		return nil, domain.NewFileNotFoundError(path, err)
	}

	var rows []ProfileRow
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		rows, err = DecodeProfileRowsYAML(data)
	default:
		rows, err = DecodeProfileRowsJSON(data)
	}
	if err != nil {
		return nil, domain.NewParseError(path, err)
	}

	return RowsToMeasurements(rows), nil
}
