package app

import (
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/xcprof/domain"
	"github.com/ludo-technologies/xcprof/internal/constants"
)

// FileHelper classifies report targets and resolves their paths
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// SourceKind tells how a target is profiled: an explicit build log, a saved
// report file, or otherwise a product name
func (h *FileHelper) SourceKind(target string) domain.SourceKind {
	if strings.HasSuffix(target, constants.ActivityLogExtension) {
		return domain.SourceLogPath
	}
	if h.IsReportFile(target) {
		return domain.SourceReportFile
	}
	return domain.SourceProductName
}

// IsReportFile checks the extension against the saved report formats
func (h *FileHelper) IsReportFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range constants.ReportFileExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ResolvePath makes a relative path absolute against workingDir
func (h *FileHelper) ResolvePath(path, workingDir string) string {
	if filepath.IsAbs(path) || workingDir == "" {
		return path
	}
	return filepath.Join(workingDir, path)
}
