package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains all the application file paths.
// This is the single source of truth for where the pipeline tables live.
type Paths struct {
	DataDir string
	LogsDir string

	// Well-known pipeline tables
	RawFloorsheetCSV    string
	DateSummarizedCSV   string
	GlobalSummarizedCSV string
}

// NewPaths builds the path set for the given configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:             cfg.DataDir,
		LogsDir:             cfg.LogsDir,
		RawFloorsheetCSV:    filepath.Join(cfg.DataDir, "raw_floorsheet.csv"),
		DateSummarizedCSV:   filepath.Join(cfg.DataDir, "date_summarized_floorsheet.csv"),
		GlobalSummarizedCSV: filepath.Join(cfg.DataDir, "summarized_floorsheet.csv"),
	}
}

// EnsureDirectories creates all required directories
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.DataDir, p.LogsDir}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
