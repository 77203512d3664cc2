package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for file locations in the application
type Paths struct {
	BaseDir   string
	OutputDir string
	LogsDir   string
}

// GetPaths resolves the configured directories against the working
// directory. Absolute paths are kept as they are.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	resolve := func(dir, fallback string) string {
		if dir == "" {
			dir = fallback
		}
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}

	return &Paths{
		BaseDir:   base,
		OutputDir: resolve(cfg.OutputDir, DefaultOutputDir),
		LogsDir:   resolve(cfg.LogsDir, DefaultLogsDir),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetOutputPath returns the full path of an export artifact
func (p *Paths) GetOutputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.OutputDir, filename)
}

// GetLogPath returns the full path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs the resolved directories for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Resolved paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("output_dir", p.OutputDir),
		slog.String("logs_dir", p.LogsDir))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
