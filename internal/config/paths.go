package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Paths contains the directories the application writes to.
type Paths struct {
	BaseDir    string
	ReportsDir string
	LogsDir    string
}

// GetPaths returns the application paths relative to the executable location.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	return NewPaths(filepath.Dir(exe), "reports", "logs"), nil
}

// NewPaths builds a Paths rooted at baseDir. Relative reports and logs
// directories are joined to baseDir; absolute ones are kept as is.
func NewPaths(baseDir, reportsDir, logsDir string) *Paths {
	return &Paths{
		BaseDir:    baseDir,
		ReportsDir: resolve(baseDir, reportsDir),
		LogsDir:    resolve(baseDir, logsDir),
	}
}

// ResolvePaths returns the paths described by the configuration. An empty
// Paths.BaseDir falls back to the executable directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		exePaths, err := GetPaths()
		if err != nil {
			return nil, err
		}
		base = exePaths.BaseDir
	}
	return NewPaths(base, c.Report.OutputDir, c.Paths.LogsDir), nil
}

func resolve(base, dir string) string {
	if dir == "" {
		return base
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(base, dir)
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetReportPath returns the path for a report file. Directory components in
// filename are discarded so callers cannot escape ReportsDir.
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filepath.Base(strings.ReplaceAll(filename, `\`, "/")))
}

// GetLogPath returns the path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
