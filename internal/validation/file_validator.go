package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileValidator provides common file checks for the CLI and the upload endpoint.
type FileValidator struct {
	logger            *slog.Logger
	allowedExtensions []string
}

// NewFileValidator creates a file validator accepting the given workbook
// extensions. No extensions means ".xlsx" only.
func NewFileValidator(logger *slog.Logger, allowedExtensions ...string) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(allowedExtensions) == 0 {
		allowedExtensions = []string{".xlsx"}
	}
	exts := make([]string, len(allowedExtensions))
	for i, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	return &FileValidator{
		logger:            logger,
		allowedExtensions: exts,
	}
}

// AllowedExtensions returns the accepted workbook extensions.
func (v *FileValidator) AllowedExtensions() []string {
	return slices.Clone(v.allowedExtensions)
}

// ValidateOutputDirectory ensures output directory exists and is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that path is a readable workbook with an accepted extension.
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateWorkbookName(path); err != nil {
		return err
	}
	return v.ValidateFile(path)
}

// ValidateWorkbookName checks a file name against the accepted extensions and
// rejects Office lock files ("~$name.xlsx").
func (v *FileValidator) ValidateWorkbookName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(v.allowedExtensions, ext) {
		v.logger.Warn("File is not an accepted workbook",
			slog.String("file", name),
			slog.String("extension", ext))
		return fmt.Errorf("file %s is not an Excel workbook (accepted: %s)",
			name, strings.Join(v.allowedExtensions, ", "))
	}

	if strings.HasPrefix(filepath.Base(name), "~$") {
		v.logger.Warn("Skipping temporary Excel file", slog.String("file", name))
		return fmt.Errorf("file %s is a temporary Excel file", name)
	}
	return nil
}
