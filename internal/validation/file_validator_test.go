package validation

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(quietLogger())

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
	assert.NoFileExists(t, filepath.Join(dir, ".write_test"))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Error(t, v.ValidateOutputDirectory(file))
}

func TestFileValidator_ValidateExcelFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		errorContains string
	}{
		{
			name: "valid workbook",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "pointage.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
		},
		{
			name: "uppercase extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "POINTAGE.XLSX")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.xlsx")
			},
			errorContains: "does not exist",
		},
		{
			name: "wrong extension",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "pointage.csv")
				require.NoError(t, os.WriteFile(path, []byte("a,b"), 0644))
				return path
			},
			errorContains: "not an Excel workbook",
		},
		{
			name: "lock file",
			setupFunc: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$pointage.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("PK"), 0644))
				return path
			},
			errorContains: "temporary Excel file",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "dir.xlsx")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			errorContains: "is a directory",
		},
	}

	v := NewFileValidator(quietLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateExcelFile(tt.setupFunc(t))
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_AllowedExtensions(t *testing.T) {
	v := NewFileValidator(nil, "XLSM", ".xlsx")
	assert.Equal(t, []string{".xlsm", ".xlsx"}, v.AllowedExtensions())
	assert.NoError(t, v.ValidateWorkbookName("book.xlsm"))
	assert.Error(t, v.ValidateWorkbookName("book.xls"))

	assert.Equal(t, []string{".xlsx"}, NewFileValidator(nil).AllowedExtensions())
}
