package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"presencecli/internal/config"
	"presencecli/internal/presence"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths *config.Paths
}

// NewCSVWriter creates a new CSV writer. paths may be nil when only Write is used.
func NewCSVWriter(paths *config.Paths) *CSVWriter {
	return &CSVWriter{paths: paths}
}

// Write writes the table header and rows as CSV. With bom set the output
// starts with a UTF-8 byte order mark so Excel detects the accents.
func (w *CSVWriter) Write(out io.Writer, table *presence.Table, bom bool) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}

	if bom {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range table.Rows {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table with a BOM to filename and returns the full path.
// Relative names land in the reports directory.
func (w *CSVWriter) WriteFile(filename string, table *presence.Table) (string, error) {
	fullPath := resolvePath(w.paths, filename)

	slog.Info("Writing CSV file",
		slog.String("file_path", filename),
		slog.String("full_path", fullPath),
		slog.Int("record_count", table.Len()))

	err := writeFile(fullPath, func(out io.Writer) error {
		return w.Write(out, table, true)
	})
	return fullPath, err
}
