package exporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"presencecli/internal/config"
	"presencecli/internal/presence"
)

// Format is a downloadable report file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts "xlsx" or "csv" in any case, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))) {
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// WriteTable writes table to out in the given format. CSV output carries a BOM.
func WriteTable(out io.Writer, format Format, table *presence.Table, opts XLSXOptions) error {
	switch format {
	case FormatCSV:
		return NewCSVWriter(nil).Write(out, table, true)
	case FormatXLSX:
		return NewXLSXWriter(nil).Write(out, table, opts)
	}
	return fmt.Errorf("unsupported export format %q", format)
}

// WriteTableFile writes table under paths in the given format and returns the full path.
func WriteTableFile(paths *config.Paths, filename string, format Format, table *presence.Table, opts XLSXOptions) (string, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(paths).WriteFile(filename, table)
	case FormatXLSX:
		return NewXLSXWriter(paths).WriteFile(filename, table, opts)
	}
	return "", fmt.Errorf("unsupported export format %q", format)
}

// resolvePath keeps absolute paths and places relative names in the reports directory.
func resolvePath(paths *config.Paths, filename string) string {
	if filepath.IsAbs(filename) || paths == nil {
		return filename
	}
	return paths.GetReportPath(filename)
}

// writeFile creates path and its directory and streams render into it.
func writeFile(path string, render func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	buf := bufio.NewWriter(file)
	if err := render(buf); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return file.Close()
}
