package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"presencecli/internal/config"
	"presencecli/internal/presence"
)

const (
	// DefaultSheetName is used when XLSXOptions.SheetName is empty.
	DefaultSheetName = "Rapport"
	// DefaultHeaderColor fills the header row when no color is requested.
	DefaultHeaderColor = "#D9E1F2"

	maxSheetNameLen = 31
	minColumnWidth  = 10
	maxColumnWidth  = 60
)

// XLSXOptions controls workbook layout.
type XLSXOptions struct {
	SheetName   string
	HeaderColor string
}

// XLSXWriter renders tables as single-sheet workbooks.
type XLSXWriter struct {
	paths *config.Paths
}

// NewXLSXWriter creates a new workbook writer. paths may be nil when only Write is used.
func NewXLSXWriter(paths *config.Paths) *XLSXWriter {
	return &XLSXWriter{paths: paths}
}

// Write renders table into a workbook and writes it to out. The header row is
// bold on the requested fill color and frozen; integer cells are stored as numbers.
func (w *XLSXWriter) Write(out io.Writer, table *presence.Table, opts XLSXOptions) error {
	if table == nil {
		return fmt.Errorf("nil table")
	}

	f, err := w.build(table, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to filename and returns the full path.
// Relative names land in the reports directory.
func (w *XLSXWriter) WriteFile(filename string, table *presence.Table, opts XLSXOptions) (string, error) {
	fullPath := resolvePath(w.paths, filename)

	slog.Info("Writing XLSX file",
		slog.String("file_path", filename),
		slog.String("full_path", fullPath),
		slog.Int("record_count", table.Len()))

	err := writeFile(fullPath, func(out io.Writer) error {
		return w.Write(out, table, opts)
	})
	return fullPath, err
}

func (w *XLSXWriter) build(table *presence.Table, opts XLSXOptions) (*excelize.File, error) {
	color, err := normalizeColor(opts.HeaderColor)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := sanitizeSheetName(opts.SheetName)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	if err := w.fill(f, sheet, table, color); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func (w *XLSXWriter) fill(f *excelize.File, sheet string, table *presence.Table, color string) error {
	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	widths := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		widths[i] = utf8.RuneCountInString(c)
	}

	for r, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if len(table.Columns) == 0 {
		return nil
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "808080", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(table.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width = min(max(width+2, minColumnWidth), maxColumnWidth)
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellValue stores plain integers as numbers and everything else as text.
func cellValue(v string) interface{} {
	if v == "" || (len(v) > 1 && v[0] == '0') {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil && strconv.Itoa(n) == v {
		return n
	}
	return v
}

// normalizeColor returns a six digit #RRGGBB color. Empty input yields the default.
func normalizeColor(color string) (string, error) {
	color = strings.TrimSpace(color)
	if color == "" {
		return DefaultHeaderColor, nil
	}
	hex := strings.TrimPrefix(color, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid header color %q", color)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid header color %q", color)
	}
	return "#" + strings.ToUpper(hex), nil
}

// sanitizeSheetName drops the characters Excel forbids in sheet names and
// truncates to the 31 character limit.
func sanitizeSheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if name == "" {
		return DefaultSheetName
	}
	if utf8.RuneCountInString(name) > maxSheetNameLen {
		name = strings.TrimSpace(string([]rune(name)[:maxSheetNameLen]))
	}
	return name
}
