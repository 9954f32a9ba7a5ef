package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"presencecli/internal/errors"
	"presencecli/internal/presence"
)

// ParseOptions selects what to read from a workbook.
type ParseOptions struct {
	// SheetName is the worksheet to read; empty means the first sheet.
	SheetName string
	Logger    *slog.Logger
}

// ParseFile reads a check-in workbook from disk.
func ParseFile(filePath string, opts ParseOptions) (*presence.Dataset, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to open workbook", err).WithContext("path", filePath)
	}
	defer file.Close()
	return ParseReader(file, opts)
}

// ParseReader reads a check-in workbook into a raw dataset.
//
// The first non-empty row is the header. Cells are read raw, so native date
// cells come back as Excel serial numbers which presence.ParseTimestamp
// understands. Rows are padded to the header width and trailing blank rows
// are dropped. An empty sheet yields a dataset with no header, which the
// transformations then reject for missing columns.
func ParseReader(r io.Reader, opts ParseOptions) (*presence.Dataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, errors.NewParsingError("workbook has no worksheet", nil)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheetName), err).
			WithContext("sheets", f.GetSheetList())
	}

	headerRow := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		logger.Warn("worksheet is empty", slog.String("sheet_name", sheetName))
		return presence.NewDataset(nil, nil), nil
	}

	header := trimCells(rows[headerRow])
	lastDataRow := headerRow
	for i := len(rows) - 1; i > headerRow; i-- {
		if !isBlankRow(rows[i]) {
			lastDataRow = i
			break
		}
	}

	data := make([][]string, 0, lastDataRow-headerRow)
	for i := headerRow + 1; i <= lastDataRow; i++ {
		row := make([]string, len(header))
		copy(row, rows[i])
		data = append(data, row)
	}

	logger.Info("workbook parsed",
		slog.String("sheet_name", sheetName),
		slog.Int("header_row", headerRow+1),
		slog.Any("columns", header),
		slog.Int("data_rows", len(data)))

	return presence.NewDataset(header, data), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
