package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// CheckinHeader is the header of a typical check-in sheet.
var CheckinHeader = []interface{}{"Nom", "Date", "Heure"}

// CheckinRows are two employees over two days; Bob misses 2024-01-02.
func CheckinRows() [][]interface{} {
	return [][]interface{}{
		{"Alice", "2024-01-01", "2024-01-01 08:00:00"},
		{"Alice", "2024-01-01", "2024-01-01 17:00:00"},
		{"Bob", "2024-01-01", "2024-01-01 09:00:00"},
		{"Alice", "2024-01-02", "2024-01-02 08:30:00"},
	}
}

// NewWorkbook builds an xlsx workbook in memory with header on the first
// row of sheet followed by rows. Cells keep their Go types, so time.Time
// values become native date cells.
func NewWorkbook(t testing.TB, sheet string, header []interface{}, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	all := make([][]interface{}, 0, len(rows)+1)
	if header != nil {
		all = append(all, header)
	}
	all = append(all, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("write row %d: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// WriteWorkbook saves a workbook built by NewWorkbook under dir and returns
// its path.
func WriteWorkbook(t testing.TB, dir, name, sheet string, header []interface{}, rows [][]interface{}) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, NewWorkbook(t, sheet, header, rows), 0644); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}
