package exporter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"presencecli/internal/config"
	"presencecli/internal/presence"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestXLSXWriterWrite(t *testing.T) {
	var buf bytes.Buffer
	err := NewXLSXWriter(nil).Write(&buf, sampleTable(), XLSXOptions{
		SheetName:   "Présences",
		HeaderColor: "#ffd966",
	})
	require.NoError(t, err)

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{"Présences"}, f.GetSheetList())

	rows, err := f.GetRows("Présences")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, sampleTable().Columns, rows[0])
	assert.Equal(t, sampleTable().Rows[0], rows[1])

	styleID, err := f.GetCellStyle("Présences", "C1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.NotEmpty(t, style.Fill.Color)
	assert.Equal(t, "FFD966", strings.TrimPrefix(strings.ToUpper(style.Fill.Color[0]), "#"))

	width, err := f.GetColWidth("Présences", "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Heure d'arrive et de sortie")+2), width)
}

func TestXLSXWriterNumbersStayNumeric(t *testing.T) {
	table := presence.PeriodTable(presence.PeriodWeek, []presence.PeriodBucket{
		{Period: presence.PeriodWeek, Key: 1, Label: "1", Count: 3},
		{Period: presence.PeriodWeek, Key: 2, Label: "2", Count: 12},
	})

	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter(nil).Write(&buf, table, XLSXOptions{}))

	f := openWorkbook(t, buf.Bytes())
	sheet := f.GetSheetName(0)
	assert.Equal(t, DefaultSheetName, sheet)

	cellType, err := f.GetCellType(sheet, "B3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)

	value, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "12", value)
}

func TestXLSXWriterInvalidColor(t *testing.T) {
	var buf bytes.Buffer
	err := NewXLSXWriter(nil).Write(&buf, sampleTable(), XLSXOptions{HeaderColor: "blue"})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestXLSXWriterWriteFile(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), "reports", "logs")

	fullPath, err := NewXLSXWriter(paths).WriteFile("rapport_Mois.xlsx", presence.AbsenceTable(nil), XLSXOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "rapport_Mois.xlsx"), fullPath)

	f, err := excelize.OpenFile(fullPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Nom", "Date"}}, rows)
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", DefaultHeaderColor, false},
		{"#abc", "#AABBCC", false},
		{"d9e1f2", "#D9E1F2", false},
		{" #FFD966 ", "#FFD966", false},
		{"#12345", "", true},
		{"#GGGGGG", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := normalizeColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, DefaultSheetName, sanitizeSheetName(""))
	assert.Equal(t, DefaultSheetName, sanitizeSheetName("[]/?"))
	assert.Equal(t, "Absences 2024", sanitizeSheetName("Absences: 2024"))
	long := sanitizeSheetName("Rapport de Présences par Trimestre")
	assert.LessOrEqual(t, len([]rune(long)), 31)
	assert.True(t, strings.HasPrefix(long, "Rapport de Présences"))
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 42, cellValue("42"))
	assert.Equal(t, -3, cellValue("-3"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "2024-01-01", cellValue("2024-01-01"))
	assert.Equal(t, "", cellValue(""))
	assert.Equal(t, "+5", cellValue("+5"))
}

func TestFormat(t *testing.T) {
	f, err := ParseFormat(".XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)
	assert.Equal(t, ".xlsx", f.Extension())

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Contains(t, f.ContentType(), "text/csv")

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteTable(t *testing.T) {
	var xlsx, csvBuf bytes.Buffer
	require.NoError(t, WriteTable(&xlsx, FormatXLSX, sampleTable(), XLSXOptions{}))
	require.NoError(t, WriteTable(&csvBuf, FormatCSV, sampleTable(), XLSXOptions{}))
	assert.True(t, bytes.HasPrefix(xlsx.Bytes(), []byte("PK")))
	assert.True(t, bytes.HasPrefix(csvBuf.Bytes(), utf8BOM))
	assert.Error(t, WriteTable(&csvBuf, Format("pdf"), sampleTable(), XLSXOptions{}))
}
