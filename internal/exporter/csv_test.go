package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"presencecli/internal/config"
	"presencecli/internal/presence"
)

func sampleTable() *presence.Table {
	return &presence.Table{
		Columns: []string{"Date", "Nom", "Heure d'arrive et de sortie"},
		Rows: [][]string{
			{"2024-01-01", "Alice", "08:00:00 - 17:00:00"},
			{"2024-01-01", "Zoé, \"la grande\"", "09:00:00 - 09:00:00"},
		},
	}
}

func TestCSVWriterWrite(t *testing.T) {
	tests := []struct {
		name string
		bom  bool
	}{
		{"with bom", true},
		{"without bom", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewCSVWriter(nil).Write(&buf, sampleTable(), tt.bom))

			data := buf.Bytes()
			assert.Equal(t, tt.bom, bytes.HasPrefix(data, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, 3)
			assert.Equal(t, sampleTable().Columns, records[0])
			assert.Equal(t, "Zoé, \"la grande\"", records[2][1])
		})
	}
}

func TestCSVWriterEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	table := presence.AbsenceTable(nil)
	require.NoError(t, NewCSVWriter(nil).Write(&buf, table, false))
	assert.Equal(t, "Nom,Date\n", buf.String())
}

func TestCSVWriterNilTable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewCSVWriter(nil).Write(&buf, nil, true))
}

func TestCSVWriterWriteFile(t *testing.T) {
	paths := config.NewPaths(t.TempDir(), "reports", "logs")
	w := NewCSVWriter(paths)

	fullPath, err := w.WriteFile("presences.csv", sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ReportsDir, "presences.csv"), fullPath)

	data, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, utf8BOM))
	assert.Contains(t, string(data), "Alice")
}

func TestCSVWriterWriteFileAbsolute(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "absences.csv")

	fullPath, err := NewCSVWriter(nil).WriteFile(target, presence.AbsenceTable(nil))
	require.NoError(t, err)
	assert.Equal(t, target, fullPath)
	assert.FileExists(t, target)
}
