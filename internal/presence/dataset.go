package presence

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column headers read from the input and written to the output tables.
const (
	ColumnName      = "Nom"
	ColumnTimestamp = "Heure"
	ColumnDate      = "Date"
	ColumnWindow    = "Heure d'arrive et de sortie"
	ColumnCount     = "Nombre de présences"
)

// Dataset is a raw table: a header row and data rows of string cells.
// Columns other than the ones a transformation needs are ignored.
type Dataset struct {
	Header []string
	Rows   [][]string
}

// Event is a single check-in: who, and when.
type Event struct {
	Name      string
	Timestamp time.Time
}

// NewDataset builds a dataset from a header and its rows.
func NewDataset(header []string, rows [][]string) *Dataset {
	return &Dataset{Header: header, Rows: rows}
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the position of the named column, or -1.
// Matching ignores case, surrounding blanks and accents.
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil {
		return -1
	}
	want := NormalizeLabel(name)
	for i, h := range d.Header {
		if NormalizeLabel(h) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// Value returns the cell at (row, col), or "" when the row is short.
func (d *Dataset) Value(row, col int) string {
	if row < 0 || row >= len(d.Rows) || col < 0 || col >= len(d.Rows[row]) {
		return ""
	}
	return d.Rows[row][col]
}

// requireColumns resolves every named column or fails with the full list of
// required and missing names.
func (d *Dataset) requireColumns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, n := range names {
		idx[i] = d.ColumnIndex(n)
		if idx[i] < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Required: names, Missing: missing}
	}
	return idx, nil
}

// Events validates the Nom and Heure columns and parses every row.
// Rows with a blank timestamp carry no event and are skipped; any other
// unparseable timestamp fails the whole call. A row with a timestamp but a
// blank name still yields an event with an empty Name: it belongs to the
// observed date range but to nobody.
func (d *Dataset) Events() ([]Event, error) {
	idx, err := d.requireColumns(ColumnName, ColumnTimestamp)
	if err != nil {
		return nil, err
	}
	nameCol, tsCol := idx[0], idx[1]

	events := make([]Event, 0, len(d.Rows))
	for i := range d.Rows {
		raw := d.Value(i, tsCol)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return nil, &UnparseableTimestampError{Row: i + 1, Column: d.Header[tsCol], Value: raw}
		}
		events = append(events, Event{Name: strings.TrimSpace(d.Value(i, nameCol)), Timestamp: ts})
	}
	return events, nil
}

// NormalizeLabel folds a header or selector label for comparison:
// accents stripped, lower-cased, inner whitespace collapsed.
func NormalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
