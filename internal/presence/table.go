package presence

import "strconv"

// Table is a rendered report: column headers and string cells. Each table is
// freshly allocated and shares nothing with the dataset it came from.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// AttendanceTable renders records as Date | Nom | Heure d'arrive et de sortie.
func AttendanceTable(records []AttendanceRecord) *Table {
	t := &Table{
		Columns: []string{ColumnDate, ColumnName, ColumnWindow},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.Date.String(), r.Name, r.Window()})
	}
	return t
}

// AbsenceTable renders records as Nom | Date.
func AbsenceTable(records []AbsenceRecord) *Table {
	t := &Table{
		Columns: []string{ColumnName, ColumnDate},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.Name, r.Date.String()})
	}
	return t
}

// PeriodTable renders buckets as <period label> | Nombre de présences.
func PeriodTable(p Period, buckets []PeriodBucket) *Table {
	t := &Table{
		Columns: []string{p.Label(), ColumnCount},
		Rows:    make([][]string, 0, len(buckets)),
	}
	for _, b := range buckets {
		t.Rows = append(t.Rows, []string{b.Label, strconv.Itoa(b.Count)})
	}
	return t
}
