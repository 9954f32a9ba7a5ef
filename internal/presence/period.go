package presence

import (
	"fmt"
	"sort"
	"strings"
)

// Period is the bucket granularity of AggregateByPeriod.
type Period int

const (
	PeriodDay Period = iota + 1
	PeriodWeek
	PeriodMonth
	PeriodQuarter
	PeriodYear
)

var periodNames = map[Period]struct{ en, fr string }{
	PeriodDay:     {"Day", "Jour"},
	PeriodWeek:    {"Week", "Semaine"},
	PeriodMonth:   {"Month", "Mois"},
	PeriodQuarter: {"Quarter", "Trimestre"},
	PeriodYear:    {"Year", "Année"},
}

// Periods returns every supported period, finest first.
func Periods() []Period {
	return []Period{PeriodDay, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}
}

// Valid reports whether p is one of the five supported periods.
func (p Period) Valid() bool {
	_, ok := periodNames[p]
	return ok
}

func (p Period) String() string {
	if n, ok := periodNames[p]; ok {
		return n.en
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// Label is the French selector name, also used as the report column header.
func (p Period) Label() string {
	if n, ok := periodNames[p]; ok {
		return n.fr
	}
	return p.String()
}

// ParsePeriod accepts the English or French name of a period, ignoring case
// and accents ("annee" matches "Année").
func ParsePeriod(s string) (Period, error) {
	want := NormalizeLabel(s)
	for _, p := range Periods() {
		n := periodNames[p]
		if want == NormalizeLabel(n.en) || want == NormalizeLabel(n.fr) {
			return p, nil
		}
	}
	return 0, &UnsupportedPeriodError{Value: s}
}

// bucket maps a day to its sortable key and its label. Week keys are ISO
// week numbers alone, so the same week of two different years shares a bucket.
func (p Period) bucket(d Date) (int, string) {
	switch p {
	case PeriodDay:
		return d.Year*10000 + int(d.Month)*100 + d.Day, d.String()
	case PeriodWeek:
		_, week := d.Time().ISOWeek()
		return week, fmt.Sprintf("%d", week)
	case PeriodMonth:
		return d.Year*100 + int(d.Month), fmt.Sprintf("%04d-%02d", d.Year, int(d.Month))
	case PeriodQuarter:
		q := (int(d.Month)-1)/3 + 1
		return d.Year*10 + q, fmt.Sprintf("%04dQ%d", d.Year, q)
	default:
		return d.Year, fmt.Sprintf("%d", d.Year)
	}
}

// PeriodBucket counts the rows falling into one period.
type PeriodBucket struct {
	Period Period `json:"-"`
	Key    int    `json:"-"`
	Label  string `json:"period"`
	Count  int    `json:"count"`
}

// AggregateByPeriod counts dated rows per bucket, ordered by bucket ascending.
// Dates come from the Date column; an input without one falls back to the
// date part of Heure. Blank cells are not counted.
func AggregateByPeriod(ds *Dataset, p Period) ([]PeriodBucket, error) {
	if !p.Valid() {
		return nil, &UnsupportedPeriodError{Value: p.String()}
	}

	col := ds.ColumnIndex(ColumnDate)
	if col < 0 {
		col = ds.ColumnIndex(ColumnTimestamp)
	}
	if col < 0 {
		return nil, &MissingColumnError{Required: []string{ColumnDate}, Missing: []string{ColumnDate}}
	}

	counts := make(map[int]*PeriodBucket)
	for i := range ds.Rows {
		raw := ds.Value(i, col)
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ts, err := ParseTimestamp(raw)
		if err != nil {
			return nil, &UnparseableTimestampError{Row: i + 1, Column: ds.Header[col], Value: raw}
		}
		key, label := p.bucket(DateOf(ts))
		b, ok := counts[key]
		if !ok {
			b = &PeriodBucket{Period: p, Key: key, Label: label}
			counts[key] = b
		}
		b.Count++
	}

	buckets := make([]PeriodBucket, 0, len(counts))
	for _, b := range counts {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets, nil
}
