package presence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-01 08:00:00", want: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{in: "  2024-01-01 08:00:00  ", want: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{in: "2024-01-01 08:00:00.250", want: time.Date(2024, 1, 1, 8, 0, 0, 250e6, time.UTC)},
		{in: "2024-01-01T08:00:00", want: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{in: "2024-01-01 08:00", want: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024/01/31 23:59:59", want: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)},
		{in: "31/01/2024 07:45:00", want: time.Date(2024, 1, 31, 7, 45, 0, 0, time.UTC)},
		{in: "31/01/2024", want: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{in: "45292", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "45292.5", want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{in: "10000", want: time.Date(1927, 5, 18, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseTimestamp_DayFirst(t *testing.T) {
	got, err := ParseTimestamp("02/01/2024 08:00")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.January, 2}, DateOf(got))
}

func TestParseTimestamp_KeepsEncodedOffset(t *testing.T) {
	got, err := ParseTimestamp("2024-01-01T23:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.January, 1}, DateOf(got))
	assert.Equal(t, "23:30:00", got.Format(TimeLayout))
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "n/a", "2024-02-30", "-3", "08h00", "2024", "9999", "1e9", "NaN"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimestamp(in)
			assert.True(t, errors.Is(err, ErrUnparseableTimestamp))
		})
	}
}

func TestDate(t *testing.T) {
	d := Date{2024, time.February, 28}

	assert.Equal(t, "2024-02-28", d.String())
	assert.Equal(t, Date{2024, time.March, 1}, d.AddDays(2))
	assert.Equal(t, Date{2023, time.December, 31}, Date{2024, time.January, 1}.AddDays(-1))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.False(t, d.Before(d))

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", string(text))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "annee", NormalizeLabel("Année"))
	assert.Equal(t, "rapport par periode", NormalizeLabel("  Rapport   par  Période "))
	assert.Equal(t, "nombre de presences", NormalizeLabel(ColumnCount))
}

func TestDataset_ColumnIndex(t *testing.T) {
	ds := NewDataset([]string{"ID", "Nom ", "HEURE"}, [][]string{{"1", "Alice"}})

	assert.Equal(t, 1, ds.ColumnIndex("Nom"))
	assert.Equal(t, 2, ds.ColumnIndex("heure"))
	assert.Equal(t, -1, ds.ColumnIndex("Date"))
	assert.True(t, ds.HasColumn("nom"))
	assert.Equal(t, "", ds.Value(0, 2), "short rows read as blank")
	assert.Equal(t, "", ds.Value(5, 0))
	assert.Equal(t, 1, ds.Len())

	var nilDS *Dataset
	assert.Equal(t, 0, nilDS.Len())
	assert.Equal(t, -1, nilDS.ColumnIndex("Nom"))
}
