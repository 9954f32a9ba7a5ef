package presence

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAbsences(t *testing.T) {
	tests := []struct {
		name string
		ds   *Dataset
		want [][]string
	}{
		{
			name: "alice and bob example",
			ds: eventsDataset(
				[]string{"Alice", "2024-01-01 08:00:00"},
				[]string{"Alice", "2024-01-01 17:00:00"},
				[]string{"Bob", "2024-01-02 09:00:00"},
			),
			want: [][]string{
				{"Alice", "2024-01-02"},
				{"Bob", "2024-01-01"},
			},
		},
		{
			name: "single row has a one-day range and no absence",
			ds:   eventsDataset([]string{"Alice", "2024-01-01 08:00:00"}),
			want: [][]string{},
		},
		{
			name: "unnamed rows still extend the range",
			ds: eventsDataset(
				[]string{"Alice", "2024-01-01 08:00:00"},
				[]string{"", "2024-01-03 08:00:00"},
			),
			want: [][]string{
				{"Alice", "2024-01-02"},
				{"Alice", "2024-01-03"},
			},
		},
		{
			name: "range is global, not per person",
			ds: eventsDataset(
				[]string{"Early", "2024-02-27 08:00:00"},
				[]string{"Late", "2024-03-01 08:00:00"},
			),
			want: [][]string{
				{"Early", "2024-02-28"},
				{"Early", "2024-02-29"},
				{"Early", "2024-03-01"},
				{"Late", "2024-02-27"},
				{"Late", "2024-02-28"},
				{"Late", "2024-02-29"},
			},
		},
		{
			name: "gaps inside the range and a fully present person",
			ds: eventsDataset(
				[]string{"Carl", "2024-06-01 08:00:00"},
				[]string{"Carl", "2024-06-02 08:00:00"},
				[]string{"Carl", "2024-06-03 08:00:00"},
				[]string{"Dina", "2024-06-01 09:00:00"},
				[]string{"Dina", "2024-06-03 09:00:00"},
			),
			want: [][]string{
				{"Dina", "2024-06-02"},
			},
		},
		{
			name: "empty input",
			ds:   eventsDataset(),
			want: [][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := DetectAbsences(tt.ds)
			require.NoError(t, err)
			require.NotNil(t, records)
			table := AbsenceTable(records)
			assert.Equal(t, []string{"Nom", "Date"}, table.Columns)
			assert.Equal(t, tt.want, table.Rows)
		})
	}
}

func TestDetectAbsences_Errors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		records, err := DetectAbsences(NewDataset([]string{"Nom"}, nil))
		assert.Nil(t, records)
		assert.True(t, errors.Is(err, ErrMissingColumn))
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		records, err := DetectAbsences(eventsDataset(
			[]string{"Alice", "2024-01-01 08:00:00"},
			[]string{"Alice", "2024-13-45"},
		))
		assert.Nil(t, records)
		assert.True(t, errors.Is(err, ErrUnparseableTimestamp))
	})
}

func TestDetectAbsences_RangeMatchesDailyReport(t *testing.T) {
	ds := eventsDataset(
		[]string{"", "2024-01-01 07:00:00"},
		[]string{"Alice", "2024-01-02 08:00:00"},
		[]string{"  ", "2024-01-04 18:00:00"},
	)

	buckets, err := AggregateByPeriod(ds, PeriodDay)
	require.NoError(t, err)
	require.Len(t, buckets, 3)

	absences, err := DetectAbsences(ds)
	require.NoError(t, err)
	require.NotEmpty(t, absences)
	assert.Equal(t, buckets[0].Label, absences[0].Date.String())
	assert.Equal(t, buckets[len(buckets)-1].Label, absences[len(absences)-1].Date.String())
	for _, a := range absences {
		assert.Equal(t, "Alice", a.Name)
	}
}
