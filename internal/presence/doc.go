// Package presence derives attendance reports from a table of check-in events.
//
// The package is organized around three pure transformations, each consuming
// the same raw Dataset (a header row plus string cells):
//
//  1. SummarizeAttendance: one record per (person, date) with the first and
//     last event of the day.
//  2. DetectAbsences: for every person, the dates of the global observed range
//     on which that person has no event.
//  3. AggregateByPeriod: counts of dated rows per day, ISO week, month,
//     quarter or year.
//
// # Usage
//
//	ds := presence.NewDataset([]string{"Nom", "Heure"}, rows)
//	records, err := presence.SummarizeAttendance(ds)
//	if err != nil {
//	    var missing *presence.MissingColumnError
//	    if errors.As(err, &missing) {
//	        fmt.Println(missing.UserMessage())
//	    }
//	}
//	table := presence.AttendanceTable(records)
//
// # Data Flow
//
//	Excel File → Parser → Dataset → Transformation → Table → Exporter
//
// # Error Handling
//
// Every failure is detected before any output is built, so callers never see a
// partially populated result:
//
//   - MissingColumnError when a required column is absent
//   - UnparseableTimestampError when a non-blank cell is not a date-time
//   - UnsupportedPeriodError when the period selector is out of range
//
// A dataset with zero rows is not an error; all three transformations return
// an empty result for it.
//
// # Concurrency
//
// The transformations share no state and never mutate their input, so they may
// be called from any number of goroutines at once.
package presence
