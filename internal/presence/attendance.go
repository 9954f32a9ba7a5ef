package presence

import (
	"sort"
	"time"
)

// TimeLayout formats arrival and departure times.
const TimeLayout = "15:04:05"

// AttendanceRecord is one person's first and last event of a day.
type AttendanceRecord struct {
	Date      Date      `json:"date"`
	Name      string    `json:"name"`
	Arrival   time.Time `json:"arrival"`
	Departure time.Time `json:"departure"`
}

// Window renders the record as "HH:MM:SS - HH:MM:SS". Both ends are shown
// in the arrival's location so mixed offsets cannot reverse the window.
func (r AttendanceRecord) Window() string {
	return r.Arrival.Format(TimeLayout) + " - " + r.Departure.In(r.Arrival.Location()).Format(TimeLayout)
}

type attendanceKey struct {
	name string
	date Date
}

// SummarizeAttendance collapses events into one record per (name, date),
// ordered by name then date. Arrival is the earliest timestamp of the group
// and departure the latest; a single event gives arrival == departure.
func SummarizeAttendance(ds *Dataset) ([]AttendanceRecord, error) {
	events, err := ds.Events()
	if err != nil {
		return nil, err
	}

	groups := make(map[attendanceKey]*AttendanceRecord)
	for _, e := range events {
		if e.Name == "" {
			continue
		}
		key := attendanceKey{name: e.Name, date: DateOf(e.Timestamp)}
		rec, ok := groups[key]
		if !ok {
			groups[key] = &AttendanceRecord{
				Date:      key.date,
				Name:      e.Name,
				Arrival:   e.Timestamp,
				Departure: e.Timestamp,
			}
			continue
		}
		if e.Timestamp.Before(rec.Arrival) {
			rec.Arrival = e.Timestamp
		}
		if e.Timestamp.After(rec.Departure) {
			rec.Departure = e.Timestamp
		}
	}

	records := make([]AttendanceRecord, 0, len(groups))
	for _, rec := range groups {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}
