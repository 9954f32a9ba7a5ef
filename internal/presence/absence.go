package presence

import "sort"

// AbsenceRecord marks a day of the observed range with no event for a person.
type AbsenceRecord struct {
	Name string `json:"name"`
	Date Date   `json:"date"`
}

// DetectAbsences lists, for every person, the dates between the global first
// and last event day (inclusive) on which that person has no event. The range
// is shared by everybody and spans every timestamped row, including rows
// without a name: it is not narrowed to a person's own first and last
// appearance. Output is ordered by name then date.
func DetectAbsences(ds *Dataset) ([]AbsenceRecord, error) {
	events, err := ds.Events()
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []AbsenceRecord{}, nil
	}

	first, last := DateOf(events[0].Timestamp), DateOf(events[0].Timestamp)
	present := make(map[string]map[Date]struct{})
	for _, e := range events {
		d := DateOf(e.Timestamp)
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
		if e.Name == "" {
			continue
		}
		days, ok := present[e.Name]
		if !ok {
			days = make(map[Date]struct{})
			present[e.Name] = days
		}
		days[d] = struct{}{}
	}

	names := make([]string, 0, len(present))
	for name := range present {
		names = append(names, name)
	}
	sort.Strings(names)

	absences := []AbsenceRecord{}
	for _, name := range names {
		days := present[name]
		for d := first; !d.After(last); d = d.AddDays(1) {
			if _, ok := days[d]; !ok {
				absences = append(absences, AbsenceRecord{Name: name, Date: d})
			}
		}
	}
	return absences, nil
}
