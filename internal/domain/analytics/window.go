// Package analytics folds raw submissions into topic, activity, and
// problem-level aggregates and derives weak-topic guidance from them.
//
// Every function here is a pure fold over its input: no I/O, no shared
// state, safe to run concurrently on the same slice.
package analytics

import "time"

// DefaultWindowDays is the trailing window length used for activity and
// statistics.
const DefaultWindowDays = 90

const dateLayout = "2006-01-02"

// Window is a closed trailing time range [Start, End] whose calendar days
// are evaluated in Location.
type Window struct {
	Start    time.Time
	End      time.Time
	Days     int
	Location *time.Location
}

// NewWindow returns the window ending at now and starting days calendar days
// earlier at the same wall-clock time. A nil loc means time.Local.
func NewWindow(now time.Time, days int, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	if days < 0 {
		days = 0
	}
	end := now.In(loc)
	return Window{
		Start:    end.AddDate(0, 0, -days),
		End:      end,
		Days:     days,
		Location: loc,
	}
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DateOf formats the calendar day of t in the window's location.
func (w Window) DateOf(t time.Time) string {
	return t.In(w.Location).Format(dateLayout)
}

// Labels returns Days+1 consecutive dates from Start's day through End's day.
func (w Window) Labels() []string {
	labels := make([]string, w.Days+1)
	for i := range labels {
		labels[i] = w.Start.AddDate(0, 0, i).Format(dateLayout)
	}
	return labels
}
