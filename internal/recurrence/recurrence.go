// Package recurrence expands a weekly pattern into concrete calendar dates.
package recurrence

import (
	"iter"
	"slices"
	"time"
)

// Weekday counts from Monday = 0 to Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Valid reports whether w is within Monday..Sunday.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "Invalid"
	}
	return weekdayNames[w]
}

// WeekdayOf returns the Monday-based weekday of t.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Dates yields every date falling on weekday within [start, end], ascending.
// When start is already on weekday it is the first date yielded. The sequence
// is empty for an invalid weekday or when start is after end.
func Dates(weekday Weekday, start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if !weekday.Valid() {
			return
		}
		first, last := dateOf(start), dateOf(end)
		daysAhead := (int(weekday) - int(WeekdayOf(first)) + 7) % 7
		for current := first.AddDate(0, 0, daysAhead); !current.After(last); current = current.AddDate(0, 0, 7) {
			if !yield(current) {
				return
			}
		}
	}
}

// Generate collects Dates into a slice.
func Generate(weekday Weekday, start, end time.Time) []time.Time {
	return slices.Collect(Dates(weekday, start, end))
}
