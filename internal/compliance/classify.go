// Package compliance classifies expiry dates and derives alerts from the
// entities that carry them.
package compliance

import "time"

// DefaultLookaheadDays is the window in which an upcoming expiry is reported as expiring.
const DefaultLookaheadDays = 30

// Status is the classification of a single expiry date relative to a reference day.
type Status string

const (
	StatusValid         Status = "valid"
	StatusExpiring      Status = "expiring"
	StatusExpired       Status = "expired"
	StatusNotApplicable Status = "not_applicable"
)

// Alerting reports whether the status should surface on dashboards and reminders.
func (s Status) Alerting() bool {
	return s == StatusExpiring || s == StatusExpired
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// Classify maps an optional expiry date to a Status. An inapplicable check is
// never judged on its date; a nil expiry means the item does not expire.
// Expiry on the reference day itself counts as expiring, so a zero window
// flags only items due today. Callers own defaulting of lookaheadDays.
func Classify(expiry *time.Time, today time.Time, lookaheadDays int, applicable bool) Status {
	if !applicable {
		return StatusNotApplicable
	}
	if expiry == nil {
		return StatusValid
	}
	day := DateOf(*expiry)
	ref := DateOf(today)
	switch {
	case day.Before(ref):
		return StatusExpired
	case !day.After(ref.AddDate(0, 0, lookaheadDays)):
		return StatusExpiring
	default:
		return StatusValid
	}
}

// DaysUntil returns the whole number of days from today to expiry, negative once expired.
func DaysUntil(expiry, today time.Time) int {
	return int(DateOf(expiry).Sub(DateOf(today)).Hours() / 24)
}
