package compliance

import "time"

// DateLayout is the day-first layout used in reports and emails.
const DateLayout = "02/01/2006"

// FormatDate renders an optional date, using "-" when absent.
func FormatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DateLayout)
}

// Label renders a status for humans. validLabel overrides the text used for valid items.
func Label(s Status, validLabel string) string {
	switch s {
	case StatusExpired:
		return "Expired"
	case StatusExpiring:
		return "Expiring"
	case StatusNotApplicable:
		return "N/A"
	default:
		if validLabel != "" {
			return validLabel
		}
		return "Valid"
	}
}

// Cell renders a result as "Status (date)" for tabular reports.
func Cell(r Result) string {
	if r.Status == StatusNotApplicable {
		return "N/A"
	}
	return Label(r.Status, "") + " (" + FormatDate(r.Expiry) + ")"
}
