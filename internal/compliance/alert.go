package compliance

import (
	"sort"
	"time"
)

// Alert is an expiring or expired check attached to its subject.
type Alert struct {
	SubjectType   SubjectType `json:"subjectType"`
	SubjectID     string      `json:"subjectId"`
	SubjectName   string      `json:"subjectName"`
	Field         Field       `json:"field"`
	Status        Status      `json:"status"`
	Expiry        time.Time   `json:"expiry"`
	DaysRemaining int         `json:"daysRemaining"`
}

// AlertsFor returns the alerting checks of a single subject.
func AlertsFor(s Subject, today time.Time, lookaheadDays int) []Alert {
	var alerts []Alert
	for _, r := range Evaluate(s, today, lookaheadDays) {
		if !r.Status.Alerting() || r.Expiry == nil {
			continue
		}
		alerts = append(alerts, Alert{
			SubjectType:   s.SubjectType(),
			SubjectID:     s.SubjectID(),
			SubjectName:   s.DisplayName(),
			Field:         r.Field,
			Status:        r.Status,
			Expiry:        DateOf(*r.Expiry),
			DaysRemaining: DaysUntil(*r.Expiry, today),
		})
	}
	return alerts
}

// CollectAlerts gathers alerts across subjects ordered by expiry, then subject id, then field.
func CollectAlerts[S Subject](subjects []S, today time.Time, lookaheadDays int) []Alert {
	alerts := make([]Alert, 0)
	for _, s := range subjects {
		alerts = append(alerts, AlertsFor(s, today, lookaheadDays)...)
	}
	SortAlerts(alerts)
	return alerts
}

// SortAlerts orders alerts in place.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if !a.Expiry.Equal(b.Expiry) {
			return a.Expiry.Before(b.Expiry)
		}
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		return a.Field < b.Field
	})
}

// GroupByField splits alerts per field preserving order.
func GroupByField(alerts []Alert) map[Field][]Alert {
	grouped := make(map[Field][]Alert)
	for _, a := range alerts {
		grouped[a.Field] = append(grouped[a.Field], a)
	}
	return grouped
}
