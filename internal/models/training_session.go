package models

import "time"

// SessionType enumerates calendar entry kinds.
type SessionType string

const (
	SessionTraining   SessionType = "training"
	SessionFriendly   SessionType = "friendly"
	SessionTournament SessionType = "tournament"
	SessionEvent      SessionType = "event"
)

// TrainingSession is a scheduled team activity. Rows produced from a weekly
// pattern keep the weekday and end date that generated them for display only.
type TrainingSession struct {
	ID                 string      `db:"id" json:"id"`
	Title              string      `db:"title" json:"title"`
	Date               time.Time   `db:"date" json:"date"`
	StartTime          string      `db:"start_time" json:"start_time"`
	EndTime            string      `db:"end_time" json:"end_time"`
	Location           string      `db:"location" json:"location"`
	SessionType        SessionType `db:"session_type" json:"session_type"`
	TeamID             string      `db:"team_id" json:"team_id"`
	SeasonID           *string     `db:"season_id" json:"season_id,omitempty"`
	CoachID            *string     `db:"coach_id" json:"coach_id,omitempty"`
	Notes              *string     `db:"notes" json:"notes,omitempty"`
	IsRecurring        bool        `db:"is_recurring" json:"is_recurring"`
	RecurrenceDay      *int        `db:"recurrence_day" json:"recurrence_day,omitempty"`
	RecurrenceEndDate  *time.Time  `db:"recurrence_end_date" json:"recurrence_end_date,omitempty"`
	Cancelled          bool        `db:"cancelled" json:"cancelled"`
	CancellationReason *string     `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedBy          *string     `db:"created_by" json:"created_by,omitempty"`
	Active             bool        `db:"active" json:"active"`
	CreatedAt          time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at" json:"updated_at"`
}

// TrainingSessionFilter narrows session listings.
type TrainingSessionFilter struct {
	TeamID   string
	SeasonID string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
