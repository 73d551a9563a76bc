package dto

import "time"

// ReminderRunSummary reports the outcome of one expiry reminder run.
type ReminderRunSummary struct {
	RunID          string    `json:"runId"`
	Date           time.Time `json:"date"`
	Skipped        bool      `json:"skipped"`
	Documents      int       `json:"documents"`
	Notified       int       `json:"notified"`
	Failed         int       `json:"failed"`
	ZeroRecipients int       `json:"zeroRecipients"`
	Unresolved     int       `json:"unresolved"`
	Marked         int       `json:"marked"`
	MarkFailures   int       `json:"markFailures"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}

// ReminderDispatchAccepted acknowledges a queued reminder run.
type ReminderDispatchAccepted struct {
	JobID    string    `json:"jobId"`
	Date     time.Time `json:"date"`
	Enqueued time.Time `json:"enqueued"`
}

// PendingReminder describes a document awaiting its reminder.
type PendingReminder struct {
	DocumentID    string    `json:"documentId"`
	Title         string    `json:"title"`
	DocumentType  string    `json:"documentType"`
	OwnerKind     string    `json:"ownerKind"`
	OwnerID       string    `json:"ownerId"`
	OwnerName     string    `json:"ownerName"`
	ExpiryDate    time.Time `json:"expiryDate"`
	DaysRemaining int       `json:"daysRemaining"`
	Recipients    int       `json:"recipients"`
}
