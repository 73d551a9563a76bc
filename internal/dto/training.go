package dto

import "github.com/noah-isme/fortidesk-api/internal/models"

// TrainingSessionTemplate carries the fields shared by every generated session.
type TrainingSessionTemplate struct {
	Title       string  `json:"title" validate:"required,max=200"`
	StartTime   string  `json:"startTime" validate:"required,datetime=15:04"`
	EndTime     string  `json:"endTime" validate:"required,datetime=15:04"`
	Location    string  `json:"location" validate:"max=200"`
	SessionType string  `json:"sessionType" validate:"required,oneof=training friendly tournament event"`
	TeamID      string  `json:"teamId" validate:"required"`
	SeasonID    *string `json:"seasonId,omitempty"`
	CoachID     *string `json:"coachId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// CreateTrainingSessionRequest creates one session on a given date.
type CreateTrainingSessionRequest struct {
	TrainingSessionTemplate
	Date Date `json:"date"`
}

// UpdateTrainingSessionRequest edits one session only.
type UpdateTrainingSessionRequest = CreateTrainingSessionRequest

// RecurringSessionRequest expands a weekly pattern into sessions.
// Weekday counts from Monday = 0.
type RecurringSessionRequest struct {
	TrainingSessionTemplate
	Weekday   *int `json:"weekday" validate:"required,min=0,max=6"`
	StartDate Date `json:"startDate"`
	EndDate   Date `json:"endDate"`
}

// CancelSessionRequest cancels one session.
type CancelSessionRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// RecurringSessionResult reports the sessions generated from a pattern.
type RecurringSessionResult struct {
	Created  int                      `json:"created"`
	Sessions []models.TrainingSession `json:"sessions"`
}
