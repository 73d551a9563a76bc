package dto

import (
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

// ComplianceDashboardResponse groups alerts per subject type so each kind can be labelled separately.
type ComplianceDashboardResponse struct {
	Date            time.Time             `json:"date"`
	LookaheadDays   int                   `json:"lookaheadDays"`
	Counts          ComplianceCounts      `json:"counts"`
	Sections        []ComplianceSection   `json:"sections"`
	RequiredMissing []StaffRequirementGap `json:"requiredMissing"`
	Skipped         int                   `json:"skipped"`
}

// ComplianceCounts summarises club size and alert volume.
type ComplianceCounts struct {
	Athletes int `json:"athletes"`
	Staff    int `json:"staff"`
	Teams    int `json:"teams"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
}

// ComplianceSection holds the alerts of one subject type split by field.
type ComplianceSection struct {
	SubjectType compliance.SubjectType `json:"subjectType"`
	Total       int                    `json:"total"`
	Groups      []ComplianceFieldGroup `json:"groups"`
}

// ComplianceFieldGroup lists alerts for one field, most urgent first.
type ComplianceFieldGroup struct {
	Field  compliance.Field   `json:"field"`
	Alerts []compliance.Alert `json:"alerts"`
}

// StaffRequirementGap flags a staff member whose role requires checks they do not hold.
type StaffRequirementGap struct {
	StaffID string             `json:"staffId"`
	Name    string             `json:"name"`
	Role    string             `json:"role"`
	Missing []compliance.Field `json:"missing"`
}

// AlertListResponse is the payload for a single subject type alert listing.
type AlertListResponse struct {
	SubjectType   compliance.SubjectType `json:"subjectType"`
	Date          time.Time              `json:"date"`
	LookaheadDays int                    `json:"lookaheadDays"`
	Alerts        []compliance.Alert     `json:"alerts"`
	Skipped       int                    `json:"skipped"`
}
