package models

import (
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

// InsuranceType enumerates supported policy kinds.
type InsuranceType string

const (
	InsuranceSports         InsuranceType = "sports"
	InsuranceAccident       InsuranceType = "accident"
	InsuranceCivilLiability InsuranceType = "civil_liability"
)

// Insurance is a policy covering one athlete.
type Insurance struct {
	ID             string        `db:"id" json:"id"`
	AthleteID      string        `db:"athlete_id" json:"athlete_id"`
	AthleteName    string        `db:"athlete_name" json:"athlete_name"`
	PolicyNumber   string        `db:"policy_number" json:"policy_number"`
	Provider       string        `db:"provider" json:"provider"`
	InsuranceType  InsuranceType `db:"insurance_type" json:"insurance_type"`
	StartDate      time.Time     `db:"start_date" json:"start_date"`
	EndDate        time.Time     `db:"end_date" json:"end_date"`
	CoverageAmount *float64      `db:"coverage_amount" json:"coverage_amount,omitempty"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	Active         bool          `db:"active" json:"active"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
}

func (i Insurance) SubjectType() compliance.SubjectType { return compliance.SubjectInsurance }
func (i Insurance) SubjectID() string                   { return i.ID }

func (i Insurance) DisplayName() string {
	if i.AthleteName != "" {
		return i.AthleteName + " - " + i.PolicyNumber
	}
	return i.PolicyNumber
}

func (i Insurance) ExpiryChecks() []compliance.Check {
	end := i.EndDate
	return []compliance.Check{{Field: compliance.FieldInsuranceEnd, Expiry: &end, Applicable: true}}
}
