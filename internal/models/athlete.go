package models

import (
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

// CertificateType distinguishes a full medical certificate from a sports booklet.
type CertificateType string

const (
	CertificateMedical       CertificateType = "medical"
	CertificateSportsBooklet CertificateType = "sports_booklet"
)

// Athlete is a registered player of the club.
type Athlete struct {
	ID                    string           `db:"id" json:"id"`
	FirstName             string           `db:"first_name" json:"first_name"`
	LastName              string           `db:"last_name" json:"last_name"`
	BirthDate             time.Time        `db:"birth_date" json:"birth_date"`
	FiscalCode            string           `db:"fiscal_code" json:"fiscal_code"`
	FederationID          *string          `db:"federation_id" json:"federation_id,omitempty"`
	TeamID                *string          `db:"team_id" json:"team_id,omitempty"`
	TeamName              *string          `db:"team_name" json:"team_name,omitempty"`
	DocumentNumber        string           `db:"document_number" json:"document_number"`
	DocumentExpiry        time.Time        `db:"document_expiry" json:"document_expiry"`
	HasMedicalCertificate bool             `db:"has_medical_certificate" json:"has_medical_certificate"`
	CertificateType       *CertificateType `db:"certificate_type" json:"certificate_type,omitempty"`
	CertificateExpiry     *time.Time       `db:"certificate_expiry" json:"certificate_expiry,omitempty"`
	Active                bool             `db:"active" json:"active"`
	CreatedAt             time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time        `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (a Athlete) FullName() string {
	return a.FirstName + " " + a.LastName
}

// Age returns the athlete's age in whole years on the given day.
func (a Athlete) Age(today time.Time) int {
	years := today.Year() - a.BirthDate.Year()
	if !sameOrAfterBirthday(today, a.BirthDate) {
		years--
	}
	return years
}

func sameOrAfterBirthday(today, birth time.Time) bool {
	if today.Month() != birth.Month() {
		return today.Month() > birth.Month()
	}
	return today.Day() >= birth.Day()
}

func (a Athlete) SubjectType() compliance.SubjectType { return compliance.SubjectAthlete }
func (a Athlete) SubjectID() string                   { return a.ID }
func (a Athlete) DisplayName() string                 { return a.FullName() }

// ExpiryChecks reports the identity document and, when held, the medical certificate.
func (a Athlete) ExpiryChecks() []compliance.Check {
	docExpiry := a.DocumentExpiry
	return []compliance.Check{
		{Field: compliance.FieldDocumentExpiry, Expiry: &docExpiry, Applicable: true},
		{Field: compliance.FieldCertificateExpiry, Expiry: a.CertificateExpiry, Applicable: a.HasMedicalCertificate},
	}
}

// AthleteFilter narrows athlete listings.
type AthleteFilter struct {
	TeamID string
	Active *bool
}
