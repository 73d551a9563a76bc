package models

import (
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

// StaffRole enumerates club staff positions.
type StaffRole string

const (
	StaffCoach          StaffRole = "coach"
	StaffAssistantCoach StaffRole = "assistant_coach"
	StaffEscort         StaffRole = "escort"
	StaffManager        StaffRole = "manager"
	StaffPresident      StaffRole = "president"
	StaffVicePresident  StaffRole = "vice_president"
	StaffSecretary      StaffRole = "secretary"
)

// Staff is a coach, escort or board member.
type Staff struct {
	ID                    string     `db:"id" json:"id"`
	FirstName             string     `db:"first_name" json:"first_name"`
	LastName              string     `db:"last_name" json:"last_name"`
	Email                 *string    `db:"email" json:"email,omitempty"`
	Phone                 string     `db:"phone" json:"phone"`
	Role                  StaffRole  `db:"role" json:"role"`
	DocumentNumber        string     `db:"document_number" json:"document_number"`
	DocumentExpiry        time.Time  `db:"document_expiry" json:"document_expiry"`
	HasMedicalCertificate bool       `db:"has_medical_certificate" json:"has_medical_certificate"`
	CertificateExpiry     *time.Time `db:"certificate_expiry" json:"certificate_expiry,omitempty"`
	HasBackgroundCheck    bool       `db:"has_background_check" json:"has_background_check"`
	BackgroundCheckDate   *time.Time `db:"background_check_date" json:"background_check_date,omitempty"`
	BackgroundCheckExpiry *time.Time `db:"background_check_expiry" json:"background_check_expiry,omitempty"`
	Active                bool       `db:"active" json:"active"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

func (s Staff) FullName() string { return s.FirstName + " " + s.LastName }

func (s Staff) SubjectType() compliance.SubjectType { return compliance.SubjectStaff }
func (s Staff) SubjectID() string                   { return s.ID }
func (s Staff) DisplayName() string                 { return s.FullName() }

// ExpiryChecks reports the identity document plus the gated certificate and background check.
func (s Staff) ExpiryChecks() []compliance.Check {
	docExpiry := s.DocumentExpiry
	return []compliance.Check{
		{Field: compliance.FieldDocumentExpiry, Expiry: &docExpiry, Applicable: true},
		{Field: compliance.FieldCertificateExpiry, Expiry: s.CertificateExpiry, Applicable: s.HasMedicalCertificate},
		{Field: compliance.FieldBackgroundCheck, Expiry: s.BackgroundCheckExpiry, Applicable: s.HasBackgroundCheck},
	}
}

// MissingRequirements lists checks the role requires that this person does not hold.
func (s Staff) MissingRequirements() []compliance.Field {
	return compliance.MissingRequirements(string(s.Role), s.ExpiryChecks())
}

// StaffFilter narrows staff listings.
type StaffFilter struct {
	Role   StaffRole
	Active *bool
}
