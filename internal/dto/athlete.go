package dto

// AthleteRequest creates or replaces an athlete record.
// A held medical certificate needs both its type and its expiry.
type AthleteRequest struct {
	FirstName             string  `json:"firstName" validate:"required,min=2,max=100"`
	LastName              string  `json:"lastName" validate:"required,min=2,max=100"`
	BirthDate             Date    `json:"birthDate"`
	FiscalCode            string  `json:"fiscalCode" validate:"required,len=16,alphanum"`
	FederationID          *string `json:"federationId,omitempty" validate:"omitempty,max=50"`
	TeamID                *string `json:"teamId,omitempty"`
	DocumentNumber        string  `json:"documentNumber" validate:"required,max=50"`
	DocumentExpiry        Date    `json:"documentExpiry"`
	HasMedicalCertificate bool    `json:"hasMedicalCertificate"`
	CertificateType       *string `json:"certificateType,omitempty" validate:"omitempty,oneof=medical sports_booklet"`
	CertificateExpiry     *Date   `json:"certificateExpiry,omitempty"`
	Active                *bool   `json:"active,omitempty"`
}

// GuardianRequest creates or replaces a guardian of an athlete.
type GuardianRequest struct {
	FirstName    string `json:"firstName" validate:"required,min=2,max=100"`
	LastName     string `json:"lastName" validate:"required,min=2,max=100"`
	Phone        string `json:"phone" validate:"required,min=5,max=20"`
	Email        string `json:"email" validate:"required,email,max=120"`
	GuardianType string `json:"guardianType" validate:"required,oneof=father mother guardian"`
	Active       *bool  `json:"active,omitempty"`
}

// InsuranceRequest creates or replaces a policy covering an athlete.
type InsuranceRequest struct {
	PolicyNumber   string   `json:"policyNumber" validate:"required,max=100"`
	Provider       string   `json:"provider" validate:"required,max=200"`
	InsuranceType  string   `json:"insuranceType" validate:"required,oneof=sports accident civil_liability"`
	StartDate      Date     `json:"startDate"`
	EndDate        Date     `json:"endDate"`
	CoverageAmount *float64 `json:"coverageAmount,omitempty" validate:"omitempty,gte=0"`
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Active         *bool    `json:"active,omitempty"`
}
