package dto

// StaffRequest creates or replaces a staff record.
// Held certificates and background checks need their expiry dates.
type StaffRequest struct {
	FirstName             string  `json:"firstName" validate:"required,min=2,max=100"`
	LastName              string  `json:"lastName" validate:"required,min=2,max=100"`
	Email                 *string `json:"email,omitempty" validate:"omitempty,email,max=120"`
	Phone                 string  `json:"phone" validate:"required,min=5,max=20"`
	Role                  string  `json:"role" validate:"required,oneof=coach assistant_coach escort manager president vice_president secretary"`
	DocumentNumber        string  `json:"documentNumber" validate:"required,max=50"`
	DocumentExpiry        Date    `json:"documentExpiry"`
	HasMedicalCertificate bool    `json:"hasMedicalCertificate"`
	CertificateExpiry     *Date   `json:"certificateExpiry,omitempty"`
	HasBackgroundCheck    bool    `json:"hasBackgroundCheck"`
	BackgroundCheckDate   *Date   `json:"backgroundCheckDate,omitempty"`
	BackgroundCheckExpiry *Date   `json:"backgroundCheckExpiry,omitempty"`
	Active                *bool   `json:"active,omitempty"`
}

// TeamRequest creates or replaces a team.
type TeamRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	AgeGroup    string  `json:"ageGroup" validate:"required,max=20"`
	Season      string  `json:"season" validate:"required,max=20"`
	HeadCoachID *string `json:"headCoachId,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}
