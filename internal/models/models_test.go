package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAthleteExpiryChecks(t *testing.T) {
	today := date(2025, 6, 1)
	athlete := Athlete{ID: "a1", FirstName: "Luca", LastName: "Bianchi", DocumentExpiry: today.AddDate(0, 0, -5)}

	results := compliance.Evaluate(athlete, today, 30)
	require.Len(t, results, 2)
	assert.Equal(t, compliance.StatusExpired, compliance.ResultFor(results, compliance.FieldDocumentExpiry).Status)
	assert.Equal(t, compliance.StatusNotApplicable, compliance.ResultFor(results, compliance.FieldCertificateExpiry).Status)
	assert.Equal(t, "Luca Bianchi", athlete.DisplayName())
}

func TestStaffChecksAndRequirements(t *testing.T) {
	today := date(2025, 6, 1)
	cert := today.AddDate(0, 2, 0)
	staff := Staff{
		ID: "s1", Role: StaffCoach, DocumentExpiry: today.AddDate(1, 0, 0),
		HasMedicalCertificate: true, CertificateExpiry: &cert,
	}

	checks := compliance.EnumerateChecks(staff)
	require.Len(t, checks, 3)
	assert.False(t, checks[2].Applicable)
	assert.Equal(t, []compliance.Field{compliance.FieldBackgroundCheck}, staff.MissingRequirements())

	staff.Role = StaffSecretary
	assert.Empty(t, staff.MissingRequirements())
}

func TestInsuranceEndingTodayIsExpiring(t *testing.T) {
	today := date(2025, 6, 1)
	policy := Insurance{ID: "i1", EndDate: today}
	results := compliance.Evaluate(policy, today, 30)
	assert.Equal(t, compliance.StatusExpiring, results[0].Status)
}

func TestDocumentWithoutExpiryIsNotAlerting(t *testing.T) {
	doc := Document{ID: "d1", Title: "Consent"}
	assert.Empty(t, compliance.AlertsFor(doc, date(2025, 1, 1), 30))
	assert.False(t, doc.ExpiryChecks()[0].Applicable)
}

func TestAthleteAge(t *testing.T) {
	a := Athlete{BirthDate: date(2012, 6, 15)}
	assert.Equal(t, 12, a.Age(date(2025, 6, 14)))
	assert.Equal(t, 13, a.Age(date(2025, 6, 15)))
	assert.Equal(t, 13, a.Age(date(2025, 12, 1)))
}
