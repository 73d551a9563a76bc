package compliance

import "time"

// SubjectType names a kind of entity that carries expiry dates.
type SubjectType string

const (
	SubjectAthlete   SubjectType = "athlete"
	SubjectStaff     SubjectType = "staff"
	SubjectInsurance SubjectType = "insurance"
	SubjectDocument  SubjectType = "document"
)

// SubjectTypes lists every subject type in dashboard order.
var SubjectTypes = []SubjectType{SubjectAthlete, SubjectStaff, SubjectInsurance, SubjectDocument}

// ParseSubjectType accepts singular or plural spellings.
func ParseSubjectType(raw string) (SubjectType, bool) {
	switch raw {
	case "athlete", "athletes":
		return SubjectAthlete, true
	case "staff":
		return SubjectStaff, true
	case "insurance", "insurances":
		return SubjectInsurance, true
	case "document", "documents":
		return SubjectDocument, true
	}
	return "", false
}

// Field labels one expiry-bearing attribute of a subject.
type Field string

const (
	FieldDocumentExpiry       Field = "document_expiry"
	FieldCertificateExpiry    Field = "certificate_expiry"
	FieldBackgroundCheck      Field = "background_check_expiry"
	FieldInsuranceEnd         Field = "end_date"
	FieldDocumentRecordExpiry Field = "expiry_date"
)

// Check is one expiry date together with whether it applies to the subject.
type Check struct {
	Field      Field
	Expiry     *time.Time
	Applicable bool
}

// Subject is implemented by every entity that exposes expiry checks.
type Subject interface {
	SubjectType() SubjectType
	SubjectID() string
	DisplayName() string
	ExpiryChecks() []Check
}

// EnumerateChecks returns the subject's checks in declaration order.
func EnumerateChecks(s Subject) []Check {
	if s == nil {
		return nil
	}
	return s.ExpiryChecks()
}

// Result is the classification of a single check.
type Result struct {
	Field  Field      `json:"field"`
	Expiry *time.Time `json:"expiry,omitempty"`
	Status Status     `json:"status"`
}

// Evaluate classifies every check of s against today.
func Evaluate(s Subject, today time.Time, lookaheadDays int) []Result {
	checks := EnumerateChecks(s)
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		results = append(results, Result{
			Field:  check.Field,
			Expiry: check.Expiry,
			Status: Classify(check.Expiry, today, lookaheadDays, check.Applicable),
		})
	}
	return results
}

// ResultFor returns the result recorded for field, or a not applicable result when absent.
func ResultFor(results []Result, field Field) Result {
	for _, r := range results {
		if r.Field == field {
			return r
		}
	}
	return Result{Field: field, Status: StatusNotApplicable}
}
