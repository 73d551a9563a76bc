package models

import (
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
)

// DocumentType enumerates the kinds of uploaded paperwork.
type DocumentType string

const (
	DocumentMedicalCertificate DocumentType = "medical_certificate"
	DocumentID                 DocumentType = "id_document"
	DocumentBackgroundCheck    DocumentType = "background_check"
	DocumentInsurance          DocumentType = "insurance"
	DocumentConsentForm        DocumentType = "consent_form"
	DocumentOther              DocumentType = "other"
)

// Document is file metadata belonging to an athlete or staff member.
// ReminderSent starts false and is only ever flipped to true.
type Document struct {
	ID           string           `db:"id" json:"id"`
	Title        string           `db:"title" json:"title"`
	DocumentType DocumentType     `db:"document_type" json:"document_type"`
	FileName     string           `db:"file_name" json:"file_name"`
	FilePath     string           `db:"file_path" json:"file_path"`
	MimeType     *string          `db:"mime_type" json:"mime_type,omitempty"`
	FileSize     *int64           `db:"file_size" json:"file_size,omitempty"`
	Owner        compliance.Owner `db:"-" json:"owner"`
	OwnerName    string           `db:"-" json:"owner_name,omitempty"`
	ExpiryDate   *time.Time       `db:"expiry_date" json:"expiry_date,omitempty"`
	ReminderSent bool             `db:"reminder_sent" json:"reminder_sent"`
	Notes        *string          `db:"notes" json:"notes,omitempty"`
	CreatedBy    *string          `db:"created_by" json:"created_by,omitempty"`
	Active       bool             `db:"active" json:"active"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

func (d Document) SubjectType() compliance.SubjectType { return compliance.SubjectDocument }
func (d Document) SubjectID() string                   { return d.ID }

func (d Document) DisplayName() string {
	if d.OwnerName != "" {
		return d.Title + " (" + d.OwnerName + ")"
	}
	return d.Title
}

// ExpiryChecks reports the document expiry, applicable only when one is set.
func (d Document) ExpiryChecks() []compliance.Check {
	return []compliance.Check{{Field: compliance.FieldDocumentRecordExpiry, Expiry: d.ExpiryDate, Applicable: d.ExpiryDate != nil}}
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	OwnerKind      compliance.OwnerKind
	OwnerID        string
	DocumentType   DocumentType
	ExpiringBefore *time.Time
	Page           int
	PageSize       int
}
