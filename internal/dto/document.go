package dto

// CreateDocumentRequest registers document metadata for an athlete or staff member.
type CreateDocumentRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	DocumentType string  `json:"documentType" validate:"required,oneof=medical_certificate id_document background_check insurance consent_form other"`
	FileName     string  `json:"fileName" validate:"required,max=255"`
	FilePath     string  `json:"filePath" validate:"required,max=500"`
	MimeType     *string `json:"mimeType,omitempty"`
	FileSize     *int64  `json:"fileSize,omitempty" validate:"omitempty,min=0"`
	OwnerKind    string  `json:"ownerKind" validate:"required,oneof=athlete staff"`
	OwnerID      string  `json:"ownerId" validate:"required"`
	ExpiryDate   *Date   `json:"expiryDate,omitempty"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
