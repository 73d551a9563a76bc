package service

import (
	"bytes"
	"html/template"
	"time"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/models"
)

var reminderTemplate = template.Must(template.New("expiry_reminder").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Document Expiry Reminder</h2>
  <p>The following document for <strong>{{.OwnerName}}</strong> {{if .Expired}}has expired{{else}}is about to expire{{end}}:</p>
  <table cellpadding="4">
    <tr><td>Document</td><td><strong>{{.Title}}</strong></td></tr>
    <tr><td>Type</td><td>{{.DocumentType}}</td></tr>
    <tr><td>Expiry date</td><td>{{.ExpiryDate}}</td></tr>
  </table>
  <p>Please provide an updated copy to the club office as soon as possible.</p>
</body>
</html>
`))

type reminderView struct {
	OwnerName    string
	Title        string
	DocumentType string
	ExpiryDate   string
	Expired      bool
}

func reminderSubject(doc models.Document) string {
	return "Document Expiry Reminder: " + doc.Title
}

func renderReminder(doc models.Document, ownerName string, today time.Time) (string, error) {
	view := reminderView{
		OwnerName:    ownerName,
		Title:        doc.Title,
		DocumentType: string(doc.DocumentType),
		ExpiryDate:   compliance.FormatDate(doc.ExpiryDate),
		Expired:      doc.ExpiryDate != nil && compliance.DateOf(*doc.ExpiryDate).Before(today),
	}
	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
