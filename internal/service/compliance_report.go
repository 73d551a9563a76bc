package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
	"github.com/noah-isme/fortidesk-api/pkg/export"
)

// ReportQuery selects a report and its optional team filter.
type ReportQuery struct {
	Type   dto.ReportType
	TeamID string
	ComplianceQuery
}

// Report builds the tabular dataset for one compliance report. Every
// classification state is included, unlike alerts.
func (s *ComplianceService) Report(ctx context.Context, q ReportQuery) (*export.Dataset, error) {
	if !q.Type.Valid() {
		return nil, appErrors.NewValidation("unknown report", map[string]string{"report": string(q.Type)})
	}
	resolved, err := s.normalize(q.ComplianceQuery)
	if err != nil {
		return nil, err
	}
	q.ComplianceQuery = resolved

	var ds *export.Dataset
	switch q.Type {
	case dto.ReportTeamRoster:
		ds, err = s.rosterReport(ctx, q)
	case dto.ReportStaffCompliance:
		ds, err = s.staffReport(ctx, q)
	case dto.ReportDocumentStatus:
		ds, err = s.documentReport(ctx, q)
	case dto.ReportInsuranceStatus:
		ds, err = s.insuranceReport(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	ds.GeneratedAt = s.now().UTC()
	return ds, nil
}

func (s *ComplianceService) rosterReport(ctx context.Context, q ReportQuery) (*export.Dataset, error) {
	title := "Team Roster"
	if q.TeamID != "" {
		team, err := s.teams.FindByID(ctx, q.TeamID)
		if err != nil {
			return nil, notFound(err, "team")
		}
		title = "Team Roster - " + team.Name
	}
	athletes, err := s.activeAthletes(ctx, q.TeamID)
	if err != nil {
		return nil, err
	}

	ds := &export.Dataset{
		Title:   title,
		Headers: []string{"Name", "Age", "FIR ID", "Team", "ID Document", "Medical Certificate", "Fiscal Code"},
		Rows:    make([][]string, 0, len(athletes)),
	}
	for _, a := range athletes {
		results := compliance.Evaluate(a, q.Date, q.Window())
		ds.Rows = append(ds.Rows, []string{
			a.FullName(),
			strconv.Itoa(a.Age(q.Date)),
			valueOr(a.FederationID, "-"),
			valueOr(a.TeamName, "-"),
			compliance.Cell(compliance.ResultFor(results, compliance.FieldDocumentExpiry)),
			compliance.Cell(compliance.ResultFor(results, compliance.FieldCertificateExpiry)),
			a.FiscalCode,
		})
	}
	return ds, nil
}

func (s *ComplianceService) staffReport(ctx context.Context, q ReportQuery) (*export.Dataset, error) {
	staff, err := s.staff.ListActive(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load staff")
	}
	ds := &export.Dataset{
		Title:   "Staff Compliance",
		Headers: []string{"Name", "Role", "ID Document", "Medical Certificate", "Background Check", "Missing Requirements"},
		Rows:    make([][]string, 0, len(staff)),
	}
	for _, member := range staff {
		results := compliance.Evaluate(member, q.Date, q.Window())
		missing := "-"
		if fields := member.MissingRequirements(); len(fields) > 0 {
			names := make([]string, 0, len(fields))
			for _, f := range fields {
				names = append(names, string(f))
			}
			missing = strings.Join(names, ", ")
		}
		ds.Rows = append(ds.Rows, []string{
			member.FullName(),
			string(member.Role),
			compliance.Cell(compliance.ResultFor(results, compliance.FieldDocumentExpiry)),
			compliance.Cell(compliance.ResultFor(results, compliance.FieldCertificateExpiry)),
			compliance.Cell(compliance.ResultFor(results, compliance.FieldBackgroundCheck)),
			missing,
		})
	}
	return ds, nil
}

func (s *ComplianceService) documentReport(ctx context.Context, q ReportQuery) (*export.Dataset, error) {
	docs, _, err := s.namedDocuments(ctx)
	if err != nil {
		return nil, err
	}
	ds := &export.Dataset{
		Title:   "Document Status",
		Headers: []string{"Title", "Type", "Owner", "Owner Type", "Expiry Date", "Status", "Reminder Sent"},
		Rows:    make([][]string, 0, len(docs)),
	}
	for _, doc := range docs {
		result := compliance.ResultFor(compliance.Evaluate(doc, q.Date, q.Window()), compliance.FieldDocumentRecordExpiry)
		reminded := "No"
		if doc.ReminderSent {
			reminded = "Yes"
		}
		ds.Rows = append(ds.Rows, []string{
			doc.Title,
			string(doc.DocumentType),
			doc.OwnerName,
			string(doc.Owner.Kind),
			compliance.FormatDate(doc.ExpiryDate),
			compliance.Label(result.Status, ""),
			reminded,
		})
	}
	return ds, nil
}

func (s *ComplianceService) insuranceReport(ctx context.Context, q ReportQuery) (*export.Dataset, error) {
	policies, err := s.insurances.ListActive(ctx)
	if err != nil {
		return nil, internalError(err, "failed to load insurances")
	}
	ds := &export.Dataset{
		Title:   "Insurance Status",
		Headers: []string{"Athlete", "Type", "Provider", "Policy #", "Period", "Coverage", "Status"},
		Rows:    make([][]string, 0, len(policies)),
	}
	for _, p := range policies {
		result := compliance.ResultFor(compliance.Evaluate(p, q.Date, q.Window()), compliance.FieldInsuranceEnd)
		coverage := "-"
		if p.CoverageAmount != nil {
			coverage = fmt.Sprintf("%.2f", *p.CoverageAmount)
		}
		ds.Rows = append(ds.Rows, []string{
			p.AthleteName,
			string(p.InsuranceType),
			p.Provider,
			p.PolicyNumber,
			p.StartDate.Format(compliance.DateLayout) + " - " + p.EndDate.Format(compliance.DateLayout),
			coverage,
			compliance.Label(result.Status, "Active"),
		})
	}
	return ds, nil
}

func valueOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
