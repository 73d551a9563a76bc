package dto

// ReportType identifies a compliance report.
type ReportType string

const (
	ReportTeamRoster      ReportType = "team_roster"
	ReportStaffCompliance ReportType = "staff_compliance"
	ReportDocumentStatus  ReportType = "document_status"
	ReportInsuranceStatus ReportType = "insurance_status"
)

// ReportTypes lists every available report.
var ReportTypes = []ReportType{ReportTeamRoster, ReportStaffCompliance, ReportDocumentStatus, ReportInsuranceStatus}

// Valid reports whether the report type is known.
func (r ReportType) Valid() bool {
	for _, t := range ReportTypes {
		if t == r {
			return true
		}
	}
	return false
}
