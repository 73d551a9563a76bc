package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

var errNoRows = sql.ErrNoRows

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func strPtr(s string) *string { return &s }

type fakeAthletes struct {
	athletes []models.Athlete
	err      error
	filters  []models.AthleteFilter
}

func (f *fakeAthletes) List(_ context.Context, filter models.AthleteFilter) ([]models.Athlete, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Athlete
	for _, a := range f.athletes {
		if filter.TeamID != "" && (a.TeamID == nil || *a.TeamID != filter.TeamID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAthletes) CountActive(context.Context) (int, error) { return len(f.athletes), nil }

type fakeStaff struct {
	staff []models.Staff
}

func (f *fakeStaff) ListActive(context.Context) ([]models.Staff, error) { return f.staff, nil }
func (f *fakeStaff) CountActive(context.Context) (int, error)        { return len(f.staff), nil }

type fakeInsurances struct {
	policies []models.Insurance
}

func (f *fakeInsurances) ListActive(context.Context) ([]models.Insurance, error) {
	return f.policies, nil
}

type fakeExpiringDocs struct {
	docs []models.Document
}

func (f *fakeExpiringDocs) ListWithExpiry(context.Context) ([]models.Document, error) {
	return f.docs, nil
}

type fakeTeams struct {
	teams map[string]*models.Team
}

func (f *fakeTeams) FindByID(_ context.Context, id string) (*models.Team, error) {
	if t, ok := f.teams[id]; ok {
		return t, nil
	}
	return nil, errNoRows
}

func (f *fakeTeams) CountActive(context.Context) (int, error) { return len(f.teams), nil }

func (f *fakeTeams) SeasonExists(_ context.Context, id string) (bool, error) {
	return id == "season-1", nil
}

type fakeOwners struct {
	owners     map[compliance.Owner]*ResolvedOwner
	recipients map[compliance.Owner][]string
	errs       map[compliance.Owner]error
	lookups    int
}

func (f *fakeOwners) Lookup(_ context.Context, owner compliance.Owner) (*ResolvedOwner, error) {
	f.lookups++
	if err, ok := f.errs[owner]; ok {
		return nil, err
	}
	if o, ok := f.owners[owner]; ok {
		return o, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "owner not found")
}

func (f *fakeOwners) Recipients(_ context.Context, owner *ResolvedOwner) ([]string, error) {
	return f.recipients[owner.Owner], nil
}

type memoryCacheRepo struct {
	values map[string][]byte
	sets   int
}

func newMemoryCacheRepo() *memoryCacheRepo { return &memoryCacheRepo{values: map[string][]byte{}} }

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.sets++
	m.values[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			delete(m.values, k)
		}
	}
	return nil
}

type complianceFixture struct {
	svc       *ComplianceService
	athletes  *fakeAthletes
	staff     *fakeStaff
	documents *fakeExpiringDocs
	owners    *fakeOwners
	cache     *memoryCacheRepo
}

func newComplianceFixture() *complianceFixture {
	teamID := "team-u12"
	teamName := "Under 12"
	athletes := &fakeAthletes{athletes: []models.Athlete{
		{
			ID: "ath-1", FirstName: "Marco", LastName: "Rossi", BirthDate: day(2013, 10, 5),
			FiscalCode: "RSSMRC13R05H501X", TeamID: &teamID, TeamName: &teamName,
			DocumentExpiry: day(2025, 8, 20), HasMedicalCertificate: false, CertificateExpiry: dayPtr(2025, 8, 1),
		},
		{
			ID: "ath-2", FirstName: "Luca", LastName: "Bianchi", BirthDate: day(2013, 1, 10),
			FiscalCode: "BNCLCU13A10H501Y", FederationID: strPtr("FIR-22"),
			DocumentExpiry: day(2027, 1, 1), HasMedicalCertificate: true, CertificateExpiry: dayPtr(2025, 9, 10),
		},
		{
			ID: "ath-3", FirstName: "Sara", LastName: "Verdi", BirthDate: day(2012, 3, 3),
			DocumentExpiry: day(2027, 1, 1), HasMedicalCertificate: true, CertificateExpiry: dayPtr(2026, 6, 1),
		},
	}}
	staff := &fakeStaff{staff: []models.Staff{
		{
			ID: "stf-1", FirstName: "Anna", LastName: "Neri", Role: models.StaffCoach,
			DocumentExpiry: day(2025, 9, 1), HasMedicalCertificate: true, CertificateExpiry: dayPtr(2026, 1, 1),
		},
		{
			ID: "stf-2", FirstName: "Paolo", LastName: "Gialli", Role: models.StaffSecretary,
			DocumentExpiry: day(2028, 1, 1),
		},
	}}
	insurances := &fakeInsurances{policies: []models.Insurance{
		{ID: "ins-1", AthleteName: "Marco Rossi", PolicyNumber: "P-1", Provider: "Acme", InsuranceType: models.InsuranceSports,
			StartDate: day(2025, 1, 1), EndDate: day(2025, 12, 31)},
		{ID: "ins-2", AthleteName: "Luca Bianchi", PolicyNumber: "P-2", Provider: "Acme", InsuranceType: models.InsuranceAccident,
			StartDate: day(2024, 9, 1), EndDate: day(2025, 9, 15), CoverageAmount: func() *float64 { v := 1500.0; return &v }()},
	}}
	athleteOwner := compliance.Owner{Kind: compliance.OwnerAthlete, ID: "ath-1"}
	ghostOwner := compliance.Owner{Kind: compliance.OwnerStaff, ID: "gone"}
	brokenOwner := compliance.Owner{Kind: compliance.OwnerStaff, ID: "broken"}
	documents := &fakeExpiringDocs{docs: []models.Document{
		{ID: "doc-1", Title: "Medical", DocumentType: models.DocumentMedicalCertificate, Owner: athleteOwner, ExpiryDate: dayPtr(2025, 9, 5)},
		{ID: "doc-2", Title: "Consent", DocumentType: models.DocumentConsentForm, Owner: athleteOwner, ExpiryDate: dayPtr(2026, 9, 5), ReminderSent: true},
		{ID: "doc-3", Title: "Clearance", DocumentType: models.DocumentBackgroundCheck, Owner: ghostOwner, ExpiryDate: dayPtr(2025, 8, 1)},
		{ID: "doc-4", Title: "ID", DocumentType: models.DocumentID, Owner: brokenOwner, ExpiryDate: dayPtr(2025, 8, 2)},
	}}
	owners := &fakeOwners{
		owners: map[compliance.Owner]*ResolvedOwner{
			athleteOwner: {Owner: athleteOwner, Name: "Marco Rossi", Active: true},
		},
		errs: map[compliance.Owner]error{brokenOwner: errors.New("connection reset")},
	}
	teams := &fakeTeams{teams: map[string]*models.Team{teamID: {ID: teamID, Name: teamName}}}
	cacheRepo := newMemoryCacheRepo()

	svc := NewComplianceService(ComplianceServiceParams{
		Athletes:   athletes,
		Staff:      staff,
		Insurances: insurances,
		Documents:  documents,
		Teams:      teams,
		Owners:     owners,
		Cache:      NewCacheService(cacheRepo, nil, time.Minute, nil, true),
	})
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC) }

	return &complianceFixture{svc: svc, athletes: athletes, staff: staff, documents: documents, owners: owners, cache: cacheRepo}
}

func TestComplianceCollectAlertsAthletes(t *testing.T) {
	fx := newComplianceFixture()

	alerts, skipped, err := fx.svc.CollectAlerts(context.Background(), compliance.SubjectAthlete, ComplianceQuery{})
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, alerts, 2)

	assert.Equal(t, "ath-1", alerts[0].SubjectID)
	assert.Equal(t, compliance.FieldDocumentExpiry, alerts[0].Field)
	assert.Equal(t, compliance.StatusExpired, alerts[0].Status)
	assert.Equal(t, -12, alerts[0].DaysRemaining)

	assert.Equal(t, "ath-2", alerts[1].SubjectID)
	assert.Equal(t, compliance.FieldCertificateExpiry, alerts[1].Field)
	assert.Equal(t, compliance.StatusExpiring, alerts[1].Status)

	require.Len(t, fx.athletes.filters, 1)
	require.NotNil(t, fx.athletes.filters[0].Active)
	assert.True(t, *fx.athletes.filters[0].Active)
}

func TestComplianceCollectAlertsHonoursLookahead(t *testing.T) {
	fx := newComplianceFixture()

	alerts, _, err := fx.svc.CollectAlerts(context.Background(), compliance.SubjectInsurance, ComplianceQuery{LookaheadDays: Lookahead(10)})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	alerts, _, err = fx.svc.CollectAlerts(context.Background(), compliance.SubjectInsurance, ComplianceQuery{LookaheadDays: Lookahead(14)})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "ins-2", alerts[0].SubjectID)
	assert.Equal(t, 14, alerts[0].DaysRemaining)
}

func TestComplianceZeroLookaheadFlagsOnlyToday(t *testing.T) {
	fx := newComplianceFixture()
	ctx := context.Background()

	alerts, _, err := fx.svc.CollectAlerts(ctx, compliance.SubjectAthlete, ComplianceQuery{LookaheadDays: Lookahead(0)})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "ath-1", alerts[0].SubjectID)
	assert.Equal(t, compliance.StatusExpired, alerts[0].Status)

	alerts, _, err = fx.svc.CollectAlerts(ctx, compliance.SubjectStaff, ComplianceQuery{LookaheadDays: Lookahead(0)})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, compliance.StatusExpiring, alerts[0].Status)
	assert.Equal(t, 0, alerts[0].DaysRemaining)

	resp, _, err := fx.svc.Dashboard(ctx, ComplianceQuery{LookaheadDays: Lookahead(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LookaheadDays)
}

func TestComplianceRejectsNegativeLookahead(t *testing.T) {
	fx := newComplianceFixture()
	ctx := context.Background()
	q := ComplianceQuery{LookaheadDays: Lookahead(-1)}

	_, _, err := fx.svc.CollectAlerts(ctx, compliance.SubjectAthlete, q)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, _, err = fx.svc.Dashboard(ctx, q)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = fx.svc.Resolve(q)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Fields, "lookahead")
}

func TestComplianceCollectAlertsDocumentsResolveOwners(t *testing.T) {
	fx := newComplianceFixture()

	alerts, skipped, err := fx.svc.CollectAlerts(context.Background(), compliance.SubjectDocument, ComplianceQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, alerts, 2)

	assert.Equal(t, "doc-3", alerts[0].SubjectID)
	assert.Equal(t, "Clearance (Unknown)", alerts[0].SubjectName)
	assert.Equal(t, "doc-1", alerts[1].SubjectID)
	assert.Equal(t, "Medical (Marco Rossi)", alerts[1].SubjectName)
	// doc-1 and doc-2 share an owner; the name is resolved once.
	assert.Equal(t, 3, fx.owners.lookups)
}

func TestComplianceCollectAlertsUnknownType(t *testing.T) {
	fx := newComplianceFixture()

	_, _, err := fx.svc.CollectAlerts(context.Background(), compliance.SubjectType("teams"), ComplianceQuery{})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestComplianceDashboard(t *testing.T) {
	fx := newComplianceFixture()
	ctx := context.Background()

	resp, hit, err := fx.svc.Dashboard(ctx, ComplianceQuery{})
	require.NoError(t, err)
	assert.False(t, hit)

	assert.Equal(t, day(2025, 9, 1), resp.Date)
	assert.Equal(t, compliance.DefaultLookaheadDays, resp.LookaheadDays)
	assert.Equal(t, dto.ComplianceCounts{Athletes: 3, Staff: 2, Teams: 1, Expiring: 4, Expired: 2}, resp.Counts)
	assert.Equal(t, 1, resp.Skipped)

	require.Len(t, resp.Sections, 4)
	assert.Equal(t, compliance.SubjectAthlete, resp.Sections[0].SubjectType)
	assert.Equal(t, compliance.SubjectDocument, resp.Sections[3].SubjectType)

	staffSection := resp.Sections[1]
	assert.Equal(t, 1, staffSection.Total)
	require.Len(t, staffSection.Groups, 3)
	assert.Equal(t, compliance.FieldDocumentExpiry, staffSection.Groups[0].Field)
	assert.Len(t, staffSection.Groups[0].Alerts, 1)
	assert.Equal(t, compliance.FieldBackgroundCheck, staffSection.Groups[2].Field)
	assert.NotNil(t, staffSection.Groups[2].Alerts)
	assert.Empty(t, staffSection.Groups[2].Alerts)

	require.Len(t, resp.RequiredMissing, 1)
	assert.Equal(t, "stf-1", resp.RequiredMissing[0].StaffID)
	assert.Equal(t, []compliance.Field{compliance.FieldBackgroundCheck}, resp.RequiredMissing[0].Missing)

	_, hit, err = fx.svc.Dashboard(ctx, ComplianceQuery{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Contains(t, fx.cache.values, "dash:compliance:2025-09-01:30")

	fx.svc.InvalidateDashboard(ctx)
	assert.Empty(t, fx.cache.values)
}

func TestComplianceReportRoster(t *testing.T) {
	fx := newComplianceFixture()

	ds, err := fx.svc.Report(context.Background(), ReportQuery{Type: dto.ReportTeamRoster, TeamID: "team-u12"})
	require.NoError(t, err)
	assert.Equal(t, "Team Roster - Under 12", ds.Title)
	assert.Equal(t, []string{"Name", "Age", "FIR ID", "Team", "ID Document", "Medical Certificate", "Fiscal Code"}, ds.Headers)
	require.Len(t, ds.Rows, 1)
	assert.Equal(t, []string{"Marco Rossi", "11", "-", "Under 12", "Expired (20/08/2025)", "N/A", "RSSMRC13R05H501X"}, ds.Rows[0])
	assert.False(t, ds.GeneratedAt.IsZero())
}

func TestComplianceReportRosterUnknownTeam(t *testing.T) {
	fx := newComplianceFixture()

	_, err := fx.svc.Report(context.Background(), ReportQuery{Type: dto.ReportTeamRoster, TeamID: "missing"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestComplianceReportIncludesEveryState(t *testing.T) {
	fx := newComplianceFixture()
	ctx := context.Background()

	roster, err := fx.svc.Report(ctx, ReportQuery{Type: dto.ReportTeamRoster})
	require.NoError(t, err)
	require.Len(t, roster.Rows, 3)
	assert.Equal(t, "FIR-22", roster.Rows[1][2])
	assert.Equal(t, "Valid (01/06/2026)", roster.Rows[2][5])

	staff, err := fx.svc.Report(ctx, ReportQuery{Type: dto.ReportStaffCompliance})
	require.NoError(t, err)
	require.Len(t, staff.Rows, 2)
	assert.Equal(t, []string{"Anna Neri", "coach", "Expiring (01/09/2025)", "Valid (01/01/2026)", "N/A", "background_check_expiry"}, staff.Rows[0])
	assert.Equal(t, "-", staff.Rows[1][5])

	docs, err := fx.svc.Report(ctx, ReportQuery{Type: dto.ReportDocumentStatus})
	require.NoError(t, err)
	require.Len(t, docs.Rows, 3)
	assert.Equal(t, []string{"Consent", "consent_form", "Marco Rossi", "athlete", "05/09/2026", "Valid", "Yes"}, docs.Rows[1])
	assert.Equal(t, "Unknown", docs.Rows[2][2])

	ins, err := fx.svc.Report(ctx, ReportQuery{Type: dto.ReportInsuranceStatus})
	require.NoError(t, err)
	require.Len(t, ins.Rows, 2)
	assert.Equal(t, []string{"Marco Rossi", "sports", "Acme", "P-1", "01/01/2025 - 31/12/2025", "-", "Active"}, ins.Rows[0])
	assert.Equal(t, "1500.00", ins.Rows[1][5])
	assert.Equal(t, "Expiring", ins.Rows[1][6])
}

func TestComplianceReportUnknownType(t *testing.T) {
	fx := newComplianceFixture()

	_, err := fx.svc.Report(context.Background(), ReportQuery{Type: "attendance"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
