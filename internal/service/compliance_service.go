package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

const (
	dashboardCachePrefix = "dash:compliance:"
	unknownOwnerName     = "Unknown"
)

type athleteSource interface {
	List(ctx context.Context, filter models.AthleteFilter) ([]models.Athlete, error)
	CountActive(ctx context.Context) (int, error)
}

type staffSource interface {
	ListActive(ctx context.Context) ([]models.Staff, error)
	CountActive(ctx context.Context) (int, error)
}

type insuranceSource interface {
	ListActive(ctx context.Context) ([]models.Insurance, error)
}

type expiringDocumentSource interface {
	ListWithExpiry(ctx context.Context) ([]models.Document, error)
}

type teamSource interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
	CountActive(ctx context.Context) (int, error)
}

type ownerLookup interface {
	Lookup(ctx context.Context, owner compliance.Owner) (*ResolvedOwner, error)
}

// ComplianceQuery selects the evaluation day and window. A zero Date means
// today and a nil LookaheadDays means the configured window; zero days is a
// valid window that flags only items due on the day.
type ComplianceQuery struct {
	Date          time.Time
	LookaheadDays *int
}

// Lookahead wraps days as a window override for ComplianceQuery.
func Lookahead(days int) *int {
	return &days
}

// Window returns the effective lookahead, DefaultLookaheadDays when unset.
func (q ComplianceQuery) Window() int {
	if q.LookaheadDays == nil {
		return compliance.DefaultLookaheadDays
	}
	return *q.LookaheadDays
}

// ComplianceServiceParams groups constructor dependencies.
type ComplianceServiceParams struct {
	Athletes      athleteSource
	Staff         staffSource
	Insurances    insuranceSource
	Documents     expiringDocumentSource
	Teams         teamSource
	Owners        ownerLookup
	Cache         *CacheService
	Logger        *zap.Logger
	LookaheadDays int
	CacheTTL      time.Duration
}

// ComplianceService turns active club records into expiry alerts, dashboards and reports.
type ComplianceService struct {
	athletes   athleteSource
	staff      staffSource
	insurances insuranceSource
	documents  expiringDocumentSource
	teams      teamSource
	owners     ownerLookup
	cache      *CacheService
	logger     *zap.Logger
	lookahead  int
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewComplianceService constructs a ComplianceService with sane defaults.
func NewComplianceService(params ComplianceServiceParams) *ComplianceService {
	lookahead := params.LookaheadDays
	if lookahead <= 0 {
		lookahead = compliance.DefaultLookaheadDays
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplianceService{
		athletes:   params.Athletes,
		staff:      params.Staff,
		insurances: params.Insurances,
		documents:  params.Documents,
		teams:      params.Teams,
		owners:     params.Owners,
		cache:      params.Cache,
		logger:     logger,
		lookahead:  lookahead,
		cacheTTL:   ttl,
		now:        time.Now,
	}
}

// Resolve fills in the default date and window and rejects negative windows.
func (s *ComplianceService) Resolve(q ComplianceQuery) (ComplianceQuery, error) {
	return s.normalize(q)
}

func (s *ComplianceService) normalize(q ComplianceQuery) (ComplianceQuery, error) {
	if q.Date.IsZero() {
		q.Date = compliance.DateOf(s.now())
	} else {
		q.Date = compliance.DateOf(q.Date)
	}
	switch {
	case q.LookaheadDays == nil:
		q.LookaheadDays = Lookahead(s.lookahead)
	case *q.LookaheadDays < 0:
		return q, appErrors.NewValidation("invalid lookahead", map[string]string{"lookahead": "must be zero or greater"})
	}
	return q, nil
}

// CollectAlerts returns the expiring and expired checks of every active subject of one type.
// The second return value counts documents skipped because their owner could not be resolved.
func (s *ComplianceService) CollectAlerts(ctx context.Context, subjectType compliance.SubjectType, q ComplianceQuery) ([]compliance.Alert, int, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, 0, err
	}
	window := q.Window()
	switch subjectType {
	case compliance.SubjectAthlete:
		athletes, err := s.activeAthletes(ctx, "")
		if err != nil {
			return nil, 0, err
		}
		return compliance.CollectAlerts(athletes, q.Date, window), 0, nil
	case compliance.SubjectStaff:
		staff, err := s.staff.ListActive(ctx)
		if err != nil {
			return nil, 0, internalError(err, "failed to load staff")
		}
		return compliance.CollectAlerts(staff, q.Date, window), 0, nil
	case compliance.SubjectInsurance:
		policies, err := s.insurances.ListActive(ctx)
		if err != nil {
			return nil, 0, internalError(err, "failed to load insurances")
		}
		return compliance.CollectAlerts(policies, q.Date, window), 0, nil
	case compliance.SubjectDocument:
		docs, skipped, err := s.namedDocuments(ctx)
		if err != nil {
			return nil, 0, err
		}
		return compliance.CollectAlerts(docs, q.Date, window), skipped, nil
	default:
		return nil, 0, appErrors.NewValidation("unknown subject type", map[string]string{"subjectType": string(subjectType)})
	}
}

// Dashboard composes per-type alert sections and club counts. The boolean reports a cache hit.
func (s *ComplianceService) Dashboard(ctx context.Context, q ComplianceQuery) (*dto.ComplianceDashboardResponse, bool, error) {
	q, err := s.normalize(q)
	if err != nil {
		return nil, false, err
	}
	key := fmt.Sprintf("%s%s:%d", dashboardCachePrefix, q.Date.Format("2006-01-02"), q.Window())
	return cached(ctx, s.cache, key, s.cacheTTL, func(ctx context.Context) (*dto.ComplianceDashboardResponse, error) {
		return s.composeDashboard(ctx, q)
	})
}

// InvalidateDashboard drops every cached dashboard.
func (s *ComplianceService) InvalidateDashboard(ctx context.Context) {
	if s == nil {
		return
	}
	s.cache.Invalidate(ctx, dashboardCachePrefix+"*")
}

func (s *ComplianceService) composeDashboard(ctx context.Context, q ComplianceQuery) (*dto.ComplianceDashboardResponse, error) {
	resp := &dto.ComplianceDashboardResponse{
		Date:            q.Date,
		LookaheadDays:   q.Window(),
		RequiredMissing: make([]dto.StaffRequirementGap, 0),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if resp.Counts.Athletes, err = s.athletes.CountActive(gctx); err != nil {
			return internalError(err, "failed to count athletes")
		}
		return nil
	})
	g.Go(func() (err error) {
		if resp.Counts.Staff, err = s.staff.CountActive(gctx); err != nil {
			return internalError(err, "failed to count staff")
		}
		return nil
	})
	g.Go(func() (err error) {
		if resp.Counts.Teams, err = s.teams.CountActive(gctx); err != nil {
			return internalError(err, "failed to count teams")
		}
		return nil
	})

	alerts := make([][]compliance.Alert, len(compliance.SubjectTypes))
	skipped := make([]int, len(compliance.SubjectTypes))
	for i, subjectType := range compliance.SubjectTypes {
		g.Go(func() (err error) {
			alerts[i], skipped[i], err = s.CollectAlerts(gctx, subjectType, q)
			return err
		})
	}

	var staff []models.Staff
	g.Go(func() (err error) {
		if staff, err = s.staff.ListActive(gctx); err != nil {
			return internalError(err, "failed to load staff")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp.Sections = make([]dto.ComplianceSection, 0, len(compliance.SubjectTypes))
	for i, subjectType := range compliance.SubjectTypes {
		resp.Skipped += skipped[i]
		resp.Sections = append(resp.Sections, buildSection(subjectType, alerts[i]))
		for _, a := range alerts[i] {
			if a.Status == compliance.StatusExpired {
				resp.Counts.Expired++
			} else {
				resp.Counts.Expiring++
			}
		}
	}

	for _, member := range staff {
		missing := member.MissingRequirements()
		if len(missing) == 0 {
			continue
		}
		resp.RequiredMissing = append(resp.RequiredMissing, dto.StaffRequirementGap{
			StaffID: member.ID,
			Name:    member.FullName(),
			Role:    string(member.Role),
			Missing: missing,
		})
	}
	return resp, nil
}

// sectionFields fixes the display order of groups within each section.
var sectionFields = map[compliance.SubjectType][]compliance.Field{
	compliance.SubjectAthlete:   {compliance.FieldDocumentExpiry, compliance.FieldCertificateExpiry},
	compliance.SubjectStaff:     {compliance.FieldDocumentExpiry, compliance.FieldCertificateExpiry, compliance.FieldBackgroundCheck},
	compliance.SubjectInsurance: {compliance.FieldInsuranceEnd},
	compliance.SubjectDocument:  {compliance.FieldDocumentRecordExpiry},
}

func buildSection(subjectType compliance.SubjectType, alerts []compliance.Alert) dto.ComplianceSection {
	grouped := compliance.GroupByField(alerts)
	fields := sectionFields[subjectType]
	section := dto.ComplianceSection{
		SubjectType: subjectType,
		Total:       len(alerts),
		Groups:      make([]dto.ComplianceFieldGroup, 0, len(fields)),
	}
	for _, field := range fields {
		group := grouped[field]
		if group == nil {
			group = []compliance.Alert{}
		}
		section.Groups = append(section.Groups, dto.ComplianceFieldGroup{Field: field, Alerts: group})
	}
	return section
}

func (s *ComplianceService) activeAthletes(ctx context.Context, teamID string) ([]models.Athlete, error) {
	active := true
	athletes, err := s.athletes.List(ctx, models.AthleteFilter{TeamID: teamID, Active: &active})
	if err != nil {
		return nil, internalError(err, "failed to load athletes")
	}
	return athletes, nil
}

// namedDocuments loads documents with an expiry date and fills in owner names.
// Missing owners render as Unknown; other lookup failures skip the document.
func (s *ComplianceService) namedDocuments(ctx context.Context) ([]models.Document, int, error) {
	docs, err := s.documents.ListWithExpiry(ctx)
	if err != nil {
		return nil, 0, internalError(err, "failed to load documents")
	}
	names := make(map[compliance.Owner]string)
	kept := make([]models.Document, 0, len(docs))
	skipped := 0
	for _, doc := range docs {
		name, ok := names[doc.Owner]
		if !ok {
			resolved, err := s.owners.Lookup(ctx, doc.Owner)
			switch {
			case err == nil:
				name = resolved.Name
			case appErrors.Is(err, appErrors.ErrNotFound):
				name = unknownOwnerName
			default:
				s.logger.Warn("skipping document with unresolvable owner",
					zap.String("document_id", doc.ID),
					zap.String("owner", doc.Owner.String()),
					zap.Error(err))
				skipped++
				continue
			}
			names[doc.Owner] = name
		}
		doc.OwnerName = name
		kept = append(kept, doc)
	}
	return kept, skipped, nil
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
