package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

const (
	minAthleteAge = 3
	maxAthleteAge = 18
)

type athleteStore interface {
	List(ctx context.Context, filter models.AthleteFilter) ([]models.Athlete, error)
	FindByID(ctx context.Context, id string) (*models.Athlete, error)
	ExistsByFiscalCode(ctx context.Context, code string, excludeID string) (bool, error)
	Create(ctx context.Context, athlete *models.Athlete) error
	Update(ctx context.Context, athlete *models.Athlete) error
	Deactivate(ctx context.Context, id string) error
}

type guardianStore interface {
	ListByAthlete(ctx context.Context, athleteID string) ([]models.Guardian, error)
	FindByID(ctx context.Context, id string) (*models.Guardian, error)
	Create(ctx context.Context, guardian *models.Guardian) error
	Update(ctx context.Context, guardian *models.Guardian) error
}

type insuranceStore interface {
	ListByAthlete(ctx context.Context, athleteID string) ([]models.Insurance, error)
	FindByID(ctx context.Context, id string) (*models.Insurance, error)
	Create(ctx context.Context, policy *models.Insurance) error
	Update(ctx context.Context, policy *models.Insurance) error
}

type teamFinder interface {
	FindByID(ctx context.Context, id string) (*models.Team, error)
}

// AthleteListRequest filters the athlete roster.
type AthleteListRequest struct {
	TeamID string
	Active *bool
}

// AthleteServiceParams groups the stores an AthleteService writes through.
type AthleteServiceParams struct {
	Athletes   athleteStore
	Guardians  guardianStore
	Insurances insuranceStore
	Teams      teamFinder
	Dashboards dashboardInvalidator
	Validate   *validator.Validate
	Logger     *zap.Logger
}

// AthleteService maintains athletes together with their guardians and insurance policies.
type AthleteService struct {
	athletes   athleteStore
	guardians  guardianStore
	insurances insuranceStore
	teams      teamFinder
	dashboards dashboardInvalidator
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewAthleteService constructs an AthleteService. Dashboards may be nil.
func NewAthleteService(params AthleteServiceParams) *AthleteService {
	validate := params.Validate
	if validate == nil {
		validate = NewValidator()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AthleteService{
		athletes:   params.Athletes,
		guardians:  params.Guardians,
		insurances: params.Insurances,
		teams:      params.Teams,
		dashboards: params.Dashboards,
		validate:   validate,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns athletes matching the filter.
func (s *AthleteService) List(ctx context.Context, req AthleteListRequest) ([]models.Athlete, error) {
	athletes, err := s.athletes.List(ctx, models.AthleteFilter{TeamID: strings.TrimSpace(req.TeamID), Active: req.Active})
	if err != nil {
		return nil, internalError(err, "failed to list athletes")
	}
	return athletes, nil
}

// Get fetches one athlete.
func (s *AthleteService) Get(ctx context.Context, id string) (*models.Athlete, error) {
	athlete, err := s.athletes.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "athlete")
	}
	return athlete, nil
}

// Create registers an athlete.
func (s *AthleteService) Create(ctx context.Context, req dto.AthleteRequest) (*models.Athlete, error) {
	if fields := s.athleteFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid athlete", fields)
	}
	if err := s.checkAthleteReferences(ctx, req, ""); err != nil {
		return nil, err
	}
	athlete := &models.Athlete{Active: true}
	applyAthlete(athlete, req)
	if err := s.athletes.Create(ctx, athlete); err != nil {
		return nil, internalError(err, "failed to create athlete")
	}
	s.logger.Info("athlete created", zap.String("athlete_id", athlete.ID))
	invalidateDashboards(ctx, s.dashboards)
	return athlete, nil
}

// Update replaces an athlete's record.
func (s *AthleteService) Update(ctx context.Context, id string, req dto.AthleteRequest) (*models.Athlete, error) {
	if fields := s.athleteFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid athlete", fields)
	}
	athlete, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkAthleteReferences(ctx, req, id); err != nil {
		return nil, err
	}
	applyAthlete(athlete, req)
	if err := s.athletes.Update(ctx, athlete); err != nil {
		return nil, notFound(err, "athlete")
	}
	invalidateDashboards(ctx, s.dashboards)
	return athlete, nil
}

// Deactivate removes an athlete from the active roster.
func (s *AthleteService) Deactivate(ctx context.Context, id string) error {
	if err := s.athletes.Deactivate(ctx, id); err != nil {
		return notFound(err, "athlete")
	}
	invalidateDashboards(ctx, s.dashboards)
	return nil
}

// ListGuardians returns every guardian of the athlete.
func (s *AthleteService) ListGuardians(ctx context.Context, athleteID string) ([]models.Guardian, error) {
	if _, err := s.Get(ctx, athleteID); err != nil {
		return nil, err
	}
	guardians, err := s.guardians.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, internalError(err, "failed to list guardians")
	}
	return guardians, nil
}

// CreateGuardian attaches a guardian to the athlete.
func (s *AthleteService) CreateGuardian(ctx context.Context, athleteID string, req dto.GuardianRequest) (*models.Guardian, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid guardian")
	}
	if _, err := s.Get(ctx, athleteID); err != nil {
		return nil, err
	}
	guardian := &models.Guardian{AthleteID: athleteID, Active: true}
	applyGuardian(guardian, req)
	if err := s.checkGuardianType(ctx, guardian); err != nil {
		return nil, err
	}
	if err := s.guardians.Create(ctx, guardian); err != nil {
		return nil, internalError(err, "failed to create guardian")
	}
	invalidateDashboards(ctx, s.dashboards)
	return guardian, nil
}

// UpdateGuardian replaces a guardian's details. The guardian must belong to the athlete.
func (s *AthleteService) UpdateGuardian(ctx context.Context, athleteID, guardianID string, req dto.GuardianRequest) (*models.Guardian, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid guardian")
	}
	guardian, err := s.guardians.FindByID(ctx, guardianID)
	if err != nil {
		return nil, notFound(err, "guardian")
	}
	if guardian.AthleteID != athleteID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "guardian not found")
	}
	applyGuardian(guardian, req)
	if err := s.checkGuardianType(ctx, guardian); err != nil {
		return nil, err
	}
	if err := s.guardians.Update(ctx, guardian); err != nil {
		return nil, notFound(err, "guardian")
	}
	invalidateDashboards(ctx, s.dashboards)
	return guardian, nil
}

// ListInsurances returns every policy of the athlete.
func (s *AthleteService) ListInsurances(ctx context.Context, athleteID string) ([]models.Insurance, error) {
	if _, err := s.Get(ctx, athleteID); err != nil {
		return nil, err
	}
	policies, err := s.insurances.ListByAthlete(ctx, athleteID)
	if err != nil {
		return nil, internalError(err, "failed to list insurances")
	}
	return policies, nil
}

// CreateInsurance registers a policy covering the athlete.
func (s *AthleteService) CreateInsurance(ctx context.Context, athleteID string, req dto.InsuranceRequest) (*models.Insurance, error) {
	if fields := s.insuranceFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid insurance", fields)
	}
	athlete, err := s.Get(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	policy := &models.Insurance{AthleteID: athleteID, AthleteName: athlete.FullName(), Active: true}
	applyInsurance(policy, req)
	if err := s.insurances.Create(ctx, policy); err != nil {
		return nil, internalError(err, "failed to create insurance")
	}
	invalidateDashboards(ctx, s.dashboards)
	return policy, nil
}

// UpdateInsurance replaces a policy. The policy must cover the athlete.
func (s *AthleteService) UpdateInsurance(ctx context.Context, athleteID, insuranceID string, req dto.InsuranceRequest) (*models.Insurance, error) {
	if fields := s.insuranceFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid insurance", fields)
	}
	policy, err := s.insurances.FindByID(ctx, insuranceID)
	if err != nil {
		return nil, notFound(err, "insurance")
	}
	if policy.AthleteID != athleteID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "insurance not found")
	}
	applyInsurance(policy, req)
	if err := s.insurances.Update(ctx, policy); err != nil {
		return nil, notFound(err, "insurance")
	}
	invalidateDashboards(ctx, s.dashboards)
	return policy, nil
}

func (s *AthleteService) athleteFields(req dto.AthleteRequest) map[string]string {
	fields := fieldErrors(s.validate, req)
	requireDate(fields, "birthDate", req.BirthDate)
	requireDate(fields, "documentExpiry", req.DocumentExpiry)
	if !req.BirthDate.IsZero() {
		today := compliance.DateOf(s.now())
		age := models.Athlete{BirthDate: req.BirthDate.Time}.Age(today)
		switch {
		case req.BirthDate.After(today):
			fields["birthDate"] = "must not be in the future"
		case age < minAthleteAge:
			fields["birthDate"] = "athlete must be at least 3 years old"
		case age > maxAthleteAge:
			fields["birthDate"] = "athlete must be at most 18 years old"
		}
	}
	if req.HasMedicalCertificate {
		if req.CertificateType == nil || *req.CertificateType == "" {
			fields["certificateType"] = "is required when hasMedicalCertificate is true"
		}
		if req.CertificateExpiry == nil || req.CertificateExpiry.IsZero() {
			fields["certificateExpiry"] = "is required when hasMedicalCertificate is true"
		}
	}
	return fields
}

func (s *AthleteService) checkAthleteReferences(ctx context.Context, req dto.AthleteRequest, excludeID string) error {
	exists, err := s.athletes.ExistsByFiscalCode(ctx, strings.ToUpper(req.FiscalCode), excludeID)
	if err != nil {
		return internalError(err, "failed to check fiscal code uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "fiscal code already used")
	}
	teamID := normalizeOptional(req.TeamID)
	if teamID == nil {
		return nil
	}
	if _, err := s.teams.FindByID(ctx, *teamID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewValidation("unknown team", map[string]string{"teamId": "does not exist"})
		}
		return internalError(err, "failed to load team")
	}
	return nil
}

// checkGuardianType rejects a second active father or mother on the same athlete.
func (s *AthleteService) checkGuardianType(ctx context.Context, guardian *models.Guardian) error {
	if !guardian.Active || guardian.GuardianType == "guardian" {
		return nil
	}
	existing, err := s.guardians.ListByAthlete(ctx, guardian.AthleteID)
	if err != nil {
		return internalError(err, "failed to list guardians")
	}
	for _, other := range existing {
		if other.ID != guardian.ID && other.Active && other.GuardianType == guardian.GuardianType {
			return appErrors.Clone(appErrors.ErrConflict, "athlete already has a "+guardian.GuardianType)
		}
	}
	return nil
}

func (s *AthleteService) insuranceFields(req dto.InsuranceRequest) map[string]string {
	fields := fieldErrors(s.validate, req)
	requireDate(fields, "startDate", req.StartDate)
	requireDate(fields, "endDate", req.EndDate)
	if !req.StartDate.IsZero() && !req.EndDate.IsZero() && req.EndDate.Before(req.StartDate.Time) {
		fields["endDate"] = "must not be before startDate"
	}
	return fields
}

func applyAthlete(athlete *models.Athlete, req dto.AthleteRequest) {
	athlete.FirstName = strings.TrimSpace(req.FirstName)
	athlete.LastName = strings.TrimSpace(req.LastName)
	athlete.BirthDate = compliance.DateOf(req.BirthDate.Time)
	athlete.FiscalCode = strings.ToUpper(req.FiscalCode)
	athlete.FederationID = normalizeOptional(req.FederationID)
	athlete.TeamID = normalizeOptional(req.TeamID)
	athlete.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	athlete.DocumentExpiry = compliance.DateOf(req.DocumentExpiry.Time)
	athlete.HasMedicalCertificate = req.HasMedicalCertificate
	athlete.CertificateType = nil
	athlete.CertificateExpiry = nil
	if req.HasMedicalCertificate {
		certType := models.CertificateType(*req.CertificateType)
		expiry := compliance.DateOf(req.CertificateExpiry.Time)
		athlete.CertificateType = &certType
		athlete.CertificateExpiry = &expiry
	}
	if req.Active != nil {
		athlete.Active = *req.Active
	}
}

func applyGuardian(guardian *models.Guardian, req dto.GuardianRequest) {
	guardian.FirstName = strings.TrimSpace(req.FirstName)
	guardian.LastName = strings.TrimSpace(req.LastName)
	guardian.Phone = strings.TrimSpace(req.Phone)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	guardian.Email = &email
	guardian.GuardianType = req.GuardianType
	if req.Active != nil {
		guardian.Active = *req.Active
	}
}

func applyInsurance(policy *models.Insurance, req dto.InsuranceRequest) {
	policy.PolicyNumber = strings.TrimSpace(req.PolicyNumber)
	policy.Provider = strings.TrimSpace(req.Provider)
	policy.InsuranceType = models.InsuranceType(req.InsuranceType)
	policy.StartDate = compliance.DateOf(req.StartDate.Time)
	policy.EndDate = compliance.DateOf(req.EndDate.Time)
	policy.CoverageAmount = req.CoverageAmount
	policy.Notes = normalizeOptional(req.Notes)
	if req.Active != nil {
		policy.Active = *req.Active
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
