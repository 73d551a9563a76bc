package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type staffStore interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.Staff, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, member *models.Staff) error
	Update(ctx context.Context, member *models.Staff) error
	Deactivate(ctx context.Context, id string) error
}

// StaffListRequest filters staff listings.
type StaffListRequest struct {
	Role   string
	Active *bool
}

// StaffService maintains coaches, escorts and board members.
type StaffService struct {
	repo       staffStore
	dashboards dashboardInvalidator
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time
}

// NewStaffService constructs a StaffService. dashboards may be nil.
func NewStaffService(repo staffStore, dashboards dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, dashboards: dashboards, validate: validate, logger: logger, now: time.Now}
}

// List returns staff matching the filter.
func (s *StaffService) List(ctx context.Context, req StaffListRequest) ([]models.Staff, error) {
	role := strings.TrimSpace(req.Role)
	if role != "" {
		if err := s.validate.Var(role, "oneof=coach assistant_coach escort manager president vice_president secretary"); err != nil {
			return nil, appErrors.NewValidation("invalid role", map[string]string{"role": "is not a known staff role"})
		}
	}
	staff, err := s.repo.List(ctx, models.StaffFilter{Role: models.StaffRole(role), Active: req.Active})
	if err != nil {
		return nil, internalError(err, "failed to list staff")
	}
	return staff, nil
}

// Get fetches one staff member.
func (s *StaffService) Get(ctx context.Context, id string) (*models.Staff, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "staff member")
	}
	return member, nil
}

// Create registers a staff member.
func (s *StaffService) Create(ctx context.Context, req dto.StaffRequest) (*models.Staff, error) {
	if fields := s.staffFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid staff member", fields)
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, ""); err != nil {
		return nil, err
	}
	member := &models.Staff{Active: true}
	applyStaff(member, req)
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, internalError(err, "failed to create staff member")
	}
	s.logger.Info("staff member created", zap.String("staff_id", member.ID), zap.String("role", string(member.Role)))
	invalidateDashboards(ctx, s.dashboards)
	return member, nil
}

// Update replaces a staff member's record.
func (s *StaffService) Update(ctx context.Context, id string, req dto.StaffRequest) (*models.Staff, error) {
	if fields := s.staffFields(req); len(fields) > 0 {
		return nil, appErrors.NewValidation("invalid staff member", fields)
	}
	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueEmail(ctx, req.Email, id); err != nil {
		return nil, err
	}
	applyStaff(member, req)
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, notFound(err, "staff member")
	}
	invalidateDashboards(ctx, s.dashboards)
	return member, nil
}

// Deactivate removes a staff member from the active roster.
func (s *StaffService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return notFound(err, "staff member")
	}
	invalidateDashboards(ctx, s.dashboards)
	return nil
}

func (s *StaffService) staffFields(req dto.StaffRequest) map[string]string {
	fields := fieldErrors(s.validate, req)
	requireDate(fields, "documentExpiry", req.DocumentExpiry)
	if req.HasMedicalCertificate && isMissing(req.CertificateExpiry) {
		fields["certificateExpiry"] = "is required when hasMedicalCertificate is true"
	}
	if !req.HasBackgroundCheck {
		return fields
	}
	if isMissing(req.BackgroundCheckDate) {
		fields["backgroundCheckDate"] = "is required when hasBackgroundCheck is true"
	} else if req.BackgroundCheckDate.After(compliance.DateOf(s.now())) {
		fields["backgroundCheckDate"] = "must not be in the future"
	}
	if isMissing(req.BackgroundCheckExpiry) {
		fields["backgroundCheckExpiry"] = "is required when hasBackgroundCheck is true"
	} else if !isMissing(req.BackgroundCheckDate) && req.BackgroundCheckExpiry.Before(req.BackgroundCheckDate.Time) {
		fields["backgroundCheckExpiry"] = "must not be before backgroundCheckDate"
	}
	return fields
}

func (s *StaffService) ensureUniqueEmail(ctx context.Context, email *string, excludeID string) error {
	trimmed := normalizeOptional(email)
	if trimmed == nil {
		return nil
	}
	exists, err := s.repo.ExistsByEmail(ctx, *trimmed, excludeID)
	if err != nil {
		return internalError(err, "failed to check email uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already used")
	}
	return nil
}

func applyStaff(member *models.Staff, req dto.StaffRequest) {
	member.FirstName = strings.TrimSpace(req.FirstName)
	member.LastName = strings.TrimSpace(req.LastName)
	member.Email = normalizeOptional(req.Email)
	if member.Email != nil {
		lower := strings.ToLower(*member.Email)
		member.Email = &lower
	}
	member.Phone = strings.TrimSpace(req.Phone)
	member.Role = models.StaffRole(req.Role)
	member.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	member.DocumentExpiry = compliance.DateOf(req.DocumentExpiry.Time)
	member.HasMedicalCertificate = req.HasMedicalCertificate
	member.CertificateExpiry = nil
	if req.HasMedicalCertificate {
		member.CertificateExpiry = datePtr(req.CertificateExpiry)
	}
	member.HasBackgroundCheck = req.HasBackgroundCheck
	member.BackgroundCheckDate = nil
	member.BackgroundCheckExpiry = nil
	if req.HasBackgroundCheck {
		member.BackgroundCheckDate = datePtr(req.BackgroundCheckDate)
		member.BackgroundCheckExpiry = datePtr(req.BackgroundCheckExpiry)
	}
	if req.Active != nil {
		member.Active = *req.Active
	}
}

func isMissing(d *dto.Date) bool {
	return d == nil || d.IsZero()
}

func datePtr(d *dto.Date) *time.Time {
	if isMissing(d) {
		return nil
	}
	day := compliance.DateOf(d.Time)
	return &day
}
