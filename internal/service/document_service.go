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

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error)
	Deactivate(ctx context.Context, id string) error
}

type dashboardInvalidator interface {
	InvalidateDashboard(ctx context.Context)
}

// DocumentListRequest filters document listings.
type DocumentListRequest struct {
	OwnerKind      string
	OwnerID        string
	DocumentType   string
	ExpiringBefore *time.Time
	Page           int
	PageSize       int
}

// DocumentService manages document metadata for athletes and staff.
type DocumentService struct {
	repo       documentRepository
	owners     ownerLookup
	dashboards dashboardInvalidator
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewDocumentService constructs a DocumentService. dashboards may be nil.
func NewDocumentService(repo documentRepository, owners ownerLookup, dashboards dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, owners: owners, dashboards: dashboards, validate: validate, logger: logger}
}

// Create registers a document after confirming its owner exists.
func (s *DocumentService) Create(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*models.Document, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err, "invalid document payload")
	}
	kind, err := compliance.ParseOwnerKind(req.OwnerKind)
	if err != nil {
		return nil, validationError(err, "invalid owner kind")
	}
	owner, err := s.owners.Lookup(ctx, compliance.Owner{Kind: kind, ID: req.OwnerID})
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		Title:        strings.TrimSpace(req.Title),
		DocumentType: models.DocumentType(req.DocumentType),
		FileName:     req.FileName,
		FilePath:     req.FilePath,
		MimeType:     req.MimeType,
		FileSize:     req.FileSize,
		Owner:        owner.Owner,
		OwnerName:    owner.Name,
		Notes:        req.Notes,
		Active:       true,
	}
	if req.ExpiryDate != nil && !req.ExpiryDate.IsZero() {
		expiry := compliance.DateOf(req.ExpiryDate.Time)
		doc.ExpiryDate = &expiry
	}
	if actorID != "" {
		doc.CreatedBy = &actorID
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, internalError(err, "failed to create document")
	}
	s.invalidate(ctx)
	return doc, nil
}

// Get fetches a document with its owner name.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "document")
	}
	owner, err := s.owners.Lookup(ctx, doc.Owner)
	switch {
	case err == nil:
		doc.OwnerName = owner.Name
	case appErrors.Is(err, appErrors.ErrNotFound):
		doc.OwnerName = unknownOwnerName
	default:
		s.logger.Error("failed to resolve document owner",
			zap.String("document_id", doc.ID),
			zap.String("owner", doc.Owner.String()),
			zap.Error(err))
		return nil, internalError(err, "failed to resolve document owner")
	}
	return doc, nil
}

// List returns active documents matching the filter.
func (s *DocumentService) List(ctx context.Context, req DocumentListRequest) ([]models.Document, *models.Pagination, error) {
	filter := models.DocumentFilter{
		OwnerID:        req.OwnerID,
		DocumentType:   models.DocumentType(req.DocumentType),
		ExpiringBefore: req.ExpiringBefore,
	}
	if req.OwnerKind != "" {
		kind, err := compliance.ParseOwnerKind(req.OwnerKind)
		if err != nil {
			return nil, nil, validationError(err, "invalid owner kind")
		}
		filter.OwnerKind = kind
	}
	filter.Page, filter.PageSize = normalizePage(req.Page, req.PageSize)

	docs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list documents")
	}
	return docs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Deactivate soft deletes a document.
func (s *DocumentService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return notFound(err, "document")
	}
	s.invalidate(ctx)
	return nil
}

func (s *DocumentService) invalidate(ctx context.Context) {
	invalidateDashboards(ctx, s.dashboards)
}

// invalidateDashboards drops cached dashboards after a write to club records.
func invalidateDashboards(ctx context.Context, dashboards dashboardInvalidator) {
	if dashboards != nil {
		dashboards.InvalidateDashboard(ctx)
	}
}
