package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/internal/service"
	"github.com/noah-isme/fortidesk-api/pkg/response"
)

type documentService interface {
	Create(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*models.Document, error)
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, req service.DocumentListRequest) ([]models.Document, *models.Pagination, error)
	Deactivate(ctx context.Context, id string) error
}

// DocumentHandler manages document metadata.
type DocumentHandler struct {
	service documentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(svc documentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// List godoc
// @Summary List documents
// @Tags Documents
// @Produce json
// @Param ownerKind query string false "athlete or staff"
// @Param ownerId query string false "Owner ID"
// @Param documentType query string false "Document type"
// @Param expiringBefore query string false "Only documents expiring on or before (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	expiringBefore, err := parseDate(c, "expiringBefore")
	if err != nil {
		response.Error(c, err)
		return
	}
	page, err := parsePositiveInt(c, "page")
	if err != nil {
		response.Error(c, err)
		return
	}
	size, err := parsePositiveInt(c, "pageSize")
	if err != nil {
		response.Error(c, err)
		return
	}
	docs, pagination, err := h.service.List(c.Request.Context(), service.DocumentListRequest{
		OwnerKind:      strings.TrimSpace(c.Query("ownerKind")),
		OwnerID:        strings.TrimSpace(c.Query("ownerId")),
		DocumentType:   strings.TrimSpace(c.Query("documentType")),
		ExpiringBefore: expiringBefore,
		Page:           page,
		PageSize:       size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, pagination)
}

// Get godoc
// @Summary Get document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Create godoc
// @Summary Register document
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body dto.CreateDocumentRequest true "Document payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid document payload"))
		return
	}
	doc, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Delete godoc
// @Summary Deactivate document
// @Tags Documents
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
