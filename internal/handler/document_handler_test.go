package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/middleware"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/internal/service"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type documentServiceMock struct {
	doc        *models.Document
	docs       []models.Document
	pagination *models.Pagination
	err        error

	created     dto.CreateDocumentRequest
	actor       string
	listReq     service.DocumentListRequest
	deactivated string
}

func (m *documentServiceMock) Create(ctx context.Context, req dto.CreateDocumentRequest, actorID string) (*models.Document, error) {
	m.created = req
	m.actor = actorID
	return m.doc, m.err
}

func (m *documentServiceMock) Get(ctx context.Context, id string) (*models.Document, error) {
	return m.doc, m.err
}

func (m *documentServiceMock) List(ctx context.Context, req service.DocumentListRequest) ([]models.Document, *models.Pagination, error) {
	m.listReq = req
	return m.docs, m.pagination, m.err
}

func (m *documentServiceMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = id
	return m.err
}

func TestDocumentHandlerCreate(t *testing.T) {
	svc := &documentServiceMock{doc: &models.Document{ID: "doc-1", Title: "Medical certificate"}}
	h := NewDocumentHandler(svc)

	payload := []byte(`{"title":"Medical certificate","documentType":"medical_certificate","ownerKind":"athlete","ownerId":"ath-1","fileName":"cert.pdf","filePath":"docs/cert.pdf","expiryDate":"2026-03-31"}`)
	c, w := newGinContext(http.MethodPost, "/documents", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-9", Role: models.RoleAdmin})
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-9", svc.actor)
	require.NotNil(t, svc.created.ExpiryDate)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), svc.created.ExpiryDate.Time)

	var doc models.Document
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &doc))
	assert.Equal(t, "doc-1", doc.ID)
}

func TestDocumentHandlerCreateRejectsMalformedJSON(t *testing.T) {
	h := NewDocumentHandler(&documentServiceMock{})

	c, w := newGinContext(http.MethodPost, "/documents", []byte(`{"expiryDate":"31/03/2026"}`))
	h.Create(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestDocumentHandlerList(t *testing.T) {
	svc := &documentServiceMock{
		docs:       []models.Document{{ID: "doc-1", Owner: compliance.Owner{Kind: compliance.OwnerStaff, ID: "staff-1"}}},
		pagination: &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
	}
	h := NewDocumentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/documents?ownerKind=staff&expiringBefore=2025-10-01&page=2&pageSize=10", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "staff", svc.listReq.OwnerKind)
	require.NotNil(t, svc.listReq.ExpiringBefore)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), *svc.listReq.ExpiringBefore)
	assert.Equal(t, 2, svc.listReq.Page)

	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 11, env.Pagination.TotalCount)
}

func TestDocumentHandlerGetAndDelete(t *testing.T) {
	svc := &documentServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "document not found")}
	h := NewDocumentHandler(svc)

	c, w := newGinContext(http.MethodGet, "/documents/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.err = nil
	c, w = newGinContext(http.MethodDelete, "/documents/doc-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc-1"}}
	h.Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "doc-1", svc.deactivated)
}
