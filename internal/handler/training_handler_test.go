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

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/internal/service"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
)

type trainingServiceMock struct {
	session  *models.TrainingSession
	sessions []models.TrainingSession
	result   *dto.RecurringSessionResult
	err      error

	recurring dto.RecurringSessionRequest
	cancelled dto.CancelSessionRequest
	listReq   service.TrainingSessionListRequest
	updatedID string
}

func (m *trainingServiceMock) GenerateRecurring(ctx context.Context, req dto.RecurringSessionRequest, actorID string) (*dto.RecurringSessionResult, error) {
	m.recurring = req
	return m.result, m.err
}

func (m *trainingServiceMock) Create(ctx context.Context, req dto.CreateTrainingSessionRequest, actorID string) (*models.TrainingSession, error) {
	return m.session, m.err
}

func (m *trainingServiceMock) Update(ctx context.Context, id string, req dto.UpdateTrainingSessionRequest) (*models.TrainingSession, error) {
	m.updatedID = id
	return m.session, m.err
}

func (m *trainingServiceMock) Cancel(ctx context.Context, id string, req dto.CancelSessionRequest) (*models.TrainingSession, error) {
	m.cancelled = req
	return m.session, m.err
}

func (m *trainingServiceMock) Get(ctx context.Context, id string) (*models.TrainingSession, error) {
	return m.session, m.err
}

func (m *trainingServiceMock) List(ctx context.Context, req service.TrainingSessionListRequest) ([]models.TrainingSession, *models.Pagination, error) {
	m.listReq = req
	return m.sessions, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.sessions)}, m.err
}

func TestTrainingHandlerCreateRecurring(t *testing.T) {
	svc := &trainingServiceMock{result: &dto.RecurringSessionResult{
		Created:  2,
		Sessions: []models.TrainingSession{{ID: "s-1"}, {ID: "s-2"}},
	}}
	h := NewTrainingHandler(svc)

	payload := []byte(`{"title":"U12 practice","startTime":"17:00","endTime":"18:30","sessionType":"training","teamId":"team-1","weekday":2,"startDate":"2025-09-01","endDate":"2025-09-14"}`)
	c, w := newGinContext(http.MethodPost, "/training-sessions/recurring", payload)
	h.CreateRecurring(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.recurring.Weekday)
	assert.Equal(t, 2, *svc.recurring.Weekday)
	assert.Equal(t, time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC), svc.recurring.EndDate.Time)

	var result dto.RecurringSessionResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &result))
	assert.Equal(t, 2, result.Created)
}

func TestTrainingHandlerCreateRecurringValidationError(t *testing.T) {
	svc := &trainingServiceMock{err: appErrors.NewValidation("invalid recurring session", map[string]string{"endDate": "must not be before startDate"})}
	h := NewTrainingHandler(svc)

	c, w := newGinContext(http.MethodPost, "/training-sessions/recurring", []byte(`{"startDate":"2025-09-30","endDate":"2025-09-01"}`))
	h.CreateRecurring(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Error.Fields, "endDate")
}

func TestTrainingHandlerList(t *testing.T) {
	svc := &trainingServiceMock{sessions: []models.TrainingSession{{ID: "s-1"}}}
	h := NewTrainingHandler(svc)

	c, w := newGinContext(http.MethodGet, "/training-sessions?teamId=team-1&from=2025-09-01&to=2025-09-30", nil)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "team-1", svc.listReq.TeamID)
	require.NotNil(t, svc.listReq.From)
	require.NotNil(t, svc.listReq.To)
	assert.Equal(t, 30, svc.listReq.To.Day())

	c, w = newGinContext(http.MethodGet, "/training-sessions?page=zero", nil)
	h.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrainingHandlerUpdateAndCancel(t *testing.T) {
	reason := "pitch flooded"
	svc := &trainingServiceMock{session: &models.TrainingSession{ID: "s-1", Cancelled: true, CancellationReason: &reason}}
	h := NewTrainingHandler(svc)

	payload := []byte(`{"title":"U12 practice","date":"2025-09-10","startTime":"17:00","endTime":"18:30","sessionType":"training","teamId":"team-1"}`)
	c, w := newGinContext(http.MethodPut, "/training-sessions/s-1", payload)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s-1", svc.updatedID)

	c, w = newGinContext(http.MethodPost, "/training-sessions/s-1/cancel", []byte(`{"reason":"pitch flooded"}`))
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.cancelled.Reason)
	assert.Equal(t, reason, *svc.cancelled.Reason)

	svc.cancelled = dto.CancelSessionRequest{}
	c, w = newGinContext(http.MethodPost, "/training-sessions/s-1/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: "s-1"}}
	h.Cancel(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.cancelled.Reason)
}

func TestTrainingHandlerGetNotFound(t *testing.T) {
	h := NewTrainingHandler(&trainingServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "training session not found")})

	c, w := newGinContext(http.MethodGet, "/training-sessions/nope", nil)
	c.Params = gin.Params{{Key: "id", Value: "nope"}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
