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

type trainingService interface {
	GenerateRecurring(ctx context.Context, req dto.RecurringSessionRequest, actorID string) (*dto.RecurringSessionResult, error)
	Create(ctx context.Context, req dto.CreateTrainingSessionRequest, actorID string) (*models.TrainingSession, error)
	Update(ctx context.Context, id string, req dto.UpdateTrainingSessionRequest) (*models.TrainingSession, error)
	Cancel(ctx context.Context, id string, req dto.CancelSessionRequest) (*models.TrainingSession, error)
	Get(ctx context.Context, id string) (*models.TrainingSession, error)
	List(ctx context.Context, req service.TrainingSessionListRequest) ([]models.TrainingSession, *models.Pagination, error)
}

// TrainingHandler exposes the training calendar.
type TrainingHandler struct {
	service trainingService
}

// NewTrainingHandler constructs the handler.
func NewTrainingHandler(svc trainingService) *TrainingHandler {
	return &TrainingHandler{service: svc}
}

// List godoc
// @Summary List training sessions
// @Tags Training
// @Produce json
// @Param teamId query string false "Team ID"
// @Param seasonId query string false "Season ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /training-sessions [get]
func (h *TrainingHandler) List(c *gin.Context) {
	from, err := parseDate(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDate(c, "to")
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
	sessions, pagination, err := h.service.List(c.Request.Context(), service.TrainingSessionListRequest{
		TeamID:   strings.TrimSpace(c.Query("teamId")),
		SeasonID: strings.TrimSpace(c.Query("seasonId")),
		From:     from,
		To:       to,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination)
}

// Get godoc
// @Summary Get training session
// @Tags Training
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /training-sessions/{id} [get]
func (h *TrainingHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Create godoc
// @Summary Schedule one training session
// @Tags Training
// @Accept json
// @Produce json
// @Param payload body dto.CreateTrainingSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /training-sessions [post]
func (h *TrainingHandler) Create(c *gin.Context) {
	var req dto.CreateTrainingSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid training session payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// CreateRecurring godoc
// @Summary Generate weekly training sessions
// @Description Creates one session per matching weekday between startDate and endDate, all or none
// @Tags Training
// @Accept json
// @Produce json
// @Param payload body dto.RecurringSessionRequest true "Recurring pattern"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /training-sessions/recurring [post]
func (h *TrainingHandler) CreateRecurring(c *gin.Context) {
	var req dto.RecurringSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid recurring session payload"))
		return
	}
	result, err := h.service.GenerateRecurring(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update godoc
// @Summary Update one training session
// @Tags Training
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.UpdateTrainingSessionRequest true "Session payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /training-sessions/{id} [put]
func (h *TrainingHandler) Update(c *gin.Context) {
	var req dto.UpdateTrainingSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid training session payload"))
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Cancel godoc
// @Summary Cancel one training session
// @Tags Training
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.CancelSessionRequest false "Cancellation reason"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /training-sessions/{id}/cancel [post]
func (h *TrainingHandler) Cancel(c *gin.Context) {
	var req dto.CancelSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid cancellation payload"))
			return
		}
	}
	session, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}
