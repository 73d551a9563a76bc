package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/models"
	"github.com/noah-isme/fortidesk-api/internal/service"
	"github.com/noah-isme/fortidesk-api/pkg/response"
)

type athleteService interface {
	List(ctx context.Context, req service.AthleteListRequest) ([]models.Athlete, error)
	Get(ctx context.Context, id string) (*models.Athlete, error)
	Create(ctx context.Context, req dto.AthleteRequest) (*models.Athlete, error)
	Update(ctx context.Context, id string, req dto.AthleteRequest) (*models.Athlete, error)
	Deactivate(ctx context.Context, id string) error
	ListGuardians(ctx context.Context, athleteID string) ([]models.Guardian, error)
	CreateGuardian(ctx context.Context, athleteID string, req dto.GuardianRequest) (*models.Guardian, error)
	UpdateGuardian(ctx context.Context, athleteID, guardianID string, req dto.GuardianRequest) (*models.Guardian, error)
	ListInsurances(ctx context.Context, athleteID string) ([]models.Insurance, error)
	CreateInsurance(ctx context.Context, athleteID string, req dto.InsuranceRequest) (*models.Insurance, error)
	UpdateInsurance(ctx context.Context, athleteID, insuranceID string, req dto.InsuranceRequest) (*models.Insurance, error)
}

// AthleteHandler manages athletes with their guardians and insurance policies.
type AthleteHandler struct {
	service athleteService
}

// NewAthleteHandler constructs the handler.
func NewAthleteHandler(svc athleteService) *AthleteHandler {
	return &AthleteHandler{service: svc}
}

// List godoc
// @Summary List athletes
// @Tags Athletes
// @Produce json
// @Param teamId query string false "Team ID"
// @Param active query bool false "Active flag"
// @Success 200 {object} response.Envelope
// @Router /athletes [get]
func (h *AthleteHandler) List(c *gin.Context) {
	active, err := parseBool(c, "active")
	if err != nil {
		response.Error(c, err)
		return
	}
	athletes, err := h.service.List(c.Request.Context(), service.AthleteListRequest{TeamID: c.Query("teamId"), Active: active})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, athletes, nil)
}

// Get godoc
// @Summary Get athlete
// @Tags Athletes
// @Produce json
// @Param id path string true "Athlete ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id} [get]
func (h *AthleteHandler) Get(c *gin.Context) {
	athlete, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, athlete, nil)
}

// Create godoc
// @Summary Register athlete
// @Tags Athletes
// @Accept json
// @Produce json
// @Param payload body dto.AthleteRequest true "Athlete payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /athletes [post]
func (h *AthleteHandler) Create(c *gin.Context) {
	var req dto.AthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid athlete payload"))
		return
	}
	athlete, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, athlete)
}

// Update godoc
// @Summary Update athlete
// @Tags Athletes
// @Accept json
// @Produce json
// @Param id path string true "Athlete ID"
// @Param payload body dto.AthleteRequest true "Athlete payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id} [put]
func (h *AthleteHandler) Update(c *gin.Context) {
	var req dto.AthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid athlete payload"))
		return
	}
	athlete, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, athlete, nil)
}

// Delete godoc
// @Summary Deactivate athlete
// @Tags Athletes
// @Param id path string true "Athlete ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id} [delete]
func (h *AthleteHandler) Delete(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListGuardians godoc
// @Summary List guardians of an athlete
// @Tags Athletes
// @Produce json
// @Param id path string true "Athlete ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id}/guardians [get]
func (h *AthleteHandler) ListGuardians(c *gin.Context) {
	guardians, err := h.service.ListGuardians(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardians, nil)
}

// CreateGuardian godoc
// @Summary Add guardian
// @Tags Athletes
// @Accept json
// @Produce json
// @Param id path string true "Athlete ID"
// @Param payload body dto.GuardianRequest true "Guardian payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /athletes/{id}/guardians [post]
func (h *AthleteHandler) CreateGuardian(c *gin.Context) {
	var req dto.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid guardian payload"))
		return
	}
	guardian, err := h.service.CreateGuardian(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, guardian)
}

// UpdateGuardian godoc
// @Summary Update guardian
// @Tags Athletes
// @Accept json
// @Produce json
// @Param id path string true "Athlete ID"
// @Param guardianId path string true "Guardian ID"
// @Param payload body dto.GuardianRequest true "Guardian payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id}/guardians/{guardianId} [put]
func (h *AthleteHandler) UpdateGuardian(c *gin.Context) {
	var req dto.GuardianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid guardian payload"))
		return
	}
	guardian, err := h.service.UpdateGuardian(c.Request.Context(), c.Param("id"), c.Param("guardianId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, guardian, nil)
}

// ListInsurances godoc
// @Summary List insurance policies of an athlete
// @Tags Athletes
// @Produce json
// @Param id path string true "Athlete ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id}/insurances [get]
func (h *AthleteHandler) ListInsurances(c *gin.Context) {
	policies, err := h.service.ListInsurances(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policies, nil)
}

// CreateInsurance godoc
// @Summary Register insurance policy
// @Tags Athletes
// @Accept json
// @Produce json
// @Param id path string true "Athlete ID"
// @Param payload body dto.InsuranceRequest true "Insurance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /athletes/{id}/insurances [post]
func (h *AthleteHandler) CreateInsurance(c *gin.Context) {
	var req dto.InsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid insurance payload"))
		return
	}
	policy, err := h.service.CreateInsurance(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, policy)
}

// UpdateInsurance godoc
// @Summary Update insurance policy
// @Tags Athletes
// @Accept json
// @Produce json
// @Param id path string true "Athlete ID"
// @Param insuranceId path string true "Insurance ID"
// @Param payload body dto.InsuranceRequest true "Insurance payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /athletes/{id}/insurances/{insuranceId} [put]
func (h *AthleteHandler) UpdateInsurance(c *gin.Context) {
	var req dto.InsuranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid insurance payload"))
		return
	}
	policy, err := h.service.UpdateInsurance(c.Request.Context(), c.Param("id"), c.Param("insuranceId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, policy, nil)
}
