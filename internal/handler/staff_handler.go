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

type staffService interface {
	List(ctx context.Context, req service.StaffListRequest) ([]models.Staff, error)
	Get(ctx context.Context, id string) (*models.Staff, error)
	Create(ctx context.Context, req dto.StaffRequest) (*models.Staff, error)
	Update(ctx context.Context, id string, req dto.StaffRequest) (*models.Staff, error)
	Deactivate(ctx context.Context, id string) error
}

type teamService interface {
	List(ctx context.Context, includeInactive bool) ([]models.Team, error)
	Get(ctx context.Context, id string) (*models.Team, error)
	Create(ctx context.Context, req dto.TeamRequest) (*models.Team, error)
	Update(ctx context.Context, id string, req dto.TeamRequest) (*models.Team, error)
}

// StaffHandler manages staff records.
type StaffHandler struct {
	service staffService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(svc staffService) *StaffHandler {
	return &StaffHandler{service: svc}
}

// List godoc
// @Summary List staff
// @Tags Staff
// @Produce json
// @Param role query string false "Staff role"
// @Param active query bool false "Active flag"
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	active, err := parseBool(c, "active")
	if err != nil {
		response.Error(c, err)
		return
	}
	staff, err := h.service.List(c.Request.Context(), service.StaffListRequest{Role: c.Query("role"), Active: active})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, staff, nil)
}

// Get godoc
// @Summary Get staff member
// @Tags Staff
// @Produce json
// @Param id path string true "Staff ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	member, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Create godoc
// @Summary Register staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body dto.StaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid staff payload"))
		return
	}
	member, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update godoc
// @Summary Update staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Staff ID"
// @Param payload body dto.StaffRequest true "Staff payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	var req dto.StaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid staff payload"))
		return
	}
	member, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, member, nil)
}

// Delete godoc
// @Summary Deactivate staff member
// @Tags Staff
// @Param id path string true "Staff ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /staff/{id} [delete]
func (h *StaffHandler) Delete(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TeamHandler manages teams.
type TeamHandler struct {
	service teamService
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(svc teamService) *TeamHandler {
	return &TeamHandler{service: svc}
}

// List godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param includeInactive query bool false "Include inactive teams"
// @Success 200 {object} response.Envelope
// @Router /teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	include, err := parseBool(c, "includeInactive")
	if err != nil {
		response.Error(c, err)
		return
	}
	teams, err := h.service.List(c.Request.Context(), include != nil && *include)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teams, nil)
}

// Get godoc
// @Summary Get team
// @Tags Teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	team, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}

// Create godoc
// @Summary Create team
// @Tags Teams
// @Accept json
// @Produce json
// @Param payload body dto.TeamRequest true "Team payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid team payload"))
		return
	}
	team, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, team)
}

// Update godoc
// @Summary Update team
// @Tags Teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param payload body dto.TeamRequest true "Team payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	var req dto.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid team payload"))
		return
	}
	team, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, team, nil)
}
