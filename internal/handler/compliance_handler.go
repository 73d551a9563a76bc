package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/compliance"
	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/middleware"
	"github.com/noah-isme/fortidesk-api/internal/service"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
	"github.com/noah-isme/fortidesk-api/pkg/response"
)

type complianceService interface {
	Dashboard(ctx context.Context, q service.ComplianceQuery) (*dto.ComplianceDashboardResponse, bool, error)
	CollectAlerts(ctx context.Context, subjectType compliance.SubjectType, q service.ComplianceQuery) ([]compliance.Alert, int, error)
	Resolve(q service.ComplianceQuery) (service.ComplianceQuery, error)
}

// ComplianceHandler serves the compliance dashboard and alert listings.
type ComplianceHandler struct {
	service complianceService
}

// NewComplianceHandler constructs the handler.
func NewComplianceHandler(svc complianceService) *ComplianceHandler {
	return &ComplianceHandler{service: svc}
}

// Dashboard godoc
// @Summary Compliance dashboard
// @Description Expiring and expired items grouped by subject type and field
// @Tags Compliance
// @Produce json
// @Param date query string false "Reference date (YYYY-MM-DD). Defaults to today"
// @Param lookahead query int false "Lookahead window in days"
// @Success 200 {object} response.Envelope
// @Router /compliance/dashboard [get]
func (h *ComplianceHandler) Dashboard(c *gin.Context) {
	q, err := complianceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, cacheHit, err := h.service.Dashboard(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Alerts godoc
// @Summary Alerts for one subject type
// @Tags Compliance
// @Produce json
// @Param subjectType path string true "athletes, staff, insurances or documents"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param lookahead query int false "Lookahead window in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /compliance/alerts/{subjectType} [get]
func (h *ComplianceHandler) Alerts(c *gin.Context) {
	subjectType, ok := compliance.ParseSubjectType(c.Param("subjectType"))
	if !ok {
		response.Error(c, appErrors.NewValidation("unknown subject type", map[string]string{"subjectType": c.Param("subjectType")}))
		return
	}
	q, err := complianceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if q, err = h.service.Resolve(q); err != nil {
		response.Error(c, err)
		return
	}
	alerts, skipped, err := h.service.CollectAlerts(c.Request.Context(), subjectType, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.AlertListResponse{
		SubjectType:   subjectType,
		Date:          q.Date,
		LookaheadDays: q.Window(),
		Alerts:        alerts,
		Skipped:       skipped,
	}, nil)
}
