package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/fortidesk-api/internal/dto"
	"github.com/noah-isme/fortidesk-api/internal/service"
	appErrors "github.com/noah-isme/fortidesk-api/pkg/errors"
	"github.com/noah-isme/fortidesk-api/pkg/export"
	"github.com/noah-isme/fortidesk-api/pkg/response"
)

type reportService interface {
	Report(ctx context.Context, q service.ReportQuery) (*export.Dataset, error)
}

// ReportHandler renders compliance reports as JSON, CSV or PDF.
type ReportHandler struct {
	service   reportService
	renderers map[export.Format]export.Renderer
}

// NewReportHandler constructs the handler with the CSV and PDF renderers.
func NewReportHandler(svc reportService) *ReportHandler {
	return &ReportHandler{
		service: svc,
		renderers: map[export.Format]export.Renderer{
			export.FormatCSV: export.NewCSVExporter(),
			export.FormatPDF: export.NewPDFExporter(),
		},
	}
}

// Report godoc
// @Summary Compliance report
// @Description team_roster, staff_compliance, document_status or insurance_status
// @Tags Reports
// @Produce json
// @Produce text/csv
// @Produce application/pdf
// @Param report path string true "Report type"
// @Param format query string false "json (default), csv or pdf"
// @Param teamId query string false "Team filter for team_roster"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Param lookahead query int false "Lookahead window in days"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reports/{report} [get]
func (h *ReportHandler) Report(c *gin.Context) {
	reportType := dto.ReportType(c.Param("report"))
	if !reportType.Valid() {
		response.Error(c, appErrors.NewValidation("unknown report", map[string]string{"report": string(reportType)}))
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatJSON)))
	if err != nil {
		response.Error(c, appErrors.NewValidation("unsupported format", map[string]string{"format": c.Query("format")}))
		return
	}
	q, err := complianceQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	ds, err := h.service.Report(c.Request.Context(), service.ReportQuery{
		Type:            reportType,
		TeamID:          strings.TrimSpace(c.Query("teamId")),
		ComplianceQuery: q,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if format == export.FormatJSON {
		response.JSON(c, http.StatusOK, ds, nil)
		return
	}
	renderer, ok := h.renderers[format]
	if !ok {
		response.Error(c, appErrors.NewValidation("unsupported format", map[string]string{"format": string(format)}))
		return
	}
	body, err := renderer.Render(*ds)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report"))
		return
	}
	filename := fmt.Sprintf("%s_%s.%s", reportType, ds.GeneratedAt.Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, format.ContentType(), body)
}
