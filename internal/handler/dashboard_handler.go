package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/educonnectt/educonnect-api/internal/service"
	"github.com/educonnectt/educonnect-api/pkg/response"
)

// DashboardHandler exposes the admin overview and report exports.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Overview godoc
// @Summary Admin overview
// @Description Aggregated counts across students, teachers, subjects and payments
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, cached, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, gin.H{"cached": cached})
}

// Export godoc
// @Summary Export report
// @Description Download the named report as CSV or PDF
// @Tags Dashboard
// @Produce octet-stream
// @Param report path string true "Report name" Enums(students, payments)
// @Param format query string false "Output format" Enums(csv, pdf) default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/{report} [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	report := c.Param("report")
	format := c.DefaultQuery("format", "csv")

	content, contentType, err := h.service.ExportReport(c.Request.Context(), report, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := report + "." + format
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, content)
}
