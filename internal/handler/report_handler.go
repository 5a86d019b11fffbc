package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Osuolale-Olalekan/CBT-app/internal/response"
	"github.com/Osuolale-Olalekan/CBT-app/internal/service"
)

// ReportHandler serves the admin dashboard, per-exam stats and XLSX export.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Dashboard handles GET /admin/dashboard.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, recent, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"summary":            summary,
		"recent_submissions": recent,
	})
}

// ExamStats handles GET /admin/exams/:exam_id/stats.
func (h *ReportHandler) ExamStats(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	stats, err := h.reports.ExamStats(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// ExportResults handles GET /admin/exams/:exam_id/results/export.
func (h *ReportHandler) ExportResults(c *gin.Context) {
	examID, ok := parseIDParam(c, "exam_id")
	if !ok {
		return
	}

	buf, filename, err := h.reports.ExportResultsXLSX(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
