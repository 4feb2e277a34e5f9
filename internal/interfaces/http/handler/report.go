package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/harvesthub/backend/internal/application/report"
)

// ReportHandler handles dashboard reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Dashboard returns the admin dashboard snapshot
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.BuildDashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}
