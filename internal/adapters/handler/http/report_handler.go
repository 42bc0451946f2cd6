package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http/middleware"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

type ReportHandler struct {
	svc *services.ReportService
}

func NewReportHandler(svc *services.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type generateReportRequest struct {
	Type         string `json:"type" binding:"required"`
	PeriodOffset int    `json:"period_offset"`
	ForceRefresh bool   `json:"force_refresh"`
	MarkViewed   bool   `json:"mark_viewed"`
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/pending", h.Pending)
		reports.POST("", h.Generate)
	}
}

func (h *ReportHandler) Pending(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Pending(c.Request.Context(), userID))
}

func (h *ReportHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	reportType := domain.PeriodType(req.Type)
	if !reportType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report type"})
		return
	}

	report, err := h.svc.Generate(c.Request.Context(), services.GenerateReportInput{
		UserID:       userID,
		Type:         reportType,
		PeriodOffset: req.PeriodOffset,
		ForceRefresh: req.ForceRefresh,
		MarkViewed:   req.MarkViewed,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
