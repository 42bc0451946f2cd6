package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http/middleware"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

// SummaryReader is the read side of the worker-maintained year summary.
type SummaryReader interface {
	GetYearSummary(ctx context.Context, userID string, year int) (domain.StatsSummary, bool)
}

type RecordHandler struct {
	svc   *services.RecordService
	cache SummaryReader
}

func NewRecordHandler(svc *services.RecordService, cache SummaryReader) *RecordHandler {
	return &RecordHandler{
		svc:   svc,
		cache: cache,
	}
}

type setRecordRequest struct {
	Date   string `json:"date" binding:"required"`
	Count  int    `json:"count"`
	Delete bool   `json:"delete"`
}

type syncRequest struct {
	Records []services.SyncItem `json:"records" binding:"required"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/records")
	{
		records.GET("", h.YearMap)
		records.POST("", h.Set)
		records.POST("/sync", h.Sync)
		records.GET("/summary", h.Summary)
		records.GET("/export", h.ExportCSV)
	}
}

func (h *RecordHandler) YearMap(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, ok := parseYear(c)
	if !ok {
		return
	}

	data, err := h.svc.YearMap(c.Request.Context(), userID, year)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}

func (h *RecordHandler) Set(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if req.Delete {
		if err := h.svc.Clear(c.Request.Context(), userID, req.Date); err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	record, err := h.svc.Set(c.Request.Context(), services.SetRecordInput{
		UserID:  userID,
		DateKey: req.Date,
		Count:   req.Count,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "record": record})
}

func (h *RecordHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	results := h.svc.Reconcile(c.Request.Context(), userID, req.Records)

	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (h *RecordHandler) Summary(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, ok := parseYear(c)
	if !ok {
		return
	}

	if h.cache != nil {
		if summary, ok := h.cache.GetYearSummary(c.Request.Context(), userID, year); ok {
			c.JSON(http.StatusOK, summary)
			return
		}
	}

	summary, err := h.svc.YearSummary(c.Request.Context(), userID, year)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *RecordHandler) ExportCSV(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, ok := parseYear(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="takeoff-log-%d.csv"`, year))

	if err := h.svc.ExportCSV(c.Request.Context(), userID, year, c.Writer); err != nil {
		// Headers may already be out; log instead of switching to JSON.
		log.Error().Err(err).Msg("csv export failed mid-stream")
	}
}

func parseYear(c *gin.Context) (int, bool) {
	yearStr := c.Query("year")
	if yearStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year is required"})
		return 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, false
	}
	return year, true
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrFutureDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot record a future date"})

	case errors.Is(err, domain.ErrInvalidDateKey),
		errors.Is(err, domain.ErrNegativeCount),
		errors.Is(err, domain.ErrCountTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrInvalidReportType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report type"})

	case errors.Is(err, domain.ErrNarrativeNotConfigured):
		c.JSON(http.StatusBadRequest, gin.H{"error": "narrative service is not configured, ask your admin"})

	case errors.Is(err, domain.ErrNarrativeTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "narrative service timed out, try again later"})

	case errors.Is(err, domain.ErrNarrativeBadResponse):
		c.JSON(http.StatusBadGateway, gin.H{"error": "narrative service returned an unexpected response, try again later"})

	case errors.Is(err, domain.ErrNarrativeUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "narrative service request failed, try again later"})

	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})

	default:
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
