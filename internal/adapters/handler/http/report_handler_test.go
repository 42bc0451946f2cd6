package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/Lynn3t/my-takeoff-2026/internal/adapters/handler/http"
	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/repository"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
)

type stubNarrative struct {
	configured bool
	response   string
	err        error
}

func (s *stubNarrative) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubNarrative) Configured() bool { return s.configured }

func setupReportRouter(t *testing.T, narrative *stubNarrative) (*gin.Engine, *repository.InMemoryRecordRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	records := repository.NewInMemoryRecordRepository()
	viewed := repository.NewInMemoryViewedMarkerRepository()
	svc := services.NewReportService(records, viewed, narrative, nil, handlerClock())
	handler := adapterHTTP.NewReportHandler(svc)

	router := gin.New()
	group := router.Group("/api/v1")
	group.Use(asUser("u1", false))
	handler.RegisterRoutes(group)

	return router, records
}

func seedDay(t *testing.T, repo *repository.InMemoryRecordRepository, dateKey string, count int) {
	t.Helper()
	record, err := domain.NewDailyRecord("u1", dateKey, count)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(context.Background(), record))
}

func TestReportHandler_Generate(t *testing.T) {
	t.Run("Returns the composed report", func(t *testing.T) {
		router, records := setupReportRouter(t, &stubNarrative{configured: true, response: "Nice rhythm this week."})
		seedDay(t, records, "2026-01-06", 2)

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"type": "week"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Report  string              `json:"report"`
			Period  string              `json:"period"`
			Stats   domain.StatsSummary `json:"stats"`
			Partial *domain.PartialInfo `json:"partial"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Week 2, 2026", resp.Period)
		assert.Contains(t, resp.Report, "Nice rhythm this week.")
		assert.Equal(t, 2, resp.Stats.TotalCount)
		require.NotNil(t, resp.Partial)
		assert.Equal(t, 3, resp.Partial.ActualDataDays)
	})

	t.Run("Unknown type is a 400 before any work", func(t *testing.T) {
		router, _ := setupReportRouter(t, &stubNarrative{configured: true})

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"type": "fortnight"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid report type")
	})

	t.Run("Missing type fails binding", func(t *testing.T) {
		router, _ := setupReportRouter(t, &stubNarrative{configured: true})

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"period_offset": -1})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unconfigured narrative backend is a 400", func(t *testing.T) {
		router, records := setupReportRouter(t, &stubNarrative{configured: false})
		seedDay(t, records, "2026-01-06", 2)

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"type": "week"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not configured")
	})

	t.Run("Narrative timeout is a 504", func(t *testing.T) {
		router, records := setupReportRouter(t, &stubNarrative{configured: true, err: domain.ErrNarrativeTimeout})
		seedDay(t, records, "2026-01-06", 2)

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"type": "week"})
		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("Narrative garbage is a 502", func(t *testing.T) {
		router, records := setupReportRouter(t, &stubNarrative{configured: true, err: domain.ErrNarrativeBadResponse})
		seedDay(t, records, "2026-01-06", 2)

		w := perform(router, http.MethodPost, "/api/v1/reports", gin.H{"type": "week"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestReportHandler_Pending(t *testing.T) {
	router, _ := setupReportRouter(t, &stubNarrative{configured: true})

	w := perform(router, http.MethodGet, "/api/v1/reports/pending", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Pending             []domain.PendingReport `json:"pending_reports"`
		NarrativeConfigured bool                   `json:"narrative_configured"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.NarrativeConfigured)
	assert.Len(t, resp.Pending, 4)
}
