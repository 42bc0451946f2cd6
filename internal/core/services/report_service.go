package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

// NarrativeClient turns prompts into prose. It is treated as unreliable and
// slow; every number in the final report comes from the aggregator, never
// from the client's output.
type NarrativeClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Configured() bool
}

// ReportCache stores rendered reports keyed by (user, type, period).
type ReportCache interface {
	GetReport(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) (string, bool)
	SetReport(ctx context.Context, userID string, reportType domain.PeriodType, periodKey, report string)
}

type ReportService struct {
	records   domain.RecordRepository
	viewed    domain.ViewedMarkerRepository
	narrative NarrativeClient
	cache     ReportCache
	clock     domain.Clock
}

func NewReportService(
	records domain.RecordRepository,
	viewed domain.ViewedMarkerRepository,
	narrative NarrativeClient,
	cache ReportCache,
	clock domain.Clock,
) *ReportService {
	return &ReportService{
		records:   records,
		viewed:    viewed,
		narrative: narrative,
		cache:     cache,
		clock:     clock,
	}
}

type GenerateReportInput struct {
	UserID       string
	Type         domain.PeriodType
	PeriodOffset int
	ForceRefresh bool
	MarkViewed   bool
}

type Report struct {
	Text    string              `json:"report"`
	Period  string              `json:"period"`
	Stats   domain.StatsSummary `json:"stats"`
	Partial *domain.PartialInfo `json:"partial,omitempty"`
}

// PendingStatus lists the completed-but-unopened periods for a user, plus
// whether narrative generation is available at all.
type PendingStatus struct {
	Pending             []domain.PendingReport `json:"pending_reports"`
	NarrativeConfigured bool                   `json:"narrative_configured"`
}

// Pending checks, for each report type, whether the previous period's
// report has been opened. Store errors degrade to "nothing pending": this
// runs on a background poll and must never surface a failure to the user.
func (s *ReportService) Pending(ctx context.Context, userID string) PendingStatus {
	status := PendingStatus{
		Pending:             []domain.PendingReport{},
		NarrativeConfigured: s.narrative != nil && s.narrative.Configured(),
	}

	today := domain.TodayUTC8(s.clock)

	for _, reportType := range domain.AllPeriodTypes {
		period, err := domain.ResolvePeriod(reportType, domain.ShiftAnchor(reportType, today, -1))
		if err != nil {
			continue
		}

		seen, err := s.viewed.IsViewed(ctx, userID, reportType, period.Key)
		if err != nil {
			log.Warn().Err(err).Str("period_key", period.Key).Msg("pending report check failed, skipping")
			continue
		}
		if !seen {
			status.Pending = append(status.Pending, domain.PendingReport{
				Type:      reportType,
				PeriodKey: period.Key,
				Label:     period.Label,
			})
		}
	}

	return status
}

// Generate builds the statistics report for one period, appending the
// narrative service's prose when it is configured and responsive. Offset 0
// is the current period, -1 the previous one, and so on.
func (s *ReportService) Generate(ctx context.Context, input GenerateReportInput) (*Report, error) {
	if !input.Type.Valid() {
		return nil, domain.ErrInvalidReportType
	}

	today := domain.TodayUTC8(s.clock)
	anchor := domain.ShiftAnchor(input.Type, today, input.PeriodOffset)

	period, err := domain.ResolvePeriod(input.Type, anchor)
	if err != nil {
		return nil, err
	}

	// The current period is clamped to today; stats run over what has
	// actually elapsed, the nominal span is only disclosed.
	end := period.End
	var partial *domain.PartialInfo
	if input.PeriodOffset == 0 && today.Before(period.End) {
		end = today
		partial = &domain.PartialInfo{
			ActualDataDays: domain.DaysBetween(period.Start, today),
			FullPeriodDays: period.Days(),
		}
	}

	if s.cache != nil && !input.ForceRefresh && partial == nil {
		if cached, ok := s.cache.GetReport(ctx, input.UserID, input.Type, period.Key); ok {
			stats, err := s.aggregateRange(ctx, input.UserID, period.Start, end)
			if err != nil {
				return nil, err
			}
			if input.MarkViewed {
				if err := s.markViewed(ctx, input.UserID, input.Type, period.Key); err != nil {
					return nil, err
				}
			}
			return &Report{Text: cached, Period: period.Label, Stats: stats}, nil
		}
	}

	records, err := s.records.MapByRange(ctx, input.UserID, period.StartKey(), domain.FormatDateKey(end))
	if err != nil {
		return nil, fmt.Errorf("report service: range read failed: %w", err)
	}

	stats := domain.Aggregate(records, period.Start, end)

	// No rows at all: a minimal report, not an error.
	if len(records) == 0 {
		if input.MarkViewed {
			if err := s.markViewed(ctx, input.UserID, input.Type, period.Key); err != nil {
				return nil, err
			}
		}
		return &Report{
			Text:    buildEmptyReport(period.Label, partial, end),
			Period:  period.Label,
			Stats:   stats,
			Partial: partial,
		}, nil
	}

	trends, err := s.collectTrends(ctx, input.UserID, input.Type, anchor)
	if err != nil {
		return nil, err
	}

	text := buildStatsMarkdown(period.Label, stats, partial)

	if s.narrative == nil || !s.narrative.Configured() {
		return nil, domain.ErrNarrativeNotConfigured
	}

	var refreshToken string
	if input.ForceRefresh {
		refreshToken = fmt.Sprintf("%d-%06d", s.clock.Now().UnixMilli(), rand.Intn(1_000_000))
	}

	prompt := buildReportPrompt(reportPromptInput{
		Type:         input.Type,
		Label:        period.Label,
		Stats:        stats,
		Trends:       trends,
		CurrentTime:  domain.NowUTC8ISO(s.clock),
		Partial:      partial,
		RefreshToken: refreshToken,
	})

	analysis, err := s.narrative.Generate(ctx, reportSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	if analysis != "" {
		text = text + "\n\n" + analysis
	}

	if input.MarkViewed {
		if err := s.markViewed(ctx, input.UserID, input.Type, period.Key); err != nil {
			return nil, err
		}
	}

	if s.cache != nil && partial == nil {
		s.cache.SetReport(ctx, input.UserID, input.Type, period.Key, text)
	}

	return &Report{
		Text:    text,
		Period:  period.Label,
		Stats:   stats,
		Partial: partial,
	}, nil
}

// collectTrends aggregates the 3 periods preceding the anchor, newest
// first, each paired with its label.
func (s *ReportService) collectTrends(ctx context.Context, userID string, reportType domain.PeriodType, anchor time.Time) ([]domain.TrendPeriod, error) {
	trends := make([]domain.TrendPeriod, 0, 3)

	for i := 1; i <= 3; i++ {
		period, err := domain.ResolvePeriod(reportType, domain.ShiftAnchor(reportType, anchor, -i))
		if err != nil {
			return nil, err
		}

		stats, err := s.aggregateRange(ctx, userID, period.Start, period.End)
		if err != nil {
			return nil, err
		}

		trends = append(trends, domain.TrendPeriod{Label: period.Label, Stats: stats})
	}

	return trends, nil
}

func (s *ReportService) aggregateRange(ctx context.Context, userID string, start, end time.Time) (domain.StatsSummary, error) {
	records, err := s.records.MapByRange(ctx, userID, domain.FormatDateKey(start), domain.FormatDateKey(end))
	if err != nil {
		return domain.StatsSummary{}, fmt.Errorf("report service: range read failed: %w", err)
	}
	return domain.Aggregate(records, start, end), nil
}

func (s *ReportService) markViewed(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) error {
	if err := s.viewed.Mark(ctx, userID, reportType, periodKey); err != nil {
		return fmt.Errorf("report service: viewed marker write failed: %w", err)
	}
	return nil
}
