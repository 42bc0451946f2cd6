package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

type RecordReader interface {
	MapByRange(ctx context.Context, userID, startKey, endKey string) (map[string]int, error)
}

type SummaryStore interface {
	SetYearSummary(ctx context.Context, userID string, year int, summary domain.StatsSummary) error
}

type SummaryJob struct {
	UserID string
	Year   int
}

// SummaryWorker recomputes a user's year-to-date summary after each record
// write and pushes it into the cache, so the calendar header counters never
// rescan the table on read.
type SummaryWorker struct {
	records RecordReader
	store   SummaryStore
	clock   domain.Clock
	jobs    chan SummaryJob
}

func NewSummaryWorker(records RecordReader, store SummaryStore, clock domain.Clock) *SummaryWorker {
	return &SummaryWorker{
		records: records,
		store:   store,
		clock:   clock,
		jobs:    make(chan SummaryJob, 100),
	}
}

func (w *SummaryWorker) Start(ctx context.Context) {
	go func() {
		log.Info().Msg("summary worker started in background")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Info().Msg("summary worker shutting down")
				return
			}
		}
	}()
}

func (w *SummaryWorker) Enqueue(userID string, year int) {
	select {
	case w.jobs <- SummaryJob{UserID: userID, Year: year}:
	default:
		log.Warn().Str("user_id", userID).Int("year", year).Msg("summary worker queue full, dropping job")
	}
}

func (w *SummaryWorker) processJob(ctx context.Context, job SummaryJob) {
	summary, err := w.Compute(ctx, job.UserID, job.Year)
	if err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Int("year", job.Year).Msg("summary recompute failed")
		return
	}

	if w.store == nil {
		return
	}

	if err := w.store.SetYearSummary(ctx, job.UserID, job.Year, summary); err != nil {
		log.Error().Err(err).Str("user_id", job.UserID).Int("year", job.Year).Msg("summary cache write failed")
	}
}

// Compute aggregates the given calendar year, clamped to today (UTC+8) when
// the year is still running so future days do not show up as zero days.
func (w *SummaryWorker) Compute(ctx context.Context, userID string, year int) (domain.StatsSummary, error) {
	anchor := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	period, err := domain.ResolvePeriod(domain.PeriodYear, anchor)
	if err != nil {
		return domain.StatsSummary{}, err
	}

	end := period.End
	if today := domain.TodayUTC8(w.clock); today.Before(end) && !today.Before(period.Start) {
		end = today
	}

	records, err := w.records.MapByRange(ctx, userID, period.StartKey(), domain.FormatDateKey(end))
	if err != nil {
		return domain.StatsSummary{}, fmt.Errorf("summary worker: range read failed: %w", err)
	}

	return domain.Aggregate(records, period.Start, end), nil
}
