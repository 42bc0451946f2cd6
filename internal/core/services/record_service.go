package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/workers"
)

type RecordService struct {
	repo   domain.RecordRepository
	clock  domain.Clock
	worker *workers.SummaryWorker
}

func NewRecordService(repo domain.RecordRepository, clock domain.Clock, worker *workers.SummaryWorker) *RecordService {
	return &RecordService{
		repo:   repo,
		clock:  clock,
		worker: worker,
	}
}

type SetRecordInput struct {
	UserID  string
	DateKey string
	Count   int
}

// SyncItem is one locally-cached record a client wants reconciled onto the
// server.
type SyncItem struct {
	DateKey string `json:"date"`
	Count   int    `json:"count"`
}

const (
	SyncStatusSynced  = "synced"
	SyncStatusSkipped = "skipped"
	SyncStatusFailed  = "failed"
)

type SyncResult struct {
	DateKey string `json:"date"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// Set upserts the count for one day. Days after today (UTC+8) are rejected.
func (s *RecordService) Set(ctx context.Context, input SetRecordInput) (*domain.DailyRecord, error) {
	record, err := domain.NewDailyRecord(input.UserID, input.DateKey, input.Count)
	if err != nil {
		return nil, err
	}

	if err := s.rejectFuture(record.DateKey); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("record service: upsert failed: %w", err)
	}

	s.enqueueSummary(input.UserID, record.DateKey)

	return record, nil
}

// Clear removes the row for one day entirely, putting the day back into the
// "never recorded" state.
func (s *RecordService) Clear(ctx context.Context, userID, dateKey string) error {
	if _, err := domain.ParseDateKey(dateKey); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, userID, dateKey); err != nil {
		return err
	}

	s.enqueueSummary(userID, dateKey)
	return nil
}

// YearMap returns date key -> count for every recorded day of a calendar
// year, for the calendar grid.
func (s *RecordService) YearMap(ctx context.Context, userID string, year int) (map[string]int, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	return s.repo.MapByRange(ctx, userID, domain.FormatDateKey(start), domain.FormatDateKey(end))
}

// Reconcile drains a batch of locally-cached records onto the server. Each
// item is handled independently: dates already present server-side are
// skipped (the server value wins), invalid or future dates fail, everything
// else is upserted. A partial failure leaves the rest of the batch synced;
// the client retries the failed ones on its next pass.
func (s *RecordService) Reconcile(ctx context.Context, userID string, items []SyncItem) []SyncResult {
	results := make([]SyncResult, 0, len(items))

	for _, item := range items {
		results = append(results, s.reconcileOne(ctx, userID, item))
	}

	return results
}

func (s *RecordService) reconcileOne(ctx context.Context, userID string, item SyncItem) SyncResult {
	record, err := domain.NewDailyRecord(userID, item.DateKey, item.Count)
	if err != nil {
		return SyncResult{DateKey: item.DateKey, Status: SyncStatusFailed, Error: err.Error()}
	}
	if err := s.rejectFuture(record.DateKey); err != nil {
		return SyncResult{DateKey: item.DateKey, Status: SyncStatusFailed, Error: err.Error()}
	}

	exists, err := s.repo.Exists(ctx, userID, record.DateKey)
	if err != nil {
		return SyncResult{DateKey: item.DateKey, Status: SyncStatusFailed, Error: err.Error()}
	}
	if exists {
		return SyncResult{DateKey: item.DateKey, Status: SyncStatusSkipped}
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return SyncResult{DateKey: item.DateKey, Status: SyncStatusFailed, Error: err.Error()}
	}

	s.enqueueSummary(userID, record.DateKey)
	return SyncResult{DateKey: item.DateKey, Status: SyncStatusSynced}
}

// ExportCSV streams a year's records as date,count rows.
func (s *RecordService) ExportCSV(ctx context.Context, userID string, year int, w io.Writer) error {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)

	records, err := s.repo.ListByRange(ctx, userID, domain.FormatDateKey(start), domain.FormatDateKey(end))
	if err != nil {
		return fmt.Errorf("record service: export read failed: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "count"}); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.DateKey, strconv.Itoa(rec.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// YearSummary recomputes the year-to-date summary on demand. The worker
// keeps the cached copy warm; this is the fallback path.
func (s *RecordService) YearSummary(ctx context.Context, userID string, year int) (domain.StatsSummary, error) {
	return s.worker.Compute(ctx, userID, year)
}

func (s *RecordService) rejectFuture(dateKey string) error {
	today := domain.FormatDateKey(domain.TodayUTC8(s.clock))
	if dateKey > today {
		return domain.ErrFutureDate
	}
	return nil
}

func (s *RecordService) enqueueSummary(userID, dateKey string) {
	if s.worker == nil {
		return
	}
	if day, err := domain.ParseDateKey(dateKey); err == nil {
		s.worker.Enqueue(userID, day.Year())
	}
}
