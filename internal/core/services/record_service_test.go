package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lynn3t/my-takeoff-2026/internal/adapters/repository"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/services"
	"github.com/Lynn3t/my-takeoff-2026/internal/core/workers"
)

// Wednesday, 2026-01-07, mid-afternoon in UTC+8.
func testClock() domain.FixedClock {
	return domain.FixedClock{Instant: time.Date(2026, 1, 7, 15, 0, 0, 0, domain.ZoneUTC8)}
}

func newRecordService(repo *repository.InMemoryRecordRepository) *services.RecordService {
	worker := workers.NewSummaryWorker(repo, nil, testClock())
	return services.NewRecordService(repo, testClock(), worker)
}

func TestRecordService_Set(t *testing.T) {
	ctx := context.Background()

	t.Run("Upserts and returns the record", func(t *testing.T) {
		repo := repository.NewInMemoryRecordRepository()
		svc := newRecordService(repo)

		record, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-05", Count: 3})
		require.NoError(t, err)
		assert.Equal(t, "2026-01-05", record.DateKey)
		assert.Equal(t, 3, record.Count)

		record, err = svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-05", Count: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, record.Count)

		data, err := svc.YearMap(ctx, "u1", 2026)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"2026-01-05": 1}, data)
	})

	t.Run("Today is allowed, tomorrow is not", func(t *testing.T) {
		repo := repository.NewInMemoryRecordRepository()
		svc := newRecordService(repo)

		_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-07", Count: 1})
		assert.NoError(t, err)

		_, err = svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-08", Count: 1})
		assert.ErrorIs(t, err, domain.ErrFutureDate)
	})

	t.Run("Explicit zero is a recorded day, not a deletion", func(t *testing.T) {
		repo := repository.NewInMemoryRecordRepository()
		svc := newRecordService(repo)

		_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-06", Count: 0})
		require.NoError(t, err)

		exists, err := repo.Exists(ctx, "u1", "2026-01-06")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Rejects invalid input", func(t *testing.T) {
		repo := repository.NewInMemoryRecordRepository()
		svc := newRecordService(repo)

		_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "07/01/2026", Count: 1})
		assert.ErrorIs(t, err, domain.ErrInvalidDateKey)

		_, err = svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-06", Count: -2})
		assert.ErrorIs(t, err, domain.ErrNegativeCount)
	})
}

func TestRecordService_Clear(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRecordRepository()
	svc := newRecordService(repo)

	_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-05", Count: 2})
	require.NoError(t, err)

	t.Run("Removes the row entirely", func(t *testing.T) {
		require.NoError(t, svc.Clear(ctx, "u1", "2026-01-05"))

		exists, err := repo.Exists(ctx, "u1", "2026-01-05")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Clearing a never-recorded day is NotFound", func(t *testing.T) {
		assert.ErrorIs(t, svc.Clear(ctx, "u1", "2026-01-04"), domain.ErrRecordNotFound)
	})

	t.Run("Validates the date key first", func(t *testing.T) {
		assert.ErrorIs(t, svc.Clear(ctx, "u1", "garbage"), domain.ErrInvalidDateKey)
	})
}

func TestRecordService_Reconcile(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRecordRepository()
	svc := newRecordService(repo)

	// already on the server, value 2
	_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-03", Count: 2})
	require.NoError(t, err)

	results := svc.Reconcile(ctx, "u1", []services.SyncItem{
		{DateKey: "2026-01-03", Count: 5},
		{DateKey: "2026-01-02", Count: 1},
		{DateKey: "2026-01-08", Count: 1},
		{DateKey: "not-a-date", Count: 1},
	})

	require.Len(t, results, 4)
	assert.Equal(t, services.SyncStatusSkipped, results[0].Status)
	assert.Equal(t, services.SyncStatusSynced, results[1].Status)
	assert.Equal(t, services.SyncStatusFailed, results[2].Status)
	assert.NotEmpty(t, results[2].Error)
	assert.Equal(t, services.SyncStatusFailed, results[3].Status)

	// the server value wins for the skipped day
	data, err := svc.YearMap(ctx, "u1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, data["2026-01-03"])
	assert.Equal(t, 1, data["2026-01-02"])
}

func TestRecordService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRecordRepository()
	svc := newRecordService(repo)

	_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-05", Count: 3})
	require.NoError(t, err)
	_, err = svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-02", Count: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, "u1", 2026, &buf))

	assert.Equal(t, "date,count\n2026-01-02,1\n2026-01-05,3\n", buf.String())
}

func TestRecordService_YearSummary(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewInMemoryRecordRepository()
	svc := newRecordService(repo)

	_, err := svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-05", Count: 1})
	require.NoError(t, err)
	_, err = svc.Set(ctx, services.SetRecordInput{UserID: "u1", DateKey: "2026-01-07", Count: 3})
	require.NoError(t, err)

	summary, err := svc.YearSummary(ctx, "u1", 2026)
	require.NoError(t, err)

	// the year is clamped to today, Jan 7
	assert.Equal(t, 7, summary.TotalDays)
	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, 2, summary.SuccessDays)
	assert.Equal(t, 3, summary.MaxCount)
	assert.Equal(t, "2026-01-07", summary.MaxCountDate)
}
