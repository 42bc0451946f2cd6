package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate_EmptyRecords(t *testing.T) {
	summary := Aggregate(map[string]int{}, date(2026, 1, 5), date(2026, 1, 11))

	assert.Equal(t, 7, summary.TotalDays)
	assert.Equal(t, 0, summary.TotalCount)
	assert.Equal(t, 0, summary.SuccessDays)
	assert.Equal(t, 7, summary.ZeroDays)
	assert.Equal(t, 0.0, summary.AvgPerDay)
	assert.Equal(t, 0, summary.MaxCount)
	assert.Empty(t, summary.MaxCountDate)
	assert.Equal(t, 0, summary.StreakDays)

	for wd := 0; wd < 7; wd++ {
		assert.Equal(t, 1, summary.DayOfWeek[wd].Days, "weekday %d", wd)
		assert.Equal(t, 0, summary.DayOfWeek[wd].Count, "weekday %d", wd)
	}
}

func TestAggregate_EmptyRangeDoesNotDivideByZero(t *testing.T) {
	summary := Aggregate(map[string]int{"2026-01-05": 3}, date(2026, 1, 6), date(2026, 1, 5))

	assert.Equal(t, 0, summary.TotalDays)
	assert.Equal(t, 0.0, summary.AvgPerDay)
	assert.Len(t, summary.DayOfWeek, 7)
}

func TestAggregate_WeekScenario(t *testing.T) {
	// 2026-01-05 is a Monday.
	records := map[string]int{
		"2026-01-05": 1,
		"2026-01-06": 0,
		"2026-01-07": 3,
	}

	summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

	assert.Equal(t, 7, summary.TotalDays)
	assert.Equal(t, 4, summary.TotalCount)
	assert.Equal(t, 2, summary.SuccessDays)
	assert.Equal(t, 5, summary.ZeroDays)
	assert.Equal(t, 3, summary.MaxCount)
	assert.Equal(t, "2026-01-07", summary.MaxCountDate)
	assert.InDelta(t, 4.0/7.0, summary.AvgPerDay, 1e-9)
	assert.Equal(t, 1, summary.StreakDays)

	// Monday=1 and Wednesday=3 land in their weekday buckets.
	assert.Equal(t, WeekdayStat{Count: 1, Days: 1}, summary.DayOfWeek[1])
	assert.Equal(t, WeekdayStat{Count: 3, Days: 1}, summary.DayOfWeek[3])
	assert.Equal(t, WeekdayStat{Count: 0, Days: 1}, summary.DayOfWeek[2])
}

func TestAggregate_ExplicitZeroIsIdempotent(t *testing.T) {
	start, end := date(2026, 1, 5), date(2026, 1, 11)
	withDefault := Aggregate(map[string]int{"2026-01-07": 2}, start, end)
	withExplicit := Aggregate(map[string]int{"2026-01-07": 2, "2026-01-08": 0}, start, end)

	assert.Equal(t, withDefault, withExplicit)
}

func TestAggregate_MaxCountFirstOccurrenceWinsTies(t *testing.T) {
	records := map[string]int{
		"2026-01-06": 4,
		"2026-01-09": 4,
	}

	summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

	assert.Equal(t, 4, summary.MaxCount)
	assert.Equal(t, "2026-01-06", summary.MaxCountDate)
}

func TestAggregate_StreakIsLongestRunInWindow(t *testing.T) {
	// Three consecutive success days mid-window, then a gap, then two more.
	records := map[string]int{
		"2026-01-05": 1,
		"2026-01-06": 2,
		"2026-01-07": 1,
		"2026-01-09": 1,
		"2026-01-10": 1,
	}

	summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

	assert.Equal(t, 3, summary.StreakDays,
		"streak is the longest run found by the forward scan, even though the window ends on a zero day")
}

func TestAggregate_RecordsOutsideRangeIgnored(t *testing.T) {
	records := map[string]int{
		"2026-01-04": 5, // day before the range
		"2026-01-12": 5, // day after the range
		"2026-01-07": 1,
	}

	summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

	assert.Equal(t, 1, summary.TotalCount)
	assert.Equal(t, 1, summary.MaxCount)
}

func TestAggregate_FullMonth(t *testing.T) {
	records := make(map[string]int)
	for d := 1; d <= 31; d++ {
		records[FormatDateKey(time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC))] = 1
	}

	summary := Aggregate(records, date(2026, 1, 1), date(2026, 1, 31))

	assert.Equal(t, 31, summary.TotalDays)
	assert.Equal(t, 31, summary.SuccessDays)
	assert.Equal(t, 0, summary.ZeroDays)
	assert.Equal(t, 31, summary.StreakDays)
	assert.Equal(t, 1.0, summary.AvgPerDay)
	assert.Equal(t, "2026-01-01", summary.MaxCountDate)

	daysSeen := 0
	for wd := 0; wd < 7; wd++ {
		daysSeen += summary.DayOfWeek[wd].Days
	}
	assert.Equal(t, 31, daysSeen)
}

func TestMostActiveWeekday(t *testing.T) {
	t.Run("Highest bucket wins", func(t *testing.T) {
		records := map[string]int{
			"2026-01-05": 1, // Monday
			"2026-01-07": 3, // Wednesday
		}
		summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

		wd, count, ok := summary.MostActiveWeekday()
		assert.True(t, ok)
		assert.Equal(t, 3, wd)
		assert.Equal(t, 3, count)
	})

	t.Run("Tie goes to the lowest weekday index", func(t *testing.T) {
		records := map[string]int{
			"2026-01-05": 2, // Monday
			"2026-01-09": 2, // Friday
		}
		summary := Aggregate(records, date(2026, 1, 5), date(2026, 1, 11))

		wd, _, ok := summary.MostActiveWeekday()
		assert.True(t, ok)
		assert.Equal(t, 1, wd)
	})

	t.Run("No activity reports none", func(t *testing.T) {
		summary := Aggregate(nil, date(2026, 1, 5), date(2026, 1, 11))

		_, _, ok := summary.MostActiveWeekday()
		assert.False(t, ok)
	})
}
