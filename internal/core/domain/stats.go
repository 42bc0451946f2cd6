package domain

import "time"

// WeekdayStat accumulates one weekday bucket: total count on that weekday
// and how many of that weekday fell inside the range.
type WeekdayStat struct {
	Count int `json:"count"`
	Days  int `json:"days"`
}

// StatsSummary is a read-only aggregate over a date range. Missing dates
// count as zero, so TotalDays always equals the span of the range.
type StatsSummary struct {
	TotalDays    int                 `json:"total_days"`
	RecordedDays int                 `json:"recorded_days"`
	TotalCount   int                 `json:"total_count"`
	SuccessDays  int                 `json:"success_days"`
	ZeroDays     int                 `json:"zero_days"`
	AvgPerDay    float64             `json:"avg_per_day"`
	MaxCount     int                 `json:"max_count"`
	MaxCountDate string              `json:"max_count_date"`
	StreakDays   int                 `json:"streak_days"`
	DayOfWeek    map[int]WeekdayStat `json:"day_of_week"`
}

// Aggregate scans every date from start to end inclusive and accumulates
// descriptive statistics over records (date key -> daily count, absent keys
// defaulting to 0). The result is pure: identical inputs always produce an
// identical summary.
//
// StreakDays is the longest run of success days found anywhere in the
// window, not the run still open at the window's last day. The calendar UI
// has always labelled this "current streak"; keep the scan semantics until
// that wording is settled.
func Aggregate(records map[string]int, start, end time.Time) StatsSummary {
	start = DateOf(start)
	end = DateOf(end)

	summary := StatsSummary{
		DayOfWeek: make(map[int]WeekdayStat, 7),
	}
	for wd := 0; wd < 7; wd++ {
		summary.DayOfWeek[wd] = WeekdayStat{}
	}
	if end.Before(start) {
		return summary
	}

	streak := 0
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		value := records[FormatDateKey(cursor)]
		wd := int(cursor.Weekday())

		bucket := summary.DayOfWeek[wd]
		bucket.Days++

		summary.TotalDays++

		if value > 0 {
			summary.SuccessDays++
			summary.TotalCount += value
			bucket.Count += value
			if value > summary.MaxCount {
				summary.MaxCount = value
				summary.MaxCountDate = FormatDateKey(cursor)
			}
			streak++
			if streak > summary.StreakDays {
				summary.StreakDays = streak
			}
		} else {
			summary.ZeroDays++
			streak = 0
		}

		summary.DayOfWeek[wd] = bucket
	}

	summary.RecordedDays = summary.TotalDays
	if summary.TotalDays > 0 {
		summary.AvgPerDay = float64(summary.TotalCount) / float64(summary.TotalDays)
	}

	return summary
}

// MostActiveWeekday returns the weekday (0=Sunday) with the highest bucket
// count and that count. Ties go to the lowest weekday index. The second
// return is false when no weekday saw any activity.
func (s StatsSummary) MostActiveWeekday() (int, int, bool) {
	best, bestCount := 0, 0
	for wd := 0; wd < 7; wd++ {
		if s.DayOfWeek[wd].Count > bestCount {
			best = wd
			bestCount = s.DayOfWeek[wd].Count
		}
	}
	if bestCount == 0 {
		return 0, 0, false
	}
	return best, bestCount, true
}
