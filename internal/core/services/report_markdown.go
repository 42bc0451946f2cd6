package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// buildStatsMarkdown renders the deterministic statistics block of a
// report. Every number here comes straight from the aggregator; prose from
// the narrative service is appended after this block, never mixed into it.
func buildStatsMarkdown(label string, stats domain.StatsSummary, partial *domain.PartialInfo) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s Takeoff Report\n", label)

	if partial != nil {
		fmt.Fprintf(&b, "> Note: this period is still running; only %d of %d days have data so far.\n\n",
			partial.ActualDataDays, partial.FullPeriodDays)
	}

	b.WriteString("### Overview\n")
	fmt.Fprintf(&b, "- Days counted (missing days count as 0): %d\n", stats.RecordedDays)
	fmt.Fprintf(&b, "- Total takeoffs: %d\n", stats.TotalCount)
	fmt.Fprintf(&b, "- Takeoff days: %d\n", stats.SuccessDays)
	fmt.Fprintf(&b, "- Zero days: %d\n", stats.ZeroDays)
	fmt.Fprintf(&b, "- Daily average: %.2f\n", stats.AvgPerDay)
	fmt.Fprintf(&b, "- Single-day high: %d%s\n", stats.MaxCount, maxCountSuffix(stats))
	fmt.Fprintf(&b, "- Longest streak: %d days\n", stats.StreakDays)
	fmt.Fprintf(&b, "- Most active weekday: %s\n", mostActiveText(stats))

	b.WriteString("\n### By Weekday\n")
	for wd := 0; wd < 7; wd++ {
		bucket := stats.DayOfWeek[wd]
		fmt.Fprintf(&b, "- %s: %d takeoffs over %d days\n", weekdayNames[wd], bucket.Count, bucket.Days)
	}

	return strings.TrimRight(b.String(), "\n")
}

// buildEmptyReport is the minimal report for a period with no rows at all.
func buildEmptyReport(label string, partial *domain.PartialInfo, asOf time.Time) string {
	note := ""
	if partial != nil {
		note = fmt.Sprintf(" (as of %s)", domain.FormatDateKey(asOf))
	}
	return fmt.Sprintf(
		"## %s Takeoff Report\n\nNo records exist for this period%s.\n\nStart logging your takeoffs to get a real report!",
		label, note)
}

func maxCountSuffix(stats domain.StatsSummary) string {
	if stats.MaxCountDate == "" {
		return ""
	}
	return fmt.Sprintf(" (%s)", stats.MaxCountDate)
}

func mostActiveText(stats domain.StatsSummary) string {
	wd, count, ok := stats.MostActiveWeekday()
	if !ok {
		return "none yet"
	}
	return fmt.Sprintf("%s (%d takeoffs)", weekdayNames[wd], count)
}
