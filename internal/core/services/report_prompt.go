package services

import (
	"fmt"
	"strings"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

// reportSystemPrompt frames the narrative service as a lighthearted
// personal health advisor. The service is never a source of numeric truth:
// the prompt forbids inventing numbers, and the statistics block of the
// final report is rendered locally regardless.
const reportSystemPrompt = `You are a witty, warm personal health advisor analyzing a user's "takeoff" log.

## Time and calendar
- Use the ISO 8601 calendar (weeks start on Monday; week 1 contains the year's first Thursday)
- The timezone is fixed at UTC+8
- The user data includes the current date and time; base any time-related analysis on it

## Background
- "Takeoff" is a playful euphemism for masturbation
- The user tracks their sexual wellness with a "takeoff log" app
- In the data, 0 = no takeoff that day, 1-5 = takeoffs that day

## Your task
From the statistics provided, write a professional yet relaxed wellness analysis.

## Style
1. Tone: an old friend who gets you; funny without being crude, caring without preaching
2. Wording: stay with euphemisms like "takeoff"; avoid explicit language
3. Attitude: treat this as a normal physiological need, no moral judgment
4. Structure: short and punchy

## Content outline
1. **Pattern analysis**: point out interesting regularities (active weekdays, streaks)
2. **Health tips**: 1-2 practical suggestions grounded in the data
3. **Encouragement**: close on a light note

## Health reference
- Moderate masturbation is normal and healthy
- 1-3 times a week is a common guideline, with large individual variation
- Excess can cause fatigue and interfere with daily life
- Long abstinence is not automatically healthier; moderate release helps balance

## Output format
- Markdown
- Keep it under 300 words
- Emoji welcome in moderation

Your goal: the user understands their data, smiles, and picks up a useful health tip.`

type reportPromptInput struct {
	Type         domain.PeriodType
	Label        string
	Stats        domain.StatsSummary
	Trends       []domain.TrendPeriod
	CurrentTime  string
	Partial      *domain.PartialInfo
	RefreshToken string
}

var periodTypeNames = map[domain.PeriodType]string{
	domain.PeriodWeek:    "weekly",
	domain.PeriodMonth:   "monthly",
	domain.PeriodQuarter: "quarterly",
	domain.PeriodYear:    "yearly",
}

// buildReportPrompt assembles the user-data prompt: the analysis request,
// the target period's statistics, and the trend context. It deliberately
// instructs the model not to emit the overview section, which is rendered
// locally by buildStatsMarkdown.
func buildReportPrompt(input reportPromptInput) string {
	var b strings.Builder

	b.WriteString(`Write only the "Pattern analysis / Health tips / Encouragement" sections of the report. Do not output an overview section, and do not mention weeks or dates inconsistent with the data.
When citing numbers, use the statistics below exactly; if a number cannot be determined, avoid citing one.
The output format must be:
### Pattern analysis
...
### Health tips
...
### Encouragement
...

`)

	b.WriteString("Basics:\n")
	fmt.Fprintf(&b, "- Report type: %s\n", periodTypeNames[input.Type])
	fmt.Fprintf(&b, "- Period: %s\n", input.Label)
	fmt.Fprintf(&b, "- Current time: %s\n", input.CurrentTime)
	if input.Partial != nil {
		fmt.Fprintf(&b,
			"- Note: this period is incomplete, covering %d of %d days. Analyze what exists and remind the user the numbers are as of today.\n",
			input.Partial.ActualDataDays, input.Partial.FullPeriodDays)
	}

	b.WriteString("\nStatistics:\n")
	writePromptStats(&b, input.Stats, true)

	if len(input.Trends) > 0 {
		b.WriteString("\nHistorical trend (for comparison):\n")
		for _, trend := range input.Trends {
			fmt.Fprintf(&b, "\n%s\n", trend.Label)
			writePromptStats(&b, trend.Stats, false)
		}
	}

	if input.RefreshToken != "" {
		fmt.Fprintf(&b, "\nRegeneration token (ignore, do not mention): %s\n", input.RefreshToken)
	}

	return b.String()
}

func writePromptStats(b *strings.Builder, stats domain.StatsSummary, full bool) {
	fmt.Fprintf(b, "- Total takeoffs: %d\n", stats.TotalCount)
	fmt.Fprintf(b, "- Daily average: %.2f\n", stats.AvgPerDay)
	fmt.Fprintf(b, "- Takeoff days: %d\n", stats.SuccessDays)
	fmt.Fprintf(b, "- Zero days: %d\n", stats.ZeroDays)

	if !full {
		return
	}

	fmt.Fprintf(b, "- Days counted (missing days count as 0): %d\n", stats.RecordedDays)
	fmt.Fprintf(b, "- Single-day high: %d%s\n", stats.MaxCount, maxCountSuffix(stats))
	fmt.Fprintf(b, "- Longest streak: %d days\n", stats.StreakDays)
	fmt.Fprintf(b, "- Most active weekday: %s\n", mostActiveText(stats))

	b.WriteString("\nBy weekday:\n")
	for wd := 0; wd < 7; wd++ {
		bucket := stats.DayOfWeek[wd]
		fmt.Fprintf(b, "- %s: %d takeoffs over %d days\n", weekdayNames[wd], bucket.Count, bucket.Days)
	}
}
