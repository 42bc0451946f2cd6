package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidReportType = errors.New("invalid report type (must be week, month, quarter, or year)")
)

type PeriodType string

const (
	PeriodWeek    PeriodType = "week"
	PeriodMonth   PeriodType = "month"
	PeriodQuarter PeriodType = "quarter"
	PeriodYear    PeriodType = "year"
)

var AllPeriodTypes = []PeriodType{PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear}

func (t PeriodType) Valid() bool {
	switch t {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Period is a contiguous date range identified by a stable key.
// Start and End are inclusive UTC midnights. It is derived purely from
// (type, anchor) and never persisted; only its Key is (as a viewed marker).
type Period struct {
	Type  PeriodType `json:"type"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
	Label string     `json:"label"`
	Key   string     `json:"key"`
}

// ResolvePeriod computes the period of the given type containing anchor.
// Weeks follow ISO 8601: Monday start, week-year owned by the Thursday.
func ResolvePeriod(t PeriodType, anchor time.Time) (Period, error) {
	anchor = DateOf(anchor)
	year, month, _ := anchor.Date()

	switch t {
	case PeriodWeek:
		monday := anchor.AddDate(0, 0, -mondayOffset(anchor))
		isoYear, isoWeek := monday.ISOWeek()
		return Period{
			Type:  t,
			Start: monday,
			End:   monday.AddDate(0, 0, 6),
			Label: fmt.Sprintf("Week %d, %d", isoWeek, isoYear),
			Key:   fmt.Sprintf("%d-W%02d", isoYear, isoWeek),
		}, nil

	case PeriodMonth:
		first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Type:  t,
			Start: first,
			End:   first.AddDate(0, 1, -1),
			Label: first.Format("January 2006"),
			Key:   fmt.Sprintf("%d-M%02d", year, int(month)),
		}, nil

	case PeriodQuarter:
		q := (int(month) - 1) / 3
		first := time.Date(year, time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		return Period{
			Type:  t,
			Start: first,
			End:   first.AddDate(0, 3, -1),
			Label: fmt.Sprintf("%d Q%d", year, q+1),
			Key:   fmt.Sprintf("%d-Q%d", year, q+1),
		}, nil

	case PeriodYear:
		return Period{
			Type:  t,
			Start: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
			Label: fmt.Sprintf("%d", year),
			Key:   fmt.Sprintf("%d", year),
		}, nil
	}

	return Period{}, ErrInvalidReportType
}

// ShiftAnchor moves anchor by n periods of the given type (n may be
// negative). Month and quarter shifts step from the first of the month so
// that a day-31 anchor cannot overflow into the wrong month.
func ShiftAnchor(t PeriodType, anchor time.Time, n int) time.Time {
	anchor = DateOf(anchor)
	switch t {
	case PeriodWeek:
		return anchor.AddDate(0, 0, 7*n)
	case PeriodMonth:
		return firstOfMonth(anchor).AddDate(0, n, 0)
	case PeriodQuarter:
		return firstOfMonth(anchor).AddDate(0, 3*n, 0)
	case PeriodYear:
		return anchor.AddDate(n, 0, 0)
	}
	return anchor
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End)
}

func (p Period) StartKey() string { return FormatDateKey(p.Start) }
func (p Period) EndKey() string   { return FormatDateKey(p.End) }

// DaysBetween counts the days from start to end inclusive.
func DaysBetween(start, end time.Time) int {
	return int(DateOf(end).Sub(DateOf(start)).Hours()/24) + 1
}

// DateOf truncates t to a UTC midnight calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mondayOffset is how many days to roll back to reach the ISO week's
// Monday. Sunday counts as day 7 of the previous week.
func mondayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func firstOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
