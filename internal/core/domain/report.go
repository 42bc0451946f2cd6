package domain

import "errors"

var (
	ErrNarrativeNotConfigured = errors.New("narrative service is not configured")
	ErrNarrativeTimeout       = errors.New("narrative service timed out")
	ErrNarrativeUnavailable   = errors.New("narrative service request failed")
	ErrNarrativeBadResponse   = errors.New("narrative service returned a malformed response")
)

// PendingReport is a completed period whose report the user has not opened
// yet.
type PendingReport struct {
	Type      PeriodType `json:"type"`
	PeriodKey string     `json:"period_key"`
	Label     string     `json:"label"`
}

// TrendPeriod pairs a prior period's label with its raw summary. No
// cross-period deltas are computed here; the narrative stage draws its own
// comparisons.
type TrendPeriod struct {
	Label string       `json:"label"`
	Stats StatsSummary `json:"stats"`
}

// PartialInfo discloses that a report covers the current, not-yet-complete
// period: statistics ran over ActualDataDays of the FullPeriodDays span.
type PartialInfo struct {
	ActualDataDays int `json:"actual_data_days"`
	FullPeriodDays int `json:"full_period_days"`
}
