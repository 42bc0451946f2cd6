package domain

import "time"

// The product's day boundary is defined in UTC+8 regardless of where the
// server runs.
var ZoneUTC8 = time.FixedZone("UTC+8", 8*60*60)

// Clock supplies the current instant. Services take it injected so period
// logic stays deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func NewSystemClock() Clock { return systemClock{} }

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time { return c.Instant }

// TodayUTC8 is the current calendar date as observed in UTC+8, returned as
// a UTC midnight so it composes with the rest of the date arithmetic.
func TodayUTC8(clock Clock) time.Time {
	y, m, d := clock.Now().In(ZoneUTC8).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NowUTC8ISO renders the current UTC+8 wall time in RFC 3339 for prompts.
func NowUTC8ISO(clock Clock) string {
	return clock.Now().In(ZoneUTC8).Format("2006-01-02T15:04:05+08:00")
}
