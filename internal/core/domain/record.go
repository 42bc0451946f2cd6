package domain

import (
	"errors"
	"time"
)

var (
	ErrRecordNotFound  = errors.New("daily record not found")
	ErrInvalidDateKey  = errors.New("invalid date key (expected YYYY-MM-DD)")
	ErrNegativeCount   = errors.New("daily count cannot be negative")
	ErrCountTooLarge   = errors.New("daily count cannot exceed 5")
	ErrFutureDate      = errors.New("cannot record a future date")
	ErrInvalidRecordID = errors.New("invalid record user id")
)

// DateKeyLayout is the canonical wire and storage format for calendar dates.
const DateKeyLayout = "2006-01-02"

// MaxDailyCount caps a single day's count. The calendar UI offers 0..5.
const MaxDailyCount = 5

// DailyRecord is one user's count for one calendar day. Absence of a row is
// only distinct from an explicit 0 at the edit layer; aggregation treats
// both as zero.
type DailyRecord struct {
	UserID    string    `json:"user_id" db:"user_id"`
	DateKey   string    `json:"date_key" db:"date_key"`
	Count     int       `json:"count" db:"count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewDailyRecord(userID, dateKey string, count int) (*DailyRecord, error) {
	if userID == "" {
		return nil, ErrInvalidRecordID
	}
	if _, err := ParseDateKey(dateKey); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, ErrNegativeCount
	}
	if count > MaxDailyCount {
		return nil, ErrCountTooLarge
	}

	now := time.Now().UTC()
	return &DailyRecord{
		UserID:    userID,
		DateKey:   dateKey,
		Count:     count,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ParseDateKey parses a YYYY-MM-DD key into a UTC midnight date.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, key)
	if err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	return t, nil
}

// FormatDateKey renders a date as its YYYY-MM-DD key.
func FormatDateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}
