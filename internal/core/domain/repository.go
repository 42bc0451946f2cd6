package domain

import "context"

type UserRepository interface {
	// Create persists a new user. Fails with ErrUsernameTaken on duplicates.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by its login name.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// List returns every user, oldest first.
	List(ctx context.Context) ([]*User, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Delete permanently removes a user.
	Delete(ctx context.Context, id string) error
}

type RecordRepository interface {
	// Upsert inserts the record or overwrites the count for an existing
	// (user, date) pair. Idempotent for identical inputs.
	Upsert(ctx context.Context, record *DailyRecord) error

	// Delete removes the row for (user, date). ErrRecordNotFound when absent.
	Delete(ctx context.Context, userID, dateKey string) error

	// Exists reports whether a row is present for (user, date).
	Exists(ctx context.Context, userID, dateKey string) (bool, error)

	// MapByRange returns date key -> count for rows in [startKey, endKey].
	// Dates without rows are simply absent from the map.
	MapByRange(ctx context.Context, userID, startKey, endKey string) (map[string]int, error)

	// ListByRange returns full rows in [startKey, endKey], ordered by date.
	ListByRange(ctx context.Context, userID, startKey, endKey string) ([]*DailyRecord, error)
}

type ViewedMarkerRepository interface {
	// Mark records that the report for (user, type, periodKey) was opened.
	// Idempotent: marking an already-marked period is a no-op.
	Mark(ctx context.Context, userID string, reportType PeriodType, periodKey string) error

	// IsViewed reports whether the marker exists.
	IsViewed(ctx context.Context, userID string, reportType PeriodType, periodKey string) (bool, error)
}
