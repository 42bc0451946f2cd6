package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

type PostgresViewedMarkerRepository struct {
	db *sqlx.DB
}

func NewPostgresViewedMarkerRepository(db *sqlx.DB) *PostgresViewedMarkerRepository {
	return &PostgresViewedMarkerRepository{db: db}
}

// Mark is an idempotent upsert: concurrent duplicate submissions for the
// same (user, type, period) all succeed and leave one row.
func (r *PostgresViewedMarkerRepository) Mark(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) error {
	query := `
		INSERT INTO report_viewed (user_id, report_type, period_key, viewed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, report_type, period_key) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, string(reportType), periodKey, time.Now().UTC())
	return err
}

func (r *PostgresViewedMarkerRepository) IsViewed(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM report_viewed WHERE user_id = $1 AND report_type = $2 AND period_key = $3`,
		userID, string(reportType), periodKey)
	return count > 0, err
}
