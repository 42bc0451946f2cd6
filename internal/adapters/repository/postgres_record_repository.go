package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

type PostgresRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

func (r *PostgresRecordRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	query := `
		INSERT INTO takeoff_logs (user_id, date_key, count, created_at, updated_at)
		VALUES (:user_id, :date_key, :count, :created_at, :updated_at)
		ON CONFLICT (user_id, date_key)
		DO UPDATE SET count = EXCLUDED.count, updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return errors.New("referenced user does not exist")
		}
		return err
	}
	return nil
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, userID, dateKey string) error {
	query := `DELETE FROM takeoff_logs WHERE user_id = $1 AND date_key = $2`

	result, err := r.db.ExecContext(ctx, query, userID, dateKey)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *PostgresRecordRepository) Exists(ctx context.Context, userID, dateKey string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM takeoff_logs WHERE user_id = $1 AND date_key = $2`, userID, dateKey)
	return count > 0, err
}

func (r *PostgresRecordRepository) MapByRange(ctx context.Context, userID, startKey, endKey string) (map[string]int, error) {
	rows := []struct {
		DateKey string `db:"date_key"`
		Count   int    `db:"count"`
	}{}

	query := `
		SELECT date_key, count FROM takeoff_logs
		WHERE user_id = $1
		  AND date_key >= $2
		  AND date_key <= $3
		ORDER BY date_key`

	if err := r.db.SelectContext(ctx, &rows, query, userID, startKey, endKey); err != nil {
		return nil, err
	}

	records := make(map[string]int, len(rows))
	for _, row := range rows {
		records[row.DateKey] = row.Count
	}
	return records, nil
}

func (r *PostgresRecordRepository) ListByRange(ctx context.Context, userID, startKey, endKey string) ([]*domain.DailyRecord, error) {
	records := []*domain.DailyRecord{}

	query := `
		SELECT * FROM takeoff_logs
		WHERE user_id = $1
		  AND date_key >= $2
		  AND date_key <= $3
		ORDER BY date_key`

	if err := r.db.SelectContext(ctx, &records, query, userID, startKey, endKey); err != nil {
		return nil, err
	}
	return records, nil
}
