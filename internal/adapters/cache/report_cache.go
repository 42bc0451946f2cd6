package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Lynn3t/my-takeoff-2026/internal/core/domain"
)

const (
	reportTTL  = 7 * 24 * time.Hour
	summaryTTL = 24 * time.Hour
)

// RedisReportCache keeps rendered reports and year summaries in Redis.
// Cache failures are logged and absorbed: the caller recomputes, never
// errors.
type RedisReportCache struct {
	rdb *redis.Client
}

func NewRedisReportCache(rdb *redis.Client) *RedisReportCache {
	return &RedisReportCache{rdb: rdb}
}

func reportKey(userID string, reportType domain.PeriodType, periodKey string) string {
	return fmt.Sprintf("report:%s:%s:%s", userID, reportType, periodKey)
}

func summaryKey(userID string, year int) string {
	return fmt.Sprintf("summary:%s:%d", userID, year)
}

func (c *RedisReportCache) GetReport(ctx context.Context, userID string, reportType domain.PeriodType, periodKey string) (string, bool) {
	val, err := c.rdb.Get(ctx, reportKey(userID, reportType, periodKey)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("report cache read error")
		}
		return "", false
	}
	return val, true
}

func (c *RedisReportCache) SetReport(ctx context.Context, userID string, reportType domain.PeriodType, periodKey, report string) {
	if err := c.rdb.Set(ctx, reportKey(userID, reportType, periodKey), report, reportTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("report cache write error")
	}
}

func (c *RedisReportCache) SetYearSummary(ctx context.Context, userID string, year int, summary domain.StatsSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, summaryKey(userID, year), data, summaryTTL).Err()
}

func (c *RedisReportCache) GetYearSummary(ctx context.Context, userID string, year int) (domain.StatsSummary, bool) {
	val, err := c.rdb.Get(ctx, summaryKey(userID, year)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("summary cache read error")
		}
		return domain.StatsSummary{}, false
	}

	var summary domain.StatsSummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		log.Warn().Str("user_id", userID).Msg("corrupted summary cache entry, dropping key")
		c.rdb.Del(ctx, summaryKey(userID, year))
		return domain.StatsSummary{}, false
	}
	return summary, true
}
