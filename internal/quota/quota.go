package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Neogulmanpassingby/2025fall-41class-team3/pkg/errors"
)

// DefaultDailyLimit is how many recommendation requests a member gets per day.
const DefaultDailyLimit = 10

// DailyQuota counts per-user requests in Redis. Counters are keyed by user
// and UTC date and expire on their own, so no cleanup job is needed.
type DailyQuota struct {
	client *redis.Client
	prefix string
	limit  int64
}

// NewDailyQuota creates a quota gate with the given per-day limit.
func NewDailyQuota(client *redis.Client, prefix string, limit int64) *DailyQuota {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &DailyQuota{
		client: client,
		prefix: prefix,
		limit:  limit,
	}
}

// Allow consumes one unit of today's quota for the user. When the quota is
// exhausted the counter is left at the limit and ErrQuotaExceeded is returned.
func (q *DailyQuota) Allow(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	key := q.key(userID, now)

	count, err := q.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("increment quota counter: %w", err)
	}

	if count == 1 {
		// First request today; expire the counter at midnight UTC.
		if err := q.client.ExpireAt(ctx, key, endOfDay(now)).Err(); err != nil {
			return fmt.Errorf("set quota expiry: %w", err)
		}
	}

	if count > q.limit {
		if err := q.client.Decr(ctx, key).Err(); err != nil {
			return fmt.Errorf("release quota unit: %w", err)
		}
		return apperrors.QuotaExceeded(fmt.Sprintf("daily limit of %d requests reached", q.limit))
	}

	return nil
}

// Remaining reports how many requests the user has left today.
func (q *DailyQuota) Remaining(ctx context.Context, userID string) (int64, error) {
	count, err := q.client.Get(ctx, q.key(userID, time.Now().UTC())).Int64()
	if err != nil {
		if err == redis.Nil {
			return q.limit, nil
		}
		return 0, fmt.Errorf("read quota counter: %w", err)
	}

	remaining := q.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (q *DailyQuota) key(userID string, now time.Time) string {
	return fmt.Sprintf("%s:quota:%s:%s", q.prefix, userID, now.Format("2006-01-02"))
}

func endOfDay(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
}
