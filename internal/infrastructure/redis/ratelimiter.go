package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/real-time-ressys/services/community-service/internal/domain"
)

// FixedWindowLimiter counts hits per key with INCR and expires the key at the
// end of the window. A nil client fails open.
type FixedWindowLimiter struct {
	rdb *goredis.Client
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	if c == nil {
		return &FixedWindowLimiter{}
	}
	return &FixedWindowLimiter{rdb: c.rdb}
}

const windowLua = `
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {c, ttl}
`

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateDecision, error) {
	if limit <= 0 || l.rdb == nil {
		return domain.RateDecision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}, nil
	}
	if window < time.Second {
		window = time.Minute
	}

	res, err := l.rdb.Eval(ctx, windowLua, []string{key}, window.Milliseconds()).Result()
	if err != nil {
		return domain.RateDecision{}, fmt.Errorf("ratelimit eval: %w", err)
	}
	arr, ok := res.([]any)
	if !ok || len(arr) != 2 {
		return domain.RateDecision{}, fmt.Errorf("ratelimit eval: unexpected result %T", res)
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	d := domain.RateDecision{
		Allowed:   int(count) <= limit,
		Limit:     limit,
		Remaining: max(limit-int(count), 0),
		Count:     int(count),
	}
	if !d.Allowed {
		d.RetryAfter = window
		if ttl > 0 {
			d.RetryAfter = time.Duration(ttl) * time.Millisecond
		}
	}
	return d, nil
}
