package lock

import (
	"context"
	"time"

	"transport-payroll/pkg/id"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose TTL lapsed cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type PeriodLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPeriodLocker(rdb *redis.Client, ttl time.Duration) *PeriodLocker {
	return &PeriodLocker{rdb: rdb, ttl: ttl}
}

func periodKey(periodID string) string { return "lock:salary:period:" + periodID }

func (l *PeriodLocker) Acquire(ctx context.Context, periodID string) (func(context.Context) error, bool, error) {
	key := periodKey(periodID)
	token := id.NewID32()
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	release := func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.rdb, []string{key}, token).Err()
	}
	return release, true, nil
}
