package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const pollInterval = 25 * time.Millisecond

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every instance pointing at the same Redis.
type RedisLocker struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	log     *zap.Logger
}

// NewRedisLocker builds a locker whose keys expire after ttl. The lock is not
// extended while held, so ttl must cover the acquire timeout plus the longest
// expected transaction; a shorter ttl is logged at construction.
func NewRedisLocker(client *redis.Client, ttl, timeout time.Duration, log *zap.Logger) *RedisLocker {
	log = log.With(zap.String("locker", "redis"))
	if ttl <= timeout {
		log.Warn("Lock TTL does not exceed the acquire timeout, held locks may lapse mid-transaction",
			zap.Duration("ttl", ttl),
			zap.Duration("timeout", timeout),
		)
	}
	return &RedisLocker{
		client:  client,
		prefix:  "lock:trip:",
		ttl:     ttl,
		timeout: timeout,
		log:     log,
	}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.NewString()

	acquireCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(acquireCtx, redisKey, token, l.ttl).Result()
		if err != nil && acquireCtx.Err() == nil {
			return nil, fmt.Errorf("acquire %s: %w", redisKey, err)
		}
		if ok {
			break
		}

		select {
		case <-acquireCtx.Done():
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrTimeout
		case <-ticker.C:
		}
	}

	acquired := time.Now()
	return func() {
		// release must run even when the request context is already done
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		deleted, err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Int()
		if err != nil {
			l.log.Warn("Failed to release lock",
				zap.String("key", redisKey),
				zap.Error(err),
			)
			return
		}
		if deleted == 0 {
			// the key expired, or another holder took it after expiry
			l.log.Warn("Lock expired before release",
				zap.String("key", redisKey),
				zap.Duration("held", time.Since(acquired)),
				zap.Duration("ttl", l.ttl),
			)
		}
	}, nil
}
