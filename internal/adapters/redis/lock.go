package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockKeyPrefix       = "lock:"
	defaultLockTTL      = 10 * time.Second
	defaultPollInterval = 20 * time.Millisecond
)

// releaseScript deletes the lock only while it still carries the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements outbound.Locker with SET NX PX so every engine instance
// sharing the Redis server observes the same serialization domains.
type Locker struct {
	client       *redis.Client
	ttl          time.Duration
	pollInterval time.Duration
	logger       zerolog.Logger
}

type LockerParams struct {
	RedisClient  *redis.Client
	TTL          time.Duration
	PollInterval time.Duration
	Logger       zerolog.Logger
}

var _ outbound.Locker = (*Locker)(nil)

// NewLocker creates a Redis-backed locker
func NewLocker(params LockerParams) *Locker {
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	poll := params.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Locker{
		client:       params.RedisClient,
		ttl:          ttl,
		pollInterval: poll,
		logger:       params.Logger.With().Str("component", "redis_locker").Logger(),
	}
}

// Lock polls until key is acquired or ctx is done. The lock expires after the
// configured TTL if the holder never releases it.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// release even when the caller's context is already cancelled
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.logger.Error().Err(err).Str("key", key).Msg("Failed to release lock")
			}
		})
	}, nil
}
