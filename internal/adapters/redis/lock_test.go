package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	require.NoError(t, PingRedis(context.Background(), client))
	return client, mr
}

func newTestLocker(client *redis.Client, ttl time.Duration) *Locker {
	return NewLocker(LockerParams{
		RedisClient:  client,
		TTL:          ttl,
		PollInterval: 5 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
}

func TestLocker_LockAndRelease(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := newTestLocker(client, time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "auction:1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:auction:1"))

	unlock()
	assert.False(t, mr.Exists("lock:auction:1"))

	// releasing twice is harmless
	unlock()
}

func TestLocker_BlocksUntilContextDone(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := newTestLocker(client, time.Minute)

	unlock, err := locker.Lock(context.Background(), "deal:1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "deal:1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_DistinctKeysDoNotContend(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := newTestLocker(client, time.Minute)
	ctx := context.Background()

	first, err := locker.Lock(ctx, "deal:1")
	require.NoError(t, err)
	defer first()

	second, err := locker.Lock(ctx, "deal:2")
	require.NoError(t, err)
	second()
}

func TestLocker_StaleTokenDoesNotReleaseNewHolder(t *testing.T) {
	client, mr := setupTestRedis(t)
	locker := newTestLocker(client, time.Second)
	ctx := context.Background()

	stale, err := locker.Lock(ctx, "transaction:1")
	require.NoError(t, err)

	// the first holder's lease runs out and someone else takes the key
	mr.FastForward(2 * time.Second)
	fresh, err := locker.Lock(ctx, "transaction:1")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("lock:transaction:1"), "stale release must not drop the new holder")

	fresh()
	assert.False(t, mr.Exists("lock:transaction:1"))
}

func TestLocker_MutualExclusion(t *testing.T) {
	client, _ := setupTestRedis(t)
	locker := newTestLocker(client, 5*time.Second)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "payment-user:1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(2 * time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}
