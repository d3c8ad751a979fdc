package inflight

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"partner-evaluator/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func guards(t *testing.T) map[string]Guard {
	_, client := setupRedis(t)
	return map[string]Guard{
		"local": NewLocalGuard(),
		"redis": NewRedisGuard(client, "test:inflight", time.Minute),
	}
}

// ==========================
// Shared Behaviour
// ==========================

func TestGuard_SingleSlot(t *testing.T) {
	ctx := context.Background()
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			release, err := g.Acquire(ctx, "attempt-1")
			require.NoError(t, err)

			_, err = g.Acquire(ctx, "attempt-2")
			require.ErrorIs(t, err, ErrBusy)
			assert.Contains(t, err.Error(), "attempt-1")

			require.NoError(t, release(ctx))
			require.NoError(t, release(ctx), "release is idempotent")

			release2, err := g.Acquire(ctx, "attempt-2")
			require.NoError(t, err)
			require.NoError(t, release2(ctx))
		})
	}
}

func TestGuard_ConcurrentAcquire(t *testing.T) {
	ctx := context.Background()
	for name, g := range guards(t) {
		t.Run(name, func(t *testing.T) {
			var (
				wg       sync.WaitGroup
				admitted atomic.Int32
				releases = make(chan ReleaseFunc, 10)
			)
			for i := 0; i < 10; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if release, err := g.Acquire(ctx, "attempt"); err == nil {
						admitted.Add(1)
						releases <- release
					}
				}()
			}
			wg.Wait()
			close(releases)

			assert.Equal(t, int32(1), admitted.Load())
			for release := range releases {
				require.NoError(t, release(ctx))
			}
		})
	}
}

// ==========================
// Redis Specifics
// ==========================

func TestRedisGuard_StaleReleaseKeepsNewHolder(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	g := NewRedisGuard(client, "test:inflight", time.Second)

	release, err := g.Acquire(ctx, "attempt-1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	release2, err := g.Acquire(ctx, "attempt-2")
	require.NoError(t, err, "expired lease frees the slot")

	require.NoError(t, release(ctx))
	_, err = g.Acquire(ctx, "attempt-3")
	assert.ErrorIs(t, err, ErrBusy, "stale release must not drop the new holder")

	require.NoError(t, release2(ctx))
	assert.False(t, mr.Exists("test:inflight"))
}

func TestRedisGuard_ConnectionError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	g := NewRedisGuard(client, "test:inflight", time.Second)

	_, err = g.Acquire(context.Background(), "attempt-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)
	assert.Error(t, g.Ping(context.Background()))
}

func TestLocalGuard_Holder(t *testing.T) {
	g := NewLocalGuard()
	_, held := g.Holder()
	assert.False(t, held)

	release, err := g.Acquire(context.Background(), "attempt-1")
	require.NoError(t, err)
	holder, held := g.Holder()
	assert.True(t, held)
	assert.Equal(t, "attempt-1", holder)
	require.NoError(t, release(context.Background()))
}

func TestNew(t *testing.T) {
	mr, _ := setupRedis(t)

	g, err := New(&config.Config{InFlight: config.InFlightConfig{Backend: config.InFlightLocal}})
	require.NoError(t, err)
	assert.IsType(t, &LocalGuard{}, g)

	g, err = New(&config.Config{
		InFlight: config.InFlightConfig{Backend: config.InFlightRedis, Key: "k", TTL: 1000},
		Redis:    config.RedisConfig{Address: mr.Addr()},
	})
	require.NoError(t, err)
	rg, ok := g.(*RedisGuard)
	require.True(t, ok)
	assert.NoError(t, rg.Ping(context.Background()))
	assert.Equal(t, time.Second, rg.ttl)
	require.NoError(t, rg.Close())

	_, err = New(&config.Config{InFlight: config.InFlightConfig{Backend: "etcd"}})
	assert.Error(t, err)
}
