// internal/common/inflight/redis.go
package inflight

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"partner-evaluator/internal/common/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// NewRedisClient creates a redis client from config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})
}

// RedisGuard shares the single slot between processes through one redis key.
// The TTL bounds how long a crashed holder can block others; 0 disables expiry.
type RedisGuard struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisGuard(client *redis.Client, key string, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, key: key, ttl: ttl}
}

// Ping tests the redis connection
func (g *RedisGuard) Ping(ctx context.Context) error {
	if err := g.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (g *RedisGuard) Acquire(ctx context.Context, attemptID string) (ReleaseFunc, error) {
	token := attemptID + "/" + uuid.NewString()

	ok, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", g.key, err)
	}
	if !ok {
		holder, err := g.client.Get(ctx, g.key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %v", ErrBusy, err)
		}
		return nil, fmt.Errorf("%w: held by %s", ErrBusy, holder)
	}

	var (
		once       sync.Once
		releaseErr error
	)
	return func(ctx context.Context) error {
		once.Do(func() {
			if err := releaseScript.Run(ctx, g.client, []string{g.key}, token).Err(); err != nil {
				releaseErr = fmt.Errorf("release %s: %w", g.key, err)
			}
		})
		return releaseErr
	}, nil
}

// Close closes the redis connection
func (g *RedisGuard) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// New builds the guard selected by cfg.InFlight.Backend.
func New(cfg *config.Config) (Guard, error) {
	switch cfg.InFlight.Backend {
	case "", config.InFlightLocal:
		return NewLocalGuard(), nil
	case config.InFlightRedis:
		return NewRedisGuard(NewRedisClient(cfg.Redis), cfg.InFlight.Key, config.GetDuration(cfg.InFlight.TTL)), nil
	default:
		return nil, fmt.Errorf("unknown inflight backend %q", cfg.InFlight.Backend)
	}
}
