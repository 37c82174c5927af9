// Package ratelimit implements a fixed-window request limiter backed by
// Redis, with an in-process fallback for single-node deployments.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/evalia-hr/evalia/internal/clock"
	"github.com/evalia-hr/evalia/internal/config"
)

// Limiter answers whether one more request from a key fits inside the
// current window.
type Limiter interface {
	// Allow returns false with a retry-after hint when the key has
	// exhausted its window.
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

var Module = fx.Module("ratelimit",
	fx.Provide(New),
)

func New(log *zap.Logger, cfg config.Config, clk clock.Clock) Limiter {
	if !cfg.RateLimit.Enabled {
		return &noopLimiter{}
	}
	if cfg.RateLimit.RedisAddr != "" {
		return &redisLimiter{
			log:    log.Named("ratelimit"),
			client: redis.NewClient(&redis.Options{Addr: cfg.RateLimit.RedisAddr}),
			window: cfg.RateLimit.Window,
			max:    cfg.RateLimit.Max,
		}
	}
	return &memoryLimiter{
		clock:   clk,
		window:  cfg.RateLimit.Window,
		max:     cfg.RateLimit.Max,
		windows: make(map[string]*window),
	}
}

type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (bool, time.Duration) { return true, 0 }

type redisLimiter struct {
	log    *zap.Logger
	client *redis.Client
	window time.Duration
	max    int
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// Fail open: an unreachable Redis must not take login down.
		l.log.Warn("rate limit counter unavailable", zap.Error(err))
		return true, 0
	}
	if count == 1 {
		l.client.PExpire(ctx, redisKey, l.window)
	}
	if count > int64(l.max) {
		ttl, err := l.client.PTTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl
	}
	return true, 0
}

type window struct {
	start time.Time
	count int
}

type memoryLimiter struct {
	mu      sync.Mutex
	clock   clock.Clock
	window  time.Duration
	max     int
	windows map[string]*window
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.windows[key] = &window{start: now, count: 1}
		return true, 0
	}

	w.count++
	if w.count > l.max {
		return false, l.window - now.Sub(w.start)
	}
	return true, 0
}
