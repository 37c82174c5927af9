package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evalia-hr/evalia/internal/clock"
	"github.com/evalia-hr/evalia/internal/config"
)

func TestMemoryLimiterWindow(t *testing.T) {
	fake := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l := &memoryLimiter{
		clock:   fake,
		window:  time.Minute,
		max:     3,
		windows: make(map[string]*window),
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow(ctx, "1.2.3.4")
		require.True(t, allowed, "request %d", i)
	}

	allowed, retryAfter := l.Allow(ctx, "1.2.3.4")
	require.False(t, allowed)
	require.Greater(t, retryAfter, time.Duration(0))

	// Another key is unaffected.
	allowed, _ = l.Allow(ctx, "5.6.7.8")
	require.True(t, allowed)

	// The counter resets when the window rolls over.
	fake.Advance(time.Minute)
	allowed, _ = l.Allow(ctx, "1.2.3.4")
	require.True(t, allowed)
}

func TestNewDisabled(t *testing.T) {
	cfg := config.Config{}
	cfg.RateLimit.Enabled = false

	l := New(zap.NewNop(), cfg, clock.NewSystemClock())
	allowed, _ := l.Allow(context.Background(), "anyone")
	require.True(t, allowed)
}
