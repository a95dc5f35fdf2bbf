package ratelimit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanerDropsIdleBuckets(t *testing.T) {
	l := New(5, time.Millisecond)
	require.NoError(t, l.Allow("user:1"))
	require.NoError(t, l.Allow("user:2"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCleaner(l, testLogger(), time.Millisecond, 2*time.Millisecond)
	go c.Run(ctx)

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.buckets) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestCleanerKeepsActiveBuckets(t *testing.T) {
	l := New(5, time.Minute)
	require.NoError(t, l.Allow("user:1"))

	removed := l.Cleanup(time.Minute)
	require.Zero(t, removed)

	l.mu.Lock()
	_, ok := l.buckets["user:1"]
	l.mu.Unlock()
	require.True(t, ok)
}
