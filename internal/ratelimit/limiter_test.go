package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLimiterAllowsWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow("user:1"))
	}

	err := l.Allow("user:1")
	require.True(t, errors.Is(err, ErrLimitExceeded))
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	require.NoError(t, l.Allow("user:1"))
	require.NoError(t, l.Allow("user:2"))
	require.Error(t, l.Allow("user:1"))
}

func TestLimiterWindowSlides(t *testing.T) {
	l := New(2, 10*time.Millisecond)

	require.NoError(t, l.Allow("user:1"))
	require.NoError(t, l.Allow("user:1"))
	require.Error(t, l.Allow("user:1"))

	time.Sleep(15 * time.Millisecond)

	require.NoError(t, l.Allow("user:1"))
}

func TestLimiterCleanup(t *testing.T) {
	l := New(1, time.Millisecond)

	require.NoError(t, l.Allow("user:1"))
	time.Sleep(5 * time.Millisecond)

	require.Equal(t, 1, l.Cleanup(time.Millisecond))

	l.mu.Lock()
	_, ok := l.buckets["user:1"]
	l.mu.Unlock()
	require.False(t, ok)
}
