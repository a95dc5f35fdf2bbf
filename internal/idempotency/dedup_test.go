package idempotency

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arachnolog/broodkeeper/pkg/redis"
)

func setupDedup(t *testing.T) (*Deduplicator, *miniredis.Miniredis) {
	t.Helper()

	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	client := &redis.Client{Client: goredis.NewClient(&goredis.Options{Addr: srv.Addr()})}
	t.Cleanup(func() { _ = client.Close() })

	return NewDeduplicator(client, slog.New(slog.NewTextHandler(io.Discard, nil))), srv
}

func TestSeenFirstTapWins(t *testing.T) {
	d, _ := setupDedup(t)
	ctx := context.Background()

	require.False(t, d.Seen(ctx, "cb-123"))
	require.True(t, d.Seen(ctx, "cb-123"))
	require.True(t, d.Seen(ctx, "cb-123"))
}

func TestSeenDistinctCallbacks(t *testing.T) {
	d, _ := setupDedup(t)
	ctx := context.Background()

	require.False(t, d.Seen(ctx, "cb-1"))
	require.False(t, d.Seen(ctx, "cb-2"))
}

func TestSeenClaimExpires(t *testing.T) {
	d, srv := setupDedup(t)
	ctx := context.Background()

	require.False(t, d.Seen(ctx, "cb-1"))
	srv.FastForward(defaultTTL + time.Second)
	require.False(t, d.Seen(ctx, "cb-1"))
}

func TestSeenEmptyIDNeverSuppressed(t *testing.T) {
	d, _ := setupDedup(t)
	ctx := context.Background()

	require.False(t, d.Seen(ctx, ""))
	require.False(t, d.Seen(ctx, ""))
}

func TestSeenFailsOpenWhenRedisDown(t *testing.T) {
	d, srv := setupDedup(t)
	srv.Close()

	require.False(t, d.Seen(context.Background(), "cb-1"))
}
