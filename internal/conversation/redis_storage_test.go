package conversation

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	srv, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisStorage_SetAndGet(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	err := storage.Set(ctx, 123, &Pending{Kind: KindMoltSize, Ref: 7})
	require.NoError(t, err)

	pending, err := storage.Get(ctx, 123)
	require.NoError(t, err)
	assert.Equal(t, int64(123), pending.ChatID)
	assert.Equal(t, KindMoltSize, pending.Kind)
	assert.Equal(t, int64(7), pending.Ref)
	assert.False(t, pending.UpdatedAt.IsZero())
}

func TestRedisStorage_GetNotFound(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())

	pending, err := storage.Get(context.Background(), 999)
	assert.Nil(t, pending)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage_Clear(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, 456, &Pending{Kind: KindColonyDelta, Ref: 2}))
	require.NoError(t, storage.Clear(ctx, 456))

	_, err := storage.Get(ctx, 456)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorage_All(t *testing.T) {
	storage := NewRedisStorage(setupTestRedis(t), testLogger())
	ctx := context.Background()

	require.NoError(t, storage.Set(ctx, 1, &Pending{Kind: KindMoltSize, Ref: 10}))
	require.NoError(t, storage.Set(ctx, 2, &Pending{Kind: KindColonyDelta, Ref: 20}))

	entries, err := storage.All(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestManagerWithRedisStorage(t *testing.T) {
	m := NewManager(NewRedisStorage(setupTestRedis(t), testLogger()), testLogger())
	ctx := context.Background()

	require.NoError(t, m.Begin(ctx, 7, KindMoltSize, 3))

	outcome, err := m.Resolve(ctx, 7, "not a number")
	require.NoError(t, err)
	assert.Equal(t, StatusRetry, outcome.Status)

	outcome, err = m.Resolve(ctx, 7, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, 12.5, outcome.Value.Decimal)

	outcome, err = m.Resolve(ctx, 7, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, outcome.Status)
}
