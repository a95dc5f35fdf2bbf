package conversation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_MoltSizeFlow(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 7, KindMoltSize, 3))

	outcome, err := m.Resolve(ctx, 7, "abc")
	require.NoError(t, err)
	assert.Equal(t, StatusRetry, outcome.Status)
	assert.Equal(t, KindMoltSize.Reprompt(), outcome.Reprompt)

	// the failed attempt must not consume the pending entry
	outcome, err = m.Resolve(ctx, 7, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, int64(3), outcome.Pending.Ref)
	assert.Equal(t, 12.5, outcome.Value.Decimal)

	outcome, err = m.Resolve(ctx, 7, "anything")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, outcome.Status)
}

func TestManager_ColonyDeltaFlow(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 9, KindColonyDelta, 42))

	tests := []struct {
		text      string
		wantDelta int64
		ok        bool
	}{
		{text: "five", ok: false},
		{text: "1.5", ok: false},
		{text: "+5", wantDelta: 5, ok: true},
	}

	for _, tt := range tests {
		outcome, err := m.Resolve(ctx, 9, tt.text)
		require.NoError(t, err)

		if !tt.ok {
			assert.Equal(t, StatusRetry, outcome.Status, "input %q", tt.text)
			continue
		}

		assert.Equal(t, StatusCompleted, outcome.Status)
		assert.Equal(t, int64(42), outcome.Pending.Ref)
		assert.Equal(t, tt.wantDelta, outcome.Value.Delta)
	}
}

func TestManager_ResolveNegativeDelta(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 4, KindColonyDelta, 11))

	outcome, err := m.Resolve(ctx, 4, " -3 ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, int64(-3), outcome.Value.Delta)
}

func TestManager_BeginOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 5, KindMoltSize, 1))
	require.NoError(t, m.Begin(ctx, 5, KindColonyDelta, 2))

	outcome, err := m.Resolve(ctx, 5, "10")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Equal(t, KindColonyDelta, outcome.Pending.Kind)
	assert.Equal(t, int64(2), outcome.Pending.Ref)
}

func TestManager_Exit(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 6, KindMoltSize, 1))
	require.NoError(t, m.Exit(ctx, 6))

	outcome, err := m.Resolve(ctx, 6, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, outcome.Status)

	// exit with nothing pending is a no-op
	require.NoError(t, m.Exit(ctx, 6))
}

func TestManager_ChatsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStorage(), testLogger())

	require.NoError(t, m.Begin(ctx, 1, KindMoltSize, 10))

	outcome, err := m.Resolve(ctx, 2, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusNone, outcome.Status)

	outcome, err = m.Resolve(ctx, 1, "12.5")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, outcome.Status)
}
