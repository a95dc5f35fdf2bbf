package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/handlers"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
)

func newTestRouter(t *testing.T) (*Router, *conversation.Manager) {
	t.Helper()

	manager := conversation.NewManager(conversation.NewMemoryStorage(), testLogger())
	return NewRouter(NewDispatcher(testLogger()), manager, testLogger()), manager
}

func TestRouteCommand(t *testing.T) {
	r, _ := newTestRouter(t)

	var called bool
	r.RegisterCommand("/help", func(c telebot.Context) error {
		called = true
		return nil
	})

	c := newFakeContext()
	c.text = "/help"

	require.NoError(t, r.Route(c))
	require.True(t, called)
}

func TestRouteCommandWithBotSuffix(t *testing.T) {
	r, _ := newTestRouter(t)

	var called bool
	r.RegisterCommand("/start", func(c telebot.Context) error {
		called = true
		return nil
	})

	c := newFakeContext()
	c.text = "/start@broodkeeper_bot"

	require.NoError(t, r.Route(c))
	require.True(t, called)
}

func TestRouteTextCompletesConversation(t *testing.T) {
	r, manager := newTestRouter(t)

	var (
		gotPending conversation.Pending
		gotValue   conversation.Value
	)
	r.RegisterCompletion(conversation.KindMoltSize, func(c telebot.Context, p conversation.Pending, v conversation.Value) error {
		gotPending = p
		gotValue = v
		return nil
	})

	c := newFakeContext()
	require.NoError(t, manager.Begin(context.Background(), c.chat.ID, conversation.KindMoltSize, 3))

	c.text = "12.5"
	require.NoError(t, r.Route(c))

	require.Equal(t, int64(3), gotPending.Ref)
	require.Equal(t, 12.5, gotValue.Decimal)

	// The entry is cleared, so the same text now falls through to default.
	var defaulted bool
	r.SetDefault(func(c telebot.Context) error {
		defaulted = true
		return nil
	})
	require.NoError(t, r.Route(c))
	require.True(t, defaulted)
}

func TestRouteTextRepromptsOnBadInput(t *testing.T) {
	r, manager := newTestRouter(t)

	c := newFakeContext()
	require.NoError(t, manager.Begin(context.Background(), c.chat.ID, conversation.KindColonyDelta, 9))

	c.text = "a lot"
	require.NoError(t, r.Route(c))

	require.Len(t, c.sent, 1)
	require.Equal(t, conversation.KindColonyDelta.Reprompt(), c.sent[0])

	// Entry survives the failed attempt.
	c.text = "+5"
	var completed bool
	r.RegisterCompletion(conversation.KindColonyDelta, func(c telebot.Context, p conversation.Pending, v conversation.Value) error {
		completed = true
		require.Equal(t, int64(5), v.Delta)
		return nil
	})
	require.NoError(t, r.Route(c))
	require.True(t, completed)
}

func TestRouteTextWithoutPendingFallsToDefault(t *testing.T) {
	r, _ := newTestRouter(t)

	var defaulted bool
	r.SetDefault(func(c telebot.Context) error {
		defaulted = true
		return nil
	})

	c := newFakeContext()
	c.text = "hello"

	require.NoError(t, r.Route(c))
	require.True(t, defaulted)
}

func TestMiddlewareOrdering(t *testing.T) {
	r, _ := newTestRouter(t)

	var order []string
	mw := func(name string) handlers.Middleware {
		return func(next handlers.Handler) handlers.Handler {
			return func(c telebot.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	r.Use(mw("outer"))
	r.Use(mw("inner"))
	r.RegisterCommand("/cmd", func(c telebot.Context) error {
		order = append(order, "handler")
		return nil
	})

	c := newFakeContext()
	c.text = "/cmd"

	require.NoError(t, r.Route(c))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestRouteTextWithUnregisteredCompletion(t *testing.T) {
	r, manager := newTestRouter(t)

	c := newFakeContext()
	require.NoError(t, manager.Begin(context.Background(), c.chat.ID, conversation.KindMoltSize, 3))

	c.text = "12.5"
	err := r.Route(c)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "E400", appErr.Code)
}
