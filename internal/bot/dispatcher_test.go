package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	"github.com/arachnolog/broodkeeper/pkg/config"
)

func TestEveryActionHasAHandler(t *testing.T) {
	cfg := config.Config{
		Bot: config.BotConfig{Token: "test-token", Offline: true},
	}

	deps := Deps{
		Conversations: conversation.NewManager(conversation.NewMemoryStorage(), testLogger()),
	}

	b, err := New(cfg, testLogger(), deps)
	require.NoError(t, err)

	registered := b.dispatcher.Registered()
	require.ElementsMatch(t, action.Tags(), registered)
}

func TestDispatchDecodesFieldsAndAcks(t *testing.T) {
	d := NewDispatcher(testLogger())

	var got action.Action
	d.Register(action.ColonyCountUpdate{}.Tag(), func(c telebot.Context, a action.Action) error {
		got = a
		return nil
	})

	c := newFakeContext()
	c.callback = &telebot.Callback{Data: "colony_count_update_42_-5"}

	require.NoError(t, d.Dispatch(c))
	require.Equal(t, 1, c.responded)
	require.Equal(t, action.ColonyCountUpdate{ColonyID: 42, Delta: -5}, got)
}

func TestDispatchZeroFieldAction(t *testing.T) {
	d := NewDispatcher(testLogger())

	var called bool
	d.Register(action.MainMenu{}.Tag(), func(c telebot.Context, a action.Action) error {
		called = true
		require.IsType(t, action.MainMenu{}, a)
		return nil
	})

	c := newFakeContext()
	c.callback = &telebot.Callback{Data: "main_menu"}

	require.NoError(t, d.Dispatch(c))
	require.True(t, called)
}

func TestDispatchRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown tag", "open_the_pod_bay_doors"},
		{"wrong arity", "feed_confirm_1_2"},
		{"bad field", "health_status_3_critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(testLogger())
			d.Register(action.FeedConfirm{}.Tag(), func(c telebot.Context, a action.Action) error {
				t.Fatal("handler must not run for malformed payload")
				return nil
			})

			c := newFakeContext()
			c.callback = &telebot.Callback{Data: tt.data}

			require.NoError(t, d.Dispatch(c))
			require.Equal(t, 1, c.responded)
			require.Len(t, c.sent, 1)
			require.True(t, strings.Contains(c.sent[0], "/menu"))
		})
	}
}

func TestDispatchUnregisteredTag(t *testing.T) {
	d := NewDispatcher(testLogger())

	c := newFakeContext()
	c.callback = &telebot.Callback{Data: "main_menu"}

	require.NoError(t, d.Dispatch(c))
	require.Len(t, c.sent, 1)
}
