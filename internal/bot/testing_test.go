package bot

import (
	"fmt"
	"io"
	"log/slog"

	telebot "gopkg.in/telebot.v3"
)

// fakeContext implements the telebot.Context methods the routing stack
// touches. Anything else panics through the embedded nil interface.
type fakeContext struct {
	telebot.Context

	callback *telebot.Callback
	chat     *telebot.Chat
	sender   *telebot.User
	text     string

	sent      []string
	responded int
	store     map[string]any
}

func newFakeContext() *fakeContext {
	return &fakeContext{
		chat:   &telebot.Chat{ID: 7},
		sender: &telebot.User{ID: 7},
		store:  make(map[string]any),
	}
}

func (c *fakeContext) Callback() *telebot.Callback { return c.callback }
func (c *fakeContext) Chat() *telebot.Chat         { return c.chat }
func (c *fakeContext) Sender() *telebot.User       { return c.sender }
func (c *fakeContext) Text() string                { return c.text }

func (c *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	c.responded++
	return nil
}

func (c *fakeContext) Send(what interface{}, opts ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *fakeContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

func (c *fakeContext) Set(key string, val interface{}) { c.store[key] = val }
func (c *fakeContext) Get(key string) interface{}      { return c.store[key] }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
