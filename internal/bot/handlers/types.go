// Package handlers implements the bot's command, action, and conversation
// completion handlers.
package handlers

import (
	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	"github.com/arachnolog/broodkeeper/internal/domain"
)

// Handler processes bot commands and plain text updates.
type Handler func(c telebot.Context) error

// ActionHandler processes one decoded callback action.
type ActionHandler func(c telebot.Context, a action.Action) error

// CompletionHandler applies the parsed value of a finished conversation.
type CompletionHandler func(c telebot.Context, p conversation.Pending, v conversation.Value) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// WithUser stores the authenticated keeper on the telebot context.
func WithUser(c telebot.Context, u *domain.User) {
	c.Set("keeper", u)
}

// CurrentUser returns the keeper stored by the auth middleware, or nil.
func CurrentUser(c telebot.Context) *domain.User {
	u, _ := c.Get("keeper").(*domain.User)
	return u
}
