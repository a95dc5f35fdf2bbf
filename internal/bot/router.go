package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/handlers"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
)

// Router directs updates: callbacks go through the dispatcher, text goes to
// commands, then to the pending conversation, then to the default handler.
type Router struct {
	mu             sync.RWMutex
	commands       map[string]handlers.Handler
	completions    map[conversation.Kind]handlers.CompletionHandler
	dispatcher     *Dispatcher
	conversations  *conversation.Manager
	defaultHandler handlers.Handler
	middlewares    []handlers.Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(dispatcher *Dispatcher, conversations *conversation.Manager, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:      make(map[string]handlers.Handler),
		completions:   make(map[conversation.Kind]handlers.CompletionHandler),
		dispatcher:    dispatcher,
		conversations: conversations,
		log:           log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterCompletion registers the handler applied when a pending
// conversation of the given kind resolves.
func (r *Router) RegisterCompletion(kind conversation.Kind, h handlers.CompletionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions[kind] = h
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for unmatched text.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route directs the incoming update to the appropriate handler.
func (r *Router) Route(c telebot.Context) error {
	if c.Callback() != nil {
		return r.execute(r.dispatcher.Dispatch, c)
	}

	return r.handleText(c)
}

func (r *Router) handleText(c telebot.Context) error {
	text := c.Text()

	if strings.HasPrefix(text, "/") {
		cmd := text
		if i := strings.IndexAny(cmd, " @"); i > 0 {
			cmd = cmd[:i]
		}
		if handler := r.getCommandHandler(cmd); handler != nil {
			return r.execute(handler, c)
		}
	}

	return r.execute(r.resolveConversation, c)
}

// resolveConversation feeds free text into the chat's pending conversation,
// if any, and applies the completion handler on success.
func (r *Router) resolveConversation(c telebot.Context) error {
	if c.Chat() == nil {
		return nil
	}

	chatID := c.Chat().ID

	outcome, err := r.conversations.Resolve(context.Background(), chatID, c.Text())
	if err != nil {
		return err
	}

	switch outcome.Status {
	case conversation.StatusRetry:
		return c.Send(outcome.Reprompt)
	case conversation.StatusCompleted:
		completion := r.getCompletion(outcome.Pending.Kind)
		if completion == nil {
			return apperrors.NewConversationError(
				fmt.Sprintf("no completion handler for conversation kind %s", outcome.Pending.Kind))
		}
		return completion(c, outcome.Pending, outcome.Value)
	default:
		if handler := r.getDefaultHandler(); handler != nil {
			return handler(c)
		}
		return nil
	}
}

func (r *Router) execute(h handlers.Handler, c telebot.Context) error {
	r.mu.RLock()
	middlewares := make([]handlers.Middleware, len(r.middlewares))
	copy(middlewares, r.middlewares)
	r.mu.RUnlock()

	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped(c)
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[cmd]
}

func (r *Router) getCompletion(kind conversation.Kind) handlers.CompletionHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.completions[kind]
}

func (r *Router) getDefaultHandler() handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultHandler
}
