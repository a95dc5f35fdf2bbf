package bot

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/handlers"
	"github.com/arachnolog/broodkeeper/pkg/metrics"
)

const invalidCallbackMessage = "⚠️ I couldn't process that button. Use /menu to get a fresh keyboard."

// Dispatcher decodes callback payloads and routes the resulting actions to
// their registered handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]handlers.ActionHandler
	log      *slog.Logger
}

// NewDispatcher creates a Dispatcher with an empty handler registry.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		handlers: make(map[string]handlers.ActionHandler),
		log:      log,
	}
}

// Register wires an action tag to its handler.
func (d *Dispatcher) Register(tag string, h handlers.ActionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[tag] = h
}

// Registered returns the sorted tags that have a handler.
func (d *Dispatcher) Registered() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tags := make([]string, 0, len(d.handlers))
	for tag := range d.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Dispatch acknowledges the callback, decodes its payload, and invokes the
// matching handler. The ack goes out before the handler runs so the client
// stops its spinner even when the handler is slow.
func (d *Dispatcher) Dispatch(c telebot.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}

	if err := c.Respond(&telebot.CallbackResponse{}); err != nil {
		d.log.Warn("failed to acknowledge callback", slog.Any("error", err))
	}

	token := strings.TrimSpace(cb.Data)

	a, err := action.Decode(token)
	if err != nil {
		if !action.IsDecodeError(err) {
			return err
		}

		kind := action.DecodeErrorKind(err)
		metrics.RecordDecodeError(kind)
		d.log.Warn("undecodable callback payload",
			slog.String("token", token),
			slog.String("kind", kind),
			slog.Any("error", err),
		)
		return c.Send(invalidCallbackMessage)
	}

	handler := d.getHandler(a.Tag())
	if handler == nil {
		d.log.Error("no handler registered for action", slog.String("tag", a.Tag()))
		return c.Send(invalidCallbackMessage)
	}

	return handler(c, a)
}

func (d *Dispatcher) getHandler(tag string) handlers.ActionHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.handlers[tag]
}
