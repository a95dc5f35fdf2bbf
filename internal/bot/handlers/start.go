package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/notify"
	"github.com/arachnolog/broodkeeper/pkg/metrics"
)

const welcomeMessage = "🕷 Welcome to your tarantula keeper!\n\n" +
	"I track feedings, molts, health checks, and cricket colonies, and I'll " +
	"remind you when something needs attention.\n\nPick an option below, or " +
	"send /help to see the commands."

// NewStartHandler greets the keeper and subscribes their chat to periodic
// alerts.
func NewStartHandler(registry *notify.Registry, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Sender() == nil || c.Chat() == nil {
			log.Warn("start handler invoked without sender context")
			return nil
		}

		registry.Register(context.Background(), c.Sender().ID, c.Chat().ID)
		metrics.SetRegisteredRecipients(registry.Len())

		log.Info("keeper subscribed to alerts",
			slog.Int64("user_id", c.Sender().ID),
			slog.Int64("chat_id", c.Chat().ID),
		)

		return c.Send(welcomeMessage, kb.MainMenu())
	}
}

// NewHelpHandler lists the available commands.
func NewHelpHandler() Handler {
	const helpMessage = "Commands:\n" +
		"/start - subscribe to alerts and open the menu\n" +
		"/menu - show the main menu\n" +
		"/addtarantula <name> [species] - register a tarantula\n" +
		"/addcolony <name> [count] - register a cricket colony\n" +
		"/cancel - abort the current input\n" +
		"/help - this message"

	return func(c telebot.Context) error {
		return c.Send(helpMessage)
	}
}

// NewMenuCommandHandler shows the main menu on /menu.
func NewMenuCommandHandler(kb *keyboard.Builder) Handler {
	return func(c telebot.Context) error {
		return c.Send("🕷 Main menu:", kb.MainMenu())
	}
}
