package handlers

import (
	"context"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/conversation"
)

// NewCancelHandler drops the chat's pending input and returns to the menu.
func NewCancelHandler(conversations *conversation.Manager, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		if c.Chat() == nil {
			log.Warn("cancel handler invoked without chat context")
			return nil
		}

		if err := conversations.Exit(context.Background(), c.Chat().ID); err != nil {
			log.Error("failed to clear pending conversation",
				slog.Int64("chat_id", c.Chat().ID),
				slog.Any("error", err),
			)
			return err
		}

		return c.Send("Cancelled. Back to the main menu.", kb.MainMenu())
	}
}
