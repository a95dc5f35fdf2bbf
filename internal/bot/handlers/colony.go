package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// HandleColonies lists colony stock levels.
func HandleColonies(colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		list, err := colonies.ListStatuses(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			return c.EditOrSend("You have no colonies yet. Add one with /addcolony <name> [count].", kb.BackToMenu())
		}

		var b strings.Builder
		b.WriteString("🦗 Your colonies:\n\n")
		for _, col := range list {
			marker := "✅"
			if col.WeeksRemaining < 2 {
				marker = "⚠️"
			}
			fmt.Fprintf(&b, "%s %s (%s): %d crickets, ~%.1f weeks left\n",
				marker, col.ColonyName, col.SizeType, col.CurrentCount, col.WeeksRemaining)
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// HandleColonyMaintenance asks which colony to maintain.
func HandleColonyMaintenance(colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		list, err := colonies.ListStatuses(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			return c.EditOrSend("You have no colonies yet. Add one with /addcolony <name> [count].", kb.BackToMenu())
		}

		markup := kb.ColonyPicker(list, func(id int64) action.Action {
			return action.ColonyMaintenanceMenu{ColonyID: id}
		})

		return c.EditOrSend("🧹 Which colony?", markup)
	}
}

// HandleColonyMaintenanceMenu shows one colony's state with count controls.
func HandleColonyMaintenanceMenu(colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		menu, ok := a.(action.ColonyMaintenanceMenu)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		col, err := colonies.Get(context.Background(), user.ID, menu.ColonyID)
		if err != nil {
			return asNotFound(err, staleColonyMessage)
		}

		msg := fmt.Sprintf("🦗 %s (%s)\nCurrent count: %d\n~%.1f weeks of stock left.\n\nAdjust the count:",
			col.ColonyName, col.SizeType, col.CurrentCount, col.WeeksRemaining)

		return c.EditOrSend(msg, kb.ColonyActions(col.ID))
	}
}

// HandleColonyCount starts the free-form count adjustment conversation.
func HandleColonyCount(conversations *conversation.Manager) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		count, ok := a.(action.ColonyCount)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		if c.Chat() == nil {
			return nil
		}

		if err := conversations.Begin(context.Background(), c.Chat().ID, conversation.KindColonyDelta, count.ColonyID); err != nil {
			return err
		}

		return c.EditOrSend("✏️ " + conversation.KindColonyDelta.Reprompt())
	}
}

// HandleColonyCountUpdate applies a quick count adjustment from a button.
func HandleColonyCountUpdate(colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		update, ok := a.(action.ColonyCountUpdate)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		count, err := colonies.AdjustCount(context.Background(), user.ID, update.ColonyID, update.Delta)
		if err != nil {
			return asNotFound(err, staleColonyMessage)
		}

		msg := fmt.Sprintf("✅ Count adjusted by %+d. Colony now has %d crickets.", update.Delta, count)
		return c.EditOrSend(msg, kb.ColonyActions(update.ColonyID))
	}
}

// NewColonyDeltaCompletion applies a typed count adjustment.
func NewColonyDeltaCompletion(colonies repository.ColonyRepository, kb *keyboard.Builder, log *slog.Logger) CompletionHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context, p conversation.Pending, v conversation.Value) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		if v.Delta == 0 {
			return apperrors.NewValidationError("A zero adjustment changes nothing.")
		}

		count, err := colonies.AdjustCount(context.Background(), user.ID, p.Ref, v.Delta)
		if err != nil {
			return asNotFound(err, staleColonyMessage)
		}

		log.Info("colony adjusted via conversation",
			slog.Int64("colony_id", p.Ref),
			slog.Int64("delta", v.Delta),
		)

		msg := fmt.Sprintf("✅ Count adjusted by %+d. Colony now has %d crickets.", v.Delta, count)
		return c.Send(msg, kb.BackToMenu())
	}
}
