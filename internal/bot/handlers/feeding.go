package handlers

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// HandleRecordFeeding asks which tarantula was fed.
func HandleRecordFeeding(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		list, err := tarantulas.ListByOwner(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			return c.EditOrSend("You have no tarantulas yet. Add one with /addtarantula <name>.", kb.BackToMenu())
		}

		markup := kb.TarantulaPicker(list, func(id int64) action.Action {
			return action.FeedTarantula{TarantulaID: id}
		})

		return c.EditOrSend("🍴 Who did you feed?", markup)
	}
}

// HandleFeedTarantula asks which colony the crickets came from.
func HandleFeedTarantula(colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		feed, ok := a.(action.FeedTarantula)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		list, err := colonies.ListStatuses(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(list) == 0 {
			return c.EditOrSend("You have no colonies yet. Add one with /addcolony <name>.", kb.BackToMenu())
		}

		markup := kb.ColonyPicker(list, func(colonyID int64) action.Action {
			return action.FeedSelectColony{TarantulaID: feed.TarantulaID, ColonyID: colonyID}
		})

		return c.EditOrSend("🦗 Which colony did the crickets come from?", markup)
	}
}

// HandleFeedSelectColony asks how many crickets were offered.
func HandleFeedSelectColony(kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		sel, ok := a.(action.FeedSelectColony)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		return c.EditOrSend("How many crickets?", kb.FeedCountPicker(sel.TarantulaID, sel.ColonyID))
	}
}

// HandleFeedConfirm records the feeding and reports the colony's remaining
// stock.
func HandleFeedConfirm(tarantulas repository.TarantulaRepository, kb *keyboard.Builder, log *slog.Logger) ActionHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context, a action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		confirm, ok := a.(action.FeedConfirm)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		if confirm.Count <= 0 {
			return apperrors.NewValidationError("The cricket count must be positive.")
		}

		remaining, err := tarantulas.RecordFeeding(context.Background(), user.ID, &domain.FeedingEvent{
			TarantulaID:  confirm.TarantulaID,
			ColonyID:     confirm.ColonyID,
			CricketCount: confirm.Count,
		})
		if err != nil {
			return asNotFound(err, "That tarantula or colony is no longer in your list. Use /menu for a fresh keyboard.")
		}

		msg := fmt.Sprintf("✅ Feeding recorded: %d cricket(s). Colony has %d left.", confirm.Count, remaining)
		return c.EditOrSend(msg, kb.BackToMenu())
	}
}
