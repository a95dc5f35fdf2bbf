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

// HandleRecordMolt asks which tarantula molted.
func HandleRecordMolt(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
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
			return action.MoltSimple{TarantulaID: id}
		})

		return c.EditOrSend("🕸 Who molted?", markup)
	}
}

// HandleMoltSimple starts the size conversation for the chosen tarantula.
func HandleMoltSimple(conversations *conversation.Manager) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		molt, ok := a.(action.MoltSimple)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		if c.Chat() == nil {
			return nil
		}

		if err := conversations.Begin(context.Background(), c.Chat().ID, conversation.KindMoltSize, molt.TarantulaID); err != nil {
			return err
		}

		return c.EditOrSend("📏 " + conversation.KindMoltSize.Reprompt())
	}
}

// HandleMoltHistory lists the keeper's recent molts.
func HandleMoltHistory(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		ctx := context.Background()

		molts, err := tarantulas.ListRecentMolts(ctx, user.ID, 10)
		if err != nil {
			return err
		}

		if len(molts) == 0 {
			return c.EditOrSend("No molts recorded yet.", kb.BackToMenu())
		}

		names, err := tarantulaNames(ctx, tarantulas, user.ID)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("🕸 Recent molts:\n\n")
		for _, m := range molts {
			fmt.Fprintf(&b, "• %s - %.1f cm on %s\n", names[m.TarantulaID], m.SizeCM, m.MoltedAt.Format("2006-01-02"))
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// NewMoltSizeCompletion records the molt once the keeper sends the size.
func NewMoltSizeCompletion(tarantulas repository.TarantulaRepository, kb *keyboard.Builder, log *slog.Logger) CompletionHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context, p conversation.Pending, v conversation.Value) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		if v.Decimal <= 0 {
			return apperrors.NewValidationError("The size must be positive.")
		}

		if err := tarantulas.RecordMolt(context.Background(), user.ID, p.Ref, v.Decimal); err != nil {
			return asNotFound(err, staleTarantulaMessage)
		}

		log.Info("molt recorded",
			slog.Int64("tarantula_id", p.Ref),
			slog.Float64("size_cm", v.Decimal),
		)

		msg := fmt.Sprintf("✅ Molt recorded at %.1f cm.", v.Decimal)
		return c.Send(msg, kb.BackToMenu())
	}
}
