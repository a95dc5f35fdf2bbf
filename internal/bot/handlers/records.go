package handlers

import (
	"context"
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/domain"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

const recordListLimit = 10

// HandleViewRecords shows the record category menu.
func HandleViewRecords(kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		return c.EditOrSend("📋 Which records?", kb.RecordsMenu())
	}
}

// HandleViewFeedingRecords lists recent feedings.
func HandleViewFeedingRecords(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		ctx := context.Background()

		events, err := tarantulas.ListRecentFeedings(ctx, user.ID, recordListLimit)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return c.EditOrSend("No feedings recorded yet.", kb.BackToMenu())
		}

		names, err := tarantulaNames(ctx, tarantulas, user.ID)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("🍽 Recent feedings:\n\n")
		for _, e := range events {
			fmt.Fprintf(&b, "• %s - %d cricket(s) on %s\n",
				names[e.TarantulaID], e.CricketCount, e.FedAt.Format("2006-01-02"))
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// HandleViewHealthRecords lists recent health checks.
func HandleViewHealthRecords(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		ctx := context.Background()

		checks, err := tarantulas.ListRecentHealthChecks(ctx, user.ID, recordListLimit)
		if err != nil {
			return err
		}

		if len(checks) == 0 {
			return c.EditOrSend("No health checks recorded yet.", kb.BackToMenu())
		}

		names, err := tarantulaNames(ctx, tarantulas, user.ID)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("🏥 Recent health checks:\n\n")
		for _, h := range checks {
			fmt.Fprintf(&b, "• %s - %s on %s\n",
				names[h.TarantulaID], domain.HealthStatusName(h.StatusID), h.CheckedAt.Format("2006-01-02"))
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// HandleViewMoltRecords lists recent molts.
func HandleViewMoltRecords(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		ctx := context.Background()

		molts, err := tarantulas.ListRecentMolts(ctx, user.ID, recordListLimit)
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
			fmt.Fprintf(&b, "• %s - %.1f cm on %s\n",
				names[m.TarantulaID], m.SizeCM, m.MoltedAt.Format("2006-01-02"))
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}
