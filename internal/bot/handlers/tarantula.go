package handlers

import (
	"context"
	"fmt"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// HandleListTarantulas lists the keeper's tarantulas with their details.
func HandleListTarantulas(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
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
			return c.EditOrSend("You have no tarantulas yet. Add one with /addtarantula <name> [species].", kb.BackToMenu())
		}

		var b strings.Builder
		b.WriteString("🕷 Your tarantulas:\n\n")
		for _, t := range list {
			fmt.Fprintf(&b, "• %s", t.Name)
			if t.SpeciesName != "" {
				fmt.Fprintf(&b, " (%s)", t.SpeciesName)
			}
			if t.EnclosureNumber != "" {
				fmt.Fprintf(&b, " - enclosure %s", t.EnclosureNumber)
			}
			b.WriteString("\n")
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// HandleFeedingSchedule shows how overdue each tarantula's feeding is.
func HandleFeedingSchedule(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		statuses, err := tarantulas.ListFeedingStatuses(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			return c.EditOrSend("No tarantulas to feed yet.", kb.BackToMenu())
		}

		var b strings.Builder
		b.WriteString("🍽 Feeding schedule:\n\n")
		for _, s := range statuses {
			switch s.CurrentStatus {
			case "Never fed":
				fmt.Fprintf(&b, "❗️ %s - never fed\n", s.Name)
			case "Overdue":
				fmt.Fprintf(&b, "⚠️ %s - %.0f days ago\n", s.Name, s.DaysSinceFeeding)
			default:
				fmt.Fprintf(&b, "✅ %s - %.0f days ago\n", s.Name, s.DaysSinceFeeding)
			}
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}

// HandleHealthAlerts lists the keeper's active health concerns.
func HandleHealthAlerts(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		alerts, err := tarantulas.ListHealthAlerts(context.Background(), user.ID)
		if err != nil {
			return err
		}

		if len(alerts) == 0 {
			return c.EditOrSend("✅ No health concerns right now.", kb.BackToMenu())
		}

		var b strings.Builder
		b.WriteString("🏥 Health alerts:\n\n")
		for _, a := range alerts {
			fmt.Fprintf(&b, "🚨 %s - %s\n", a.Name, a.AlertType)
		}

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}
