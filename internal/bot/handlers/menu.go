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

// HandleMainMenu renders the top-level menu.
func HandleMainMenu(kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		return c.EditOrSend("🕷 Main menu:", kb.MainMenu())
	}
}

// HandleMaintenance renders the maintenance submenu.
func HandleMaintenance(kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		return c.EditOrSend("🧹 Maintenance:", kb.MaintenanceMenu())
	}
}

// HandleStatusOverview summarizes the keeper's collection in one message.
func HandleStatusOverview(tarantulas repository.TarantulaRepository, colonies repository.ColonyRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, _ action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		ctx := context.Background()

		statuses, err := tarantulas.ListFeedingStatuses(ctx, user.ID)
		if err != nil {
			return err
		}

		alerts, err := tarantulas.ListHealthAlerts(ctx, user.ID)
		if err != nil {
			return err
		}

		colonyStatuses, err := colonies.ListStatuses(ctx, user.ID)
		if err != nil {
			return err
		}

		var overdue int
		for _, s := range statuses {
			if s.CurrentStatus == "Overdue" || s.CurrentStatus == "Never fed" {
				overdue++
			}
		}

		var lowStock int
		for _, col := range colonyStatuses {
			if col.WeeksRemaining < 2 {
				lowStock++
			}
		}

		var b strings.Builder
		b.WriteString("📊 Status overview\n\n")
		fmt.Fprintf(&b, "🕷 Tarantulas: %d\n", len(statuses))
		fmt.Fprintf(&b, "🍽 Feedings overdue: %d\n", overdue)
		fmt.Fprintf(&b, "🏥 Health concerns: %d\n", len(alerts))
		fmt.Fprintf(&b, "🦗 Colonies: %d (%d low on stock)\n", len(colonyStatuses), lowStock)

		return c.EditOrSend(b.String(), kb.BackToMenu())
	}
}
