// Package keyboard renders the bot's inline keyboards.
package keyboard

import (
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/domain"
)

const pickerColumns = 2

// Builder creates inline keyboards whose callback payloads are encoded
// actions.
type Builder struct {
	log *slog.Logger
}

// NewBuilder returns a new Builder instance.
func NewBuilder(log *slog.Logger) *Builder {
	return &Builder{log: log}
}

func button(text string, a action.Action) telebot.InlineButton {
	return telebot.InlineButton{
		Text: text,
		Data: action.MustEncode(a),
	}
}

// MainMenu builds the top-level menu.
func (b *Builder) MainMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{
			button("🕷 My Tarantulas", action.ListTarantulas{}),
			button("🍽 Feeding Schedule", action.FeedingSchedule{}),
		},
		{
			button("🏥 Health Alerts", action.HealthAlerts{}),
			button("🧹 Maintenance", action.Maintenance{}),
		},
		{
			button("🦗 Colonies", action.Colonies{}),
			button("📊 Status Overview", action.StatusOverview{}),
		},
		{
			button("🕸 Record Molt", action.RecordMolt{}),
			button("📋 View Records", action.ViewRecords{}),
		},
		{
			button("🍴 Record Feeding", action.RecordFeeding{}),
			button("🩺 Record Health Check", action.RecordHealthCheck{}),
		},
	}
	return markup
}

// MaintenanceMenu builds the maintenance submenu.
func (b *Builder) MaintenanceMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{button("🦗 Colony Maintenance", action.ColonyMaintenance{})},
		{button("📋 View Records", action.ViewRecords{})},
		{backButton()},
	}
	return markup
}

// RecordsMenu builds the record category submenu.
func (b *Builder) RecordsMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{button("🍽 Feeding Records", action.ViewFeedingRecords{})},
		{button("🏥 Health Records", action.ViewHealthRecords{})},
		{button("🕸 Molt Records", action.ViewMoltRecords{})},
		{backButton()},
	}
	return markup
}

// TarantulaPicker lists the keeper's tarantulas, two per row. The build
// callback chooses which action a tap produces.
func (b *Builder) TarantulaPicker(tarantulas []domain.Tarantula, build func(id int64) action.Action) *telebot.ReplyMarkup {
	rows := make([][]telebot.InlineButton, 0, len(tarantulas)/pickerColumns+2)

	var row []telebot.InlineButton
	for _, t := range tarantulas {
		row = append(row, button(t.Name, build(t.ID)))
		if len(row) == pickerColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []telebot.InlineButton{backButton()})

	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// ColonyPicker lists the keeper's colonies, two per row.
func (b *Builder) ColonyPicker(colonies []domain.ColonyStatus, build func(id int64) action.Action) *telebot.ReplyMarkup {
	rows := make([][]telebot.InlineButton, 0, len(colonies)/pickerColumns+2)

	var row []telebot.InlineButton
	for _, col := range colonies {
		label := fmt.Sprintf("%s (%d)", col.ColonyName, col.CurrentCount)
		row = append(row, button(label, build(col.ID)))
		if len(row) == pickerColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []telebot.InlineButton{backButton()})

	return &telebot.ReplyMarkup{InlineKeyboard: rows}
}

// FeedCountPicker offers quick cricket counts for a feeding.
func (b *Builder) FeedCountPicker(tarantulaID, colonyID int64) *telebot.ReplyMarkup {
	counts := []int64{1, 2, 3, 5}
	row := make([]telebot.InlineButton, 0, len(counts))
	for _, n := range counts {
		row = append(row, button(fmt.Sprintf("%d", n), action.FeedConfirm{
			TarantulaID: tarantulaID,
			ColonyID:    colonyID,
			Count:       n,
		}))
	}

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{row, {backButton()}}
	return markup
}

// HealthStatusPicker offers the three health statuses for a check.
func (b *Builder) HealthStatusPicker(tarantulaID int64) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		{button("✅ Healthy", action.HealthStatus{TarantulaID: tarantulaID, StatusID: domain.HealthStatusHealthy})},
		{button("⚠️ Monitor", action.HealthStatus{TarantulaID: tarantulaID, StatusID: domain.HealthStatusMonitor})},
		{button("🚨 Critical", action.HealthStatus{TarantulaID: tarantulaID, StatusID: domain.HealthStatusCritical})},
		{backButton()},
	}
	return markup
}

// ColonyActions builds the per-colony maintenance menu with quick count
// adjustments and a free-form entry.
func (b *Builder) ColonyActions(colonyID int64) *telebot.ReplyMarkup {
	deltas := []int64{-10, -5, 5, 10}
	row := make([]telebot.InlineButton, 0, len(deltas))
	for _, d := range deltas {
		label := fmt.Sprintf("%+d", d)
		row = append(row, button(label, action.ColonyCountUpdate{ColonyID: colonyID, Delta: d}))
	}

	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{
		row,
		{button("✏️ Other amount", action.ColonyCount{ColonyID: colonyID})},
		{backButton()},
	}
	return markup
}

// BackToMenu builds a single back-to-menu row.
func (b *Builder) BackToMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.InlineKeyboard = [][]telebot.InlineButton{{backButton()}}
	return markup
}

func backButton() telebot.InlineButton {
	return button("⬅️ Main Menu", action.MainMenu{})
}
