package handlers

import (
	"context"
	"fmt"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// HandleRecordHealthCheck asks which tarantula was checked.
func HandleRecordHealthCheck(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
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
			return action.HealthCheck{TarantulaID: id}
		})

		return c.EditOrSend("🩺 Who did you check?", markup)
	}
}

// HandleHealthCheck asks for the observed condition.
func HandleHealthCheck(kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		check, ok := a.(action.HealthCheck)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		return c.EditOrSend("How are they doing?", kb.HealthStatusPicker(check.TarantulaID))
	}
}

// HandleHealthStatus records the health check with the chosen status.
func HandleHealthStatus(tarantulas repository.TarantulaRepository, kb *keyboard.Builder) ActionHandler {
	return func(c telebot.Context, a action.Action) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		status, ok := a.(action.HealthStatus)
		if !ok {
			return apperrors.NewValidationError("Unexpected action payload.")
		}

		if domain.HealthStatusName(status.StatusID) == "Unknown" {
			return apperrors.NewValidationError("That health status doesn't exist.")
		}

		if err := tarantulas.RecordHealthCheck(context.Background(), user.ID, status.TarantulaID, status.StatusID); err != nil {
			return asNotFound(err, staleTarantulaMessage)
		}

		msg := fmt.Sprintf("✅ Health check recorded: %s.", domain.HealthStatusName(status.StatusID))
		return c.EditOrSend(msg, kb.BackToMenu())
	}
}
