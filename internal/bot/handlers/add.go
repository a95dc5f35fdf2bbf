package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// NewAddTarantulaHandler registers a tarantula from command arguments:
// /addtarantula <name> [species...].
func NewAddTarantulaHandler(tarantulas repository.TarantulaRepository, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		args := c.Args()
		if len(args) == 0 {
			return apperrors.NewValidationError("Usage: /addtarantula <name> [species]")
		}

		t := &domain.Tarantula{
			OwnerID:         user.ID,
			Name:            args[0],
			SpeciesName:     strings.Join(args[1:], " "),
			AcquisitionDate: time.Now().UTC(),
		}

		id, err := tarantulas.Create(context.Background(), t)
		if err != nil {
			return err
		}

		log.Info("tarantula added", slog.Int64("tarantula_id", id), slog.Int64("owner_id", user.ID))

		return c.Send(fmt.Sprintf("🕷 %s added to your collection!", t.Name), kb.MainMenu())
	}
}

// NewAddColonyHandler registers a cricket colony from command arguments:
// /addcolony <name> [count] [size].
func NewAddColonyHandler(colonies repository.ColonyRepository, kb *keyboard.Builder, log *slog.Logger) Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(c telebot.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		args := c.Args()
		if len(args) == 0 {
			return apperrors.NewValidationError("Usage: /addcolony <name> [count] [size]")
		}

		name := args[0]
		count := int64(0)
		sizeType := "medium"

		if len(args) > 1 {
			n, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || n < 0 {
				return apperrors.NewValidationError("The count must be a non-negative number.")
			}
			count = n
		}
		if len(args) > 2 {
			sizeType = args[2]
		}

		id, err := colonies.Create(context.Background(), user.ID, name, sizeType, count)
		if err != nil {
			return err
		}

		log.Info("colony added", slog.Int64("colony_id", id), slog.Int64("owner_id", user.ID))

		return c.Send(fmt.Sprintf("🦗 Colony %s added with %d crickets.", name, count), kb.MainMenu())
	}
}
