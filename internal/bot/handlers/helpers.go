package handlers

import (
	"context"
	"database/sql"
	"errors"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/repository"
)

// requireUser returns the authenticated keeper or an error the central
// handler turns into a user-facing message.
func requireUser(c telebot.Context) (*domain.User, error) {
	u := CurrentUser(c)
	if u == nil {
		return nil, apperrors.NewValidationError("Please send /start first.")
	}
	return u, nil
}

const (
	staleTarantulaMessage = "That tarantula is no longer in your list. Use /menu for a fresh keyboard."
	staleColonyMessage    = "That colony is no longer in your list. Use /menu for a fresh keyboard."
)

// asNotFound maps a missing-row repository result to a corrective message.
// Buttons outlive the entities they reference; a tap on a stale keyboard
// should tell the keeper to refresh, not apologize for a server error.
func asNotFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(msg)
	}
	return err
}

// tarantulaNames maps the owner's tarantula ids to display names for record
// listings.
func tarantulaNames(ctx context.Context, tarantulas repository.TarantulaRepository, ownerID int64) (map[int64]string, error) {
	list, err := tarantulas.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	names := make(map[int64]string, len(list))
	for _, t := range list {
		names[t.ID] = t.Name
	}
	return names, nil
}
