package conversation

import (
	"context"
	"errors"
	"log/slog"
)

// Manager implements the begin/resolve/exit contract on top of a Storage
// backend. The most recent Begin for a chat wins.
type Manager struct {
	storage Storage
	log     *slog.Logger
}

// NewManager constructs a Manager using the provided storage backend.
func NewManager(storage Storage, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}

	return &Manager{
		storage: storage,
		log:     log,
	}
}

// Begin registers a pending conversation for the chat, overwriting any
// existing entry.
func (m *Manager) Begin(ctx context.Context, chatID int64, kind Kind, ref int64) error {
	return m.storage.Set(ctx, chatID, &Pending{
		ChatID: chatID,
		Kind:   kind,
		Ref:    ref,
	})
}

// Resolve matches raw text against the chat's pending conversation. When no
// conversation is pending the caller falls back to normal command handling.
// A parse failure retains the entry and asks for a retry; success clears it.
func (m *Manager) Resolve(ctx context.Context, chatID int64, text string) (Outcome, error) {
	pending, err := m.storage.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			outcomeRecorder(string(StatusNone))
			return Outcome{Status: StatusNone}, nil
		}
		return Outcome{}, err
	}

	value, ok := parseInput(pending.Kind, text)
	if !ok {
		outcomeRecorder(string(StatusRetry))
		return Outcome{
			Status:   StatusRetry,
			Pending:  *pending,
			Reprompt: pending.Kind.Reprompt(),
		}, nil
	}

	if err := m.storage.Clear(ctx, chatID); err != nil {
		return Outcome{}, err
	}

	outcomeRecorder(string(StatusCompleted))
	return Outcome{
		Status:  StatusCompleted,
		Pending: *pending,
		Value:   value,
	}, nil
}

// Exit cancels any pending conversation for the chat.
func (m *Manager) Exit(ctx context.Context, chatID int64) error {
	if err := m.storage.Clear(ctx, chatID); err != nil {
		m.log.Error("failed to exit conversation", slog.Int64("chat_id", chatID), slog.Any("error", err))
		return err
	}

	return nil
}
