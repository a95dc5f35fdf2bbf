package conversation

import (
	"context"
	"errors"
)

// ErrNotFound indicates that no conversation is pending for a chat.
var ErrNotFound = errors.New("pending conversation not found")

// Storage defines the persistence contract for pending conversations.
type Storage interface {
	// Get returns the pending entry for the chat or ErrNotFound.
	Get(ctx context.Context, chatID int64) (*Pending, error)
	// Set stores the pending entry, overwriting any existing one.
	Set(ctx context.Context, chatID int64, pending *Pending) error
	// Clear removes the pending entry for the chat.
	Clear(ctx context.Context, chatID int64) error
	// All returns every pending entry, used by the cleaner.
	All(ctx context.Context) ([]*Pending, error)
}
