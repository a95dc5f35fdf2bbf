// Package notify fans out periodic husbandry alerts to registered chats.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

const recipientsKey = "notify:recipients"

// Recipient is a registered delivery address for a user.
type Recipient struct {
	UserID int64
	ChatID int64
}

// Registry maps user identity to delivery address. Registration is a
// last-write-wins upsert; readers take copy-out snapshots so delivery never
// holds the lock. When a Redis client is supplied the mapping is mirrored
// there and reloaded on startup.
type Registry struct {
	mu         sync.RWMutex
	recipients map[int64]Recipient
	client     *redis.Client
	log        *slog.Logger
}

// NewRegistry creates a Registry, rehydrating persisted recipients when a
// Redis client is provided.
func NewRegistry(ctx context.Context, client *redis.Client, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	r := &Registry{
		recipients: make(map[int64]Recipient),
		client:     client,
		log:        log,
	}

	if client != nil {
		r.reload(ctx)
	}

	return r
}

// Register upserts the delivery address for the user.
func (r *Registry) Register(ctx context.Context, userID, chatID int64) {
	r.mu.Lock()
	r.recipients[userID] = Recipient{UserID: userID, ChatID: chatID}
	r.mu.Unlock()

	if r.client == nil {
		return
	}

	field := strconv.FormatInt(userID, 10)
	if err := r.client.HSet(ctx, recipientsKey, field, chatID).Err(); err != nil {
		r.log.Error("failed to persist recipient", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

// Snapshot returns a copy of the current recipient set. Registrations
// racing with the snapshot may or may not be included.
func (r *Registry) Snapshot() []Recipient {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipients := make([]Recipient, 0, len(r.recipients))
	for _, recipient := range r.recipients {
		recipients = append(recipients, recipient)
	}
	return recipients
}

// Len reports the number of registered recipients.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.recipients)
}

func (r *Registry) reload(ctx context.Context) {
	entries, err := r.client.HGetAll(ctx, recipientsKey).Result()
	if err != nil {
		r.log.Error("failed to reload recipients", slog.Any("error", err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for field, value := range entries {
		userID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			r.log.Warn("skipping malformed recipient entry", slog.String("field", field))
			continue
		}
		chatID, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			r.log.Warn("skipping malformed recipient entry", slog.String("field", field))
			continue
		}
		r.recipients[userID] = Recipient{UserID: userID, ChatID: chatID}
	}

	if len(r.recipients) > 0 {
		r.log.Info(fmt.Sprintf("reloaded %d notification recipients", len(r.recipients)))
	}
}
