// Package idempotency suppresses duplicate callback deliveries.
package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arachnolog/broodkeeper/pkg/redis"
)

const (
	keyPrefix  = "callback:seen:"
	defaultTTL = 10 * time.Minute
)

// Deduplicator claims Telegram callback identifiers in Redis so that a
// retried delivery of the same tap is processed at most once.
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// NewDeduplicator creates a deduplicator over the given Redis client.
func NewDeduplicator(client *redis.Client, log *slog.Logger) *Deduplicator {
	if log == nil {
		log = slog.Default()
	}

	return &Deduplicator{
		client: client,
		ttl:    defaultTTL,
		log:    log,
	}
}

// Seen reports whether this callback was already claimed. The first caller
// for a given id claims it and gets false; later callers get true. On Redis
// failure it fails open and treats the callback as unseen.
func (d *Deduplicator) Seen(ctx context.Context, callbackID string) bool {
	if callbackID == "" {
		return false
	}

	won, err := d.client.ClaimOnce(ctx, keyPrefix+callbackID, d.ttl)
	if err != nil {
		d.log.Warn("callback dedup check failed", slog.String("callback_id", callbackID), slog.Any("error", err))
		return false
	}

	if !won {
		d.log.Debug("duplicate callback suppressed", slog.String("callback_id", callbackID))
	}

	return !won
}

// Key returns the Redis key used for a callback id. Exposed for tests.
func Key(callbackID string) string {
	return fmt.Sprintf("%s%s", keyPrefix, callbackID)
}
