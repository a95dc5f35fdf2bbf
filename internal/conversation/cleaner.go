package conversation

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner removes stale pending conversations on a schedule. Redis entries
// expire on their own TTL; the cleaner covers the in-memory backend, which
// has no expiry of its own.
type Cleaner struct {
	storage  Storage
	log      *slog.Logger
	ttl      time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(storage Storage, log *slog.Logger, ttl, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		storage:  storage,
		log:      log,
		ttl:      ttl,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.storage == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("conversation cleaner stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

func (c *Cleaner) cleanup(ctx context.Context) {
	entries, err := c.storage.All(ctx)
	if err != nil {
		c.log.Error("conversation cleaner failed to list entries", slog.Any("error", err))
		return
	}

	for _, entry := range entries {
		if entry == nil || time.Since(entry.UpdatedAt) <= c.ttl {
			continue
		}

		if err := c.storage.Clear(ctx, entry.ChatID); err != nil {
			c.log.Error("conversation cleaner failed to clear entry", slog.Int64("chat_id", entry.ChatID), slog.Any("error", err))
			continue
		}

		c.log.Info("stale conversation cleared", slog.Int64("chat_id", entry.ChatID), slog.String("kind", string(entry.Kind)))
	}
}
