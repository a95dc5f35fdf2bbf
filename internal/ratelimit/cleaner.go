package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

// Cleaner periodically drops rate-limit buckets that have gone quiet, so
// the limiter's memory stays bounded by active users rather than by every
// user ever seen.
type Cleaner struct {
	limiter  *Limiter
	log      *slog.Logger
	maxAge   time.Duration
	interval time.Duration
}

// NewCleaner constructs a Cleaner instance.
func NewCleaner(limiter *Limiter, log *slog.Logger, maxAge, interval time.Duration) *Cleaner {
	if log == nil {
		log = slog.Default()
	}

	return &Cleaner{
		limiter:  limiter,
		log:      log,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Run starts the cleanup loop until the context is cancelled.
func (c *Cleaner) Run(ctx context.Context) {
	if c == nil || c.limiter == nil || c.interval <= 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("rate limit cleaner stopped")
			return
		case <-ticker.C:
			if removed := c.limiter.Cleanup(c.maxAge); removed > 0 {
				c.log.Info("rate limit buckets cleaned", slog.Int("buckets_removed", removed))
			}
		}
	}
}
