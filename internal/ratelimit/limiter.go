// Package ratelimit throttles per-user interaction rates.
package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrLimitExceeded indicates the rate limit has been reached for the key.
var ErrLimitExceeded = errors.New("rate limit exceeded")

type bucket struct {
	hits []time.Time
}

// Limiter enforces a sliding-window cap on interactions per key. It keeps
// its state in memory; each bot instance throttles its own traffic.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

// New returns a limiter allowing limit hits per window for each key.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
}

// Allow records a hit for key and reports whether it is within the limit.
// Returns ErrLimitExceeded when the window is full.
func (l *Limiter) Allow(key string) error {
	now := time.Now()
	windowStart := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	bkt, ok := l.buckets[key]
	if !ok {
		bkt = &bucket{hits: make([]time.Time, 0, 8)}
		l.buckets[key] = bkt
	}

	bkt.hits = keepRecent(bkt.hits, windowStart)

	if len(bkt.hits) >= l.limit {
		return ErrLimitExceeded
	}

	bkt.hits = append(bkt.hits, now)
	return nil
}

// Cleanup removes buckets that have been inactive for more than maxAge and
// returns how many were dropped.
func (l *Limiter) Cleanup(maxAge time.Duration) int {
	if maxAge <= 0 {
		return 0
	}

	cutoff := time.Now().Add(-maxAge)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, bkt := range l.buckets {
		if len(bkt.hits) == 0 || bkt.hits[len(bkt.hits)-1].Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}

	return removed
}

func keepRecent(hits []time.Time, windowStart time.Time) []time.Time {
	firstIdx := 0
	for firstIdx < len(hits) && hits[firstIdx].Before(windowStart) {
		firstIdx++
	}

	if firstIdx == 0 {
		return hits
	}

	if firstIdx >= len(hits) {
		return hits[:0]
	}

	copy(hits, hits[firstIdx:])
	return hits[:len(hits)-firstIdx]
}
