package conversation

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage keeps pending conversations in process memory. Entries are
// lost on restart; use RedisStorage when that matters.
type MemoryStorage struct {
	mu      sync.RWMutex
	pending map[int64]Pending
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		pending: make(map[int64]Pending),
	}
}

// Get returns the pending entry for the chat or ErrNotFound.
func (s *MemoryStorage) Get(ctx context.Context, chatID int64) (*Pending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.pending[chatID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := entry
	return &copied, nil
}

// Set stores the pending entry, overwriting any existing one for the chat.
func (s *MemoryStorage) Set(ctx context.Context, chatID int64, pending *Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := *pending
	entry.ChatID = chatID
	entry.UpdatedAt = time.Now().UTC()
	s.pending[chatID] = entry
	return nil
}

// Clear removes the pending entry for the chat.
func (s *MemoryStorage) Clear(ctx context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, chatID)
	return nil
}

// All returns a copy of every pending entry.
func (s *MemoryStorage) All(ctx context.Context) ([]*Pending, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*Pending, 0, len(s.pending))
	for _, entry := range s.pending {
		copied := entry
		entries = append(entries, &copied)
	}
	return entries, nil
}
