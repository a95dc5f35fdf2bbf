package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	chatKeyPattern  = "chat:conversation:%d"
	chatScanPattern = "chat:conversation:*"
	entryTTL        = time.Hour
	scanBatchCount  = 100
)

// RedisStorage persists pending conversations in Redis so an in-flight
// prompt survives a bot restart.
type RedisStorage struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedisStorage initializes a Redis-backed Storage implementation.
func NewRedisStorage(client *redis.Client, log *slog.Logger) *RedisStorage {
	if log == nil {
		log = slog.Default()
	}

	return &RedisStorage{
		client: client,
		log:    log,
	}
}

// Get returns the pending entry for the chat or ErrNotFound when absent.
func (s *RedisStorage) Get(ctx context.Context, chatID int64) (*Pending, error) {
	data, err := s.client.Get(ctx, redisChatKey(chatID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		s.log.Error("failed to get conversation from redis", "chat_id", chatID, "error", err)
		return nil, err
	}

	var pending Pending
	if err := json.Unmarshal([]byte(data), &pending); err != nil {
		s.log.Error("failed to decode conversation entry", "chat_id", chatID, "error", err)
		return nil, err
	}

	return &pending, nil
}

// Set saves the pending entry with the storage TTL.
func (s *RedisStorage) Set(ctx context.Context, chatID int64, pending *Pending) error {
	entry := *pending
	entry.ChatID = chatID
	entry.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(&entry)
	if err != nil {
		s.log.Error("failed to encode conversation entry", "chat_id", chatID, "error", err)
		return err
	}

	if err := s.client.Set(ctx, redisChatKey(chatID), data, entryTTL).Err(); err != nil {
		s.log.Error("failed to save conversation in redis", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// Clear removes the pending entry for the chat.
func (s *RedisStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, redisChatKey(chatID)).Err(); err != nil {
		s.log.Error("failed to clear conversation", "chat_id", chatID, "error", err)
		return err
	}

	return nil
}

// All retrieves every pending conversation by scanning Redis keys.
func (s *RedisStorage) All(ctx context.Context) ([]*Pending, error) {
	var (
		cursor  uint64
		entries []*Pending
	)

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, chatScanPattern, scanBatchCount).Result()
		if err != nil {
			s.log.Error("failed to scan conversations", "error", err)
			return nil, err
		}

		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}

				s.log.Error("failed to fetch conversation", "key", key, "error", err)
				return nil, err
			}

			var pending Pending
			if err := json.Unmarshal([]byte(data), &pending); err != nil {
				s.log.Error("failed to decode conversation", "key", key, "error", err)
				continue
			}

			copied := pending
			entries = append(entries, &copied)
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return entries, nil
}

func redisChatKey(chatID int64) string {
	return fmt.Sprintf(chatKeyPattern, chatID)
}
