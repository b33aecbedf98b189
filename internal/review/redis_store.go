package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"syncportal/internal/models"
)

// RedisStore keeps the collection as one JSON string value.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]models.PendingItem, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.PendingItem{}, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeCollection(raw)
}

func (s *RedisStore) Save(ctx context.Context, items []models.PendingItem) error {
	raw, err := encodeCollection(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}
