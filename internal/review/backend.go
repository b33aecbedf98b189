package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"syncportal/internal/config"
)

var ErrBackendUnavailable = errors.New("review backend connection not provided")

// OpenStore builds the store selected by cfg.Backend. The redis and
// postgres backends need the matching connection.
func OpenStore(ctx context.Context, cfg config.ReviewConfig, client *redis.Client, pool *pgxpool.Pool) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.FilePath), nil
	case config.BackendRedis:
		if client == nil {
			return nil, fmt.Errorf("redis: %w", ErrBackendUnavailable)
		}
		return NewRedisStore(client, cfg.Key), nil
	case config.BackendPostgres:
		if pool == nil {
			return nil, fmt.Errorf("postgres: %w", ErrBackendUnavailable)
		}
		s := NewPostgresStore(pool, cfg.Key)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown review backend %q", cfg.Backend)
	}
}
