package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"syncportal/internal/models"
)

const createCollectionsTable = `
	CREATE TABLE IF NOT EXISTS review_collections (
		key        TEXT PRIMARY KEY,
		items      JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PostgresStore keeps the collection as one JSONB row keyed by the
// collection key.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresStore(pool *pgxpool.Pool, key string) *PostgresStore {
	return &PostgresStore{pool: pool, key: key}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createCollectionsTable); err != nil {
		return fmt.Errorf("create review_collections: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]models.PendingItem, error) {
	const query = `SELECT items FROM review_collections WHERE key = $1`

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, s.key).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []models.PendingItem{}, nil
		}
		return nil, fmt.Errorf("select collection %s: %w", s.key, err)
	}
	return decodeCollection(raw)
}

func (s *PostgresStore) Save(ctx context.Context, items []models.PendingItem) error {
	const query = `
		INSERT INTO review_collections (key, items, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET
			items = EXCLUDED.items,
			updated_at = NOW()
	`

	raw, err := encodeCollection(items)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, s.key, raw); err != nil {
		return fmt.Errorf("upsert collection %s: %w", s.key, err)
	}
	return nil
}
