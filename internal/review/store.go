package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"syncportal/internal/models"
)

var ErrCorruptCollection = errors.New("stored review collection is corrupt")

// Store holds the whole ordered collection under one key. It is read and
// written wholesale.
type Store interface {
	Load(ctx context.Context) ([]models.PendingItem, error)
	Save(ctx context.Context, items []models.PendingItem) error
}

func decodeCollection(raw []byte) ([]models.PendingItem, error) {
	if len(raw) == 0 {
		return []models.PendingItem{}, nil
	}
	var items []models.PendingItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}
	if items == nil {
		items = []models.PendingItem{}
	}
	return items, nil
}

func encodeCollection(items []models.PendingItem) ([]byte, error) {
	if items == nil {
		items = []models.PendingItem{}
	}
	return json.Marshal(items)
}

// MemoryStore keeps the encoded collection in memory.
type MemoryStore struct {
	mu  sync.Mutex
	raw []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) ([]models.PendingItem, error) {
	m.mu.Lock()
	raw := m.raw
	m.mu.Unlock()
	return decodeCollection(raw)
}

func (m *MemoryStore) Save(ctx context.Context, items []models.PendingItem) error {
	raw, err := encodeCollection(items)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

// FileStore persists the collection as a JSON array in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(ctx context.Context) ([]models.PendingItem, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.PendingItem{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return decodeCollection(raw)
}

func (f *FileStore) Save(ctx context.Context, items []models.PendingItem) error {
	raw, err := encodeCollection(items)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".review-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}
