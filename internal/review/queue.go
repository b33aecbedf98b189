// Package review implements the pending review queue: a durable, ordered
// list of exception records that a reviewer approves or rejects.
//
// The queue reads and writes the whole collection on every operation. Calls
// on one Queue are serialized; separate processes sharing a Store are not
// coordinated and the last write wins.
package review

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"syncportal/internal/ids"
	"syncportal/internal/models"
)

var (
	ErrInvalidDecision = errors.New("decision must be APPROVED or REJECTED")
	ErrInvalidKind     = errors.New("unknown pending item kind")
)

// Notifier is told about every appended item.
type Notifier interface {
	ItemAppended(ctx context.Context, item models.PendingItem) error
}

type Queue struct {
	mu       sync.Mutex
	store    Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Queue)

func WithNotifier(n Notifier) Option {
	return func(q *Queue) {
		q.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		q.now = now
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(q *Queue) {
		q.newID = gen
	}
}

func NewQueue(store Store, log zerolog.Logger, opts ...Option) *Queue {
	q := &Queue{
		store: store,
		log:   log,
		now:   time.Now,
		newID: ids.New,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Queue) Append(ctx context.Context, kind models.PendingKind, detail string) (models.PendingItem, error) {
	switch kind {
	case models.PendingKindLoginFailure, models.PendingKindInvalidIdentifier, models.PendingKindInvalidCert:
	default:
		return models.PendingItem{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.store.Load(ctx)
	if err != nil {
		return models.PendingItem{}, fmt.Errorf("load review collection: %w", err)
	}

	item := models.PendingItem{
		ID:        q.uniqueID(items),
		Kind:      kind,
		Detail:    detail,
		CreatedAt: q.now().UTC(),
		Status:    models.PendingStatusPending,
	}

	if err := q.store.Save(ctx, append(items, item)); err != nil {
		return models.PendingItem{}, fmt.Errorf("save review collection: %w", err)
	}

	q.log.Info().
		Str("item_id", item.ID).
		Str("kind", string(item.Kind)).
		Msg("review item appended")

	if q.notifier != nil {
		if err := q.notifier.ItemAppended(ctx, item); err != nil {
			q.log.Warn().Err(err).Str("item_id", item.ID).Msg("review notification failed")
		}
	}

	return item, nil
}

// uniqueID draws ids until one is not already in the collection.
func (q *Queue) uniqueID(items []models.PendingItem) string {
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		taken[it.ID] = struct{}{}
	}
	for {
		id := q.newID()
		if _, ok := taken[id]; !ok {
			return id
		}
	}
}

// ListPending returns undecided items in insertion order.
func (q *Queue) ListPending(ctx context.Context) ([]models.PendingItem, error) {
	items, err := q.All(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingItem, 0, len(items))
	for _, it := range items {
		if it.Status == models.PendingStatusPending {
			pending = append(pending, it)
		}
	}
	return pending, nil
}

func (q *Queue) All(ctx context.Context) ([]models.PendingItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load review collection: %w", err)
	}
	return items, nil
}

// Decide records a reviewer decision. Unknown ids and items that were
// already decided are left untouched.
func (q *Queue) Decide(ctx context.Context, id string, decision models.PendingStatus) error {
	if decision != models.PendingStatusApproved && decision != models.PendingStatusRejected {
		return ErrInvalidDecision
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	items, err := q.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load review collection: %w", err)
	}

	idx := -1
	for i := range items {
		if items[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if items[idx].Status != models.PendingStatusPending {
		q.log.Debug().
			Str("item_id", id).
			Str("status", string(items[idx].Status)).
			Msg("review item already decided")
		return nil
	}

	items[idx].Status = decision
	if err := q.store.Save(ctx, items); err != nil {
		return fmt.Errorf("save review collection: %w", err)
	}

	q.log.Info().
		Str("item_id", id).
		Str("decision", string(decision)).
		Msg("review item decided")
	return nil
}

type Stats struct {
	Total    int                          `json:"total"`
	ByStatus map[models.PendingStatus]int `json:"byStatus"`
	ByKind   map[models.PendingKind]int   `json:"byKind"`
	Oldest   *time.Time                   `json:"oldestPending,omitempty"`
}

// Stats counts the collection by status and kind, and reports when the
// oldest undecided item was created.
func (q *Queue) Stats(ctx context.Context) (Stats, error) {
	items, err := q.All(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Total:    len(items),
		ByStatus: map[models.PendingStatus]int{},
		ByKind:   map[models.PendingKind]int{},
	}
	for _, it := range items {
		st.ByStatus[it.Status]++
		st.ByKind[it.Kind]++
		if it.Status == models.PendingStatusPending && (st.Oldest == nil || it.CreatedAt.Before(*st.Oldest)) {
			created := it.CreatedAt
			st.Oldest = &created
		}
	}
	return st, nil
}
