package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"syncportal/internal/events"
	"syncportal/internal/models"
	"syncportal/internal/review"
	"syncportal/internal/security"
)

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string
	err     error
}

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, meta: map[string]map[string]string{}}
}

func (m *memoryUploader) PutObject(ctx context.Context, key string, body []byte, metadata map[string]string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = body
	m.meta[key] = metadata
	return nil
}

func seededQueue(t *testing.T) *review.Queue {
	t.Helper()
	q := review.NewQueue(review.NewMemoryStore(), zerolog.Nop())
	ctx := context.Background()
	a, _ := q.Append(ctx, models.PendingKindInvalidCert, "Invalid certificate code attempt: X")
	_, _ = q.Append(ctx, models.PendingKindLoginFailure, "Failed login attempt for user: eve")
	_ = q.Decide(ctx, a.ID, models.PendingStatusRejected)
	return q
}

func message(values map[string]interface{}) redis.XMessage {
	return redis.XMessage{ID: "1-0", Values: values}
}

func TestExportSnapshot(t *testing.T) {
	up := newMemoryUploader()
	p := NewProcessor(seededQueue(t), up, "snap-secret", zerolog.Nop())
	p.now = func() time.Time { return time.Date(2024, 7, 1, 12, 30, 0, 0, time.UTC) }

	if err := p.Handle(context.Background(), message(map[string]interface{}{"type": "snapshot"})); err != nil {
		t.Fatalf("handle: %v", err)
	}

	key := "review/20240701T123000Z.json"
	body, ok := up.objects[key]
	if !ok {
		t.Fatalf("expected object %s, have %v", key, up.objects)
	}
	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Count != 2 || len(snap.Items) != 2 || snap.Items[0].Status != models.PendingStatusRejected {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	meta := up.meta[key]
	if meta["digest"] != security.ComputeBodyHash(body) {
		t.Fatal("digest does not match body")
	}
	if meta["signature"] != security.SignResource("snap-secret", key, meta["digest"]) {
		t.Fatal("signature does not match key and digest")
	}
}

func TestExportSnapshotErrors(t *testing.T) {
	p := NewProcessor(seededQueue(t), nil, "s", zerolog.Nop())
	if _, err := p.ExportSnapshot(context.Background()); !errors.Is(err, ErrNoStorage) {
		t.Fatalf("expected ErrNoStorage, got %v", err)
	}

	boom := errors.New("bucket gone")
	up := newMemoryUploader()
	up.err = boom
	p = NewProcessor(seededQueue(t), up, "s", zerolog.Nop())
	if _, err := p.ExportSnapshot(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestHandleOtherTasks(t *testing.T) {
	p := NewProcessor(seededQueue(t), newMemoryUploader(), "s", zerolog.Nop())
	ctx := context.Background()

	for _, values := range []map[string]interface{}{
		{"type": "item_appended", "itemId": "abc", "kind": "LOGIN_FAILURE"},
		{"type": "backlog"},
		{"type": "something_else"},
	} {
		if err := p.Handle(ctx, message(values)); err != nil {
			t.Fatalf("%v: %v", values, err)
		}
	}
}

type recordingHandler struct {
	mu   sync.Mutex
	seen []events.TaskType
	fail bool
	done chan struct{}
	want int
}

func (r *recordingHandler) Handle(ctx context.Context, msg redis.XMessage) error {
	payload, err := events.Decode(msg.Values)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("handler failed")
	}
	r.seen = append(r.seen, payload.Type)
	if len(r.seen) == r.want {
		close(r.done)
	}
	return nil
}

func TestConsumerProcessesAndAcks(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := events.NewPublisher(client, "review:events")
	_ = pub.Enqueue(ctx, events.TaskPayload{Type: events.TaskSnapshot})
	_ = pub.Enqueue(ctx, events.TaskPayload{Type: events.TaskBacklog})

	h := &recordingHandler{done: make(chan struct{}), want: 2}
	c := NewConsumer(client, "review:events", "review-workers", "w1", time.Minute, zerolog.Nop(), h, WithReadBlock(50*time.Millisecond))

	errc := make(chan error, 1)
	go func() { errc <- c.Start(ctx) }()

	select {
	case <-h.done:
	case <-time.After(5 * time.Second):
		t.Fatal("messages not consumed")
	}
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if h.seen[0] != events.TaskSnapshot || h.seen[1] != events.TaskBacklog {
		t.Fatalf("unexpected order %v", h.seen)
	}
	pending, err := client.XPending(context.Background(), "review:events", "review-workers").Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 0 {
		t.Fatalf("expected all messages acked, %d pending", pending.Count)
	}
}

func TestEnsureGroupIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewConsumer(client, "review:events", "review-workers", "w1", time.Minute, zerolog.Nop(), &recordingHandler{})
	for i := 0; i < 2; i++ {
		if err := c.EnsureGroup(context.Background()); err != nil {
			t.Fatalf("ensure group %d: %v", i, err)
		}
	}
}

func TestFailedMessagesStayPending(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	ctx := context.Background()

	h := &recordingHandler{fail: true}
	c := NewConsumer(client, "review:events", "review-workers", "w1", time.Minute, zerolog.Nop(), h, WithReadBlock(50*time.Millisecond))
	if err := c.EnsureGroup(ctx); err != nil {
		t.Fatalf("ensure group: %v", err)
	}
	_ = events.NewPublisher(client, "review:events").Enqueue(ctx, events.TaskPayload{Type: events.TaskBacklog})

	if err := c.read(ctx); err != nil {
		t.Fatalf("read: %v", err)
	}
	pending, err := client.XPending(ctx, "review:events", "review-workers").Result()
	if err != nil {
		t.Fatalf("xpending: %v", err)
	}
	if pending.Count != 1 {
		t.Fatalf("expected failed message to stay pending, got %d", pending.Count)
	}
}
