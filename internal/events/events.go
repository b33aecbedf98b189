// Package events carries review tasks over a Redis stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"syncportal/internal/models"
)

type TaskType string

const (
	TaskItemAppended TaskType = "item_appended"
	TaskSnapshot     TaskType = "snapshot"
	TaskBacklog      TaskType = "backlog"
)

type TaskPayload struct {
	Type   TaskType `json:"type"`
	ItemID string   `json:"itemId,omitempty"`
	Kind   string   `json:"kind,omitempty"`
}

type Publisher struct {
	client *redis.Client
	stream string
}

func NewPublisher(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Enqueue(ctx context.Context, payload TaskPayload) error {
	values := map[string]any{"type": string(payload.Type)}
	if payload.ItemID != "" {
		values["itemId"] = payload.ItemID
	}
	if payload.Kind != "" {
		values["kind"] = payload.Kind
	}

	if _, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}

// ItemAppended satisfies review.Notifier.
func (p *Publisher) ItemAppended(ctx context.Context, item models.PendingItem) error {
	return p.Enqueue(ctx, TaskPayload{
		Type:   TaskItemAppended,
		ItemID: item.ID,
		Kind:   string(item.Kind),
	})
}

// Decode reads a stream entry's values into a payload.
func Decode(values map[string]interface{}) (TaskPayload, error) {
	var out TaskPayload
	raw, err := json.Marshal(values)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
