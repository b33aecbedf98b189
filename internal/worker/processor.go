// Package worker consumes review tasks from the event stream.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"syncportal/internal/events"
	"syncportal/internal/models"
	"syncportal/internal/review"
	"syncportal/internal/security"
)

var ErrNoStorage = errors.New("snapshot storage not configured")

type ReviewSource interface {
	All(ctx context.Context) ([]models.PendingItem, error)
	Stats(ctx context.Context) (review.Stats, error)
}

type Uploader interface {
	PutObject(ctx context.Context, key string, body []byte, metadata map[string]string) error
}

type Snapshot struct {
	GeneratedAt time.Time            `json:"generatedAt"`
	Count       int                  `json:"count"`
	Items       []models.PendingItem `json:"items"`
}

type Processor struct {
	source   ReviewSource
	uploader Uploader
	secret   string
	logger   zerolog.Logger
	now      func() time.Time
}

func NewProcessor(source ReviewSource, uploader Uploader, secret string, logger zerolog.Logger) *Processor {
	return &Processor{
		source:   source,
		uploader: uploader,
		secret:   secret,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	payload, err := events.Decode(msg.Values)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case events.TaskItemAppended:
		p.logger.Info().
			Str("item_id", payload.ItemID).
			Str("kind", payload.Kind).
			Msg("review item awaiting decision")
		return nil
	case events.TaskSnapshot:
		_, err := p.ExportSnapshot(ctx)
		return err
	case events.TaskBacklog:
		return p.reportBacklog(ctx)
	default:
		p.logger.Warn().Str("type", string(payload.Type)).Msg("unknown task type")
		return nil
	}
}

// ExportSnapshot uploads the full review collection and returns its key.
// The object carries a sha256 digest and an HMAC over key and digest.
func (p *Processor) ExportSnapshot(ctx context.Context) (string, error) {
	if p.uploader == nil {
		return "", ErrNoStorage
	}

	items, err := p.source.All(ctx)
	if err != nil {
		return "", fmt.Errorf("load review items: %w", err)
	}

	now := p.now().UTC()
	body, err := json.Marshal(Snapshot{GeneratedAt: now, Count: len(items), Items: items})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := SnapshotKey(now)
	digest := security.ComputeBodyHash(body)
	metadata := map[string]string{
		"digest":    digest,
		"signature": security.SignResource(p.secret, key, digest),
		"count":     fmt.Sprint(len(items)),
	}
	if err := p.uploader.PutObject(ctx, key, body, metadata); err != nil {
		return "", err
	}

	p.logger.Info().Str("key", key).Int("items", len(items)).Msg("review snapshot exported")
	return key, nil
}

func SnapshotKey(t time.Time) string {
	return "review/" + t.UTC().Format("20060102T150405Z") + ".json"
}

func (p *Processor) reportBacklog(ctx context.Context) error {
	stats, err := p.source.Stats(ctx)
	if err != nil {
		return fmt.Errorf("review stats: %w", err)
	}

	event := p.logger.Info().
		Int("total", stats.Total).
		Int("pending", stats.ByStatus[models.PendingStatusPending]).
		Int("approved", stats.ByStatus[models.PendingStatusApproved]).
		Int("rejected", stats.ByStatus[models.PendingStatusRejected])
	for kind, n := range stats.ByKind {
		event = event.Int("kind_"+string(kind), n)
	}
	if stats.Oldest != nil {
		event = event.Dur("oldest_pending_age", p.now().Sub(*stats.Oldest))
	}
	event.Msg("review backlog")
	return nil
}
