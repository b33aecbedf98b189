package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"syncportal/internal/config"
	"syncportal/internal/events"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, payload events.TaskPayload) error
}

// Scheduler periodically asks the worker for review snapshots and backlog
// reports.
type Scheduler struct {
	cron  *cron.Cron
	queue Enqueuer
	cfg   config.JobsConfig
	log   zerolog.Logger
}

func NewScheduler(queue Enqueuer, cfg config.JobsConfig, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.SnapshotSchedule, func() { s.enqueue(events.TaskSnapshot) }); err != nil {
		return fmt.Errorf("snapshot schedule %q: %w", s.cfg.SnapshotSchedule, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.BacklogSchedule, func() { s.enqueue(events.TaskBacklog) }); err != nil {
		return fmt.Errorf("backlog schedule %q: %w", s.cfg.BacklogSchedule, err)
	}

	s.cron.Start()
	s.log.Info().
		Str("snapshot", s.cfg.SnapshotSchedule).
		Str("backlog", s.cfg.BacklogSchedule).
		Msg("scheduler started")
	return nil
}

// Stop halts the schedule and waits up to 5s for running jobs.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) enqueue(task events.TaskType) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Enqueue(ctx, events.TaskPayload{Type: task}); err != nil {
		s.log.Error().Err(err).Str("task", string(task)).Msg("enqueue failed")
		return
	}
	s.log.Debug().Str("task", string(task)).Msg("task enqueued")
}
