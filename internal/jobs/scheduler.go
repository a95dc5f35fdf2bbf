package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Scheduler registers periodic maintenance tasks and runs the cron loop.
type Scheduler interface {
	RegisterTasks() error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	purgeCron      string
	retentionDays  int
	log            *slog.Logger
}

// NewScheduler builds a Scheduler that enqueues the record purge on the
// given cron expression.
func NewScheduler(redisOpt asynq.RedisConnOpt, purgeCron string, retentionDays int, log *slog.Logger) Scheduler {
	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		purgeCron:      purgeCron,
		retentionDays:  retentionDays,
		log:            log,
	}
}

func (s *scheduler) RegisterTasks() error {
	task, err := NewPurgeRecordsTask(s.retentionDays)
	if err != nil {
		return err
	}

	if _, err := s.asynqScheduler.Register(s.purgeCron, task); err != nil {
		return err
	}

	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: registered record purge task",
			slog.String("cron", s.purgeCron),
			slog.Int("retention_days", s.retentionDays),
		)
	}

	return nil
}

func (s *scheduler) Run() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: starting")
	}

	go func() {
		if err := s.asynqScheduler.Run(); err != nil && s.log != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", "error", err)
		}
	}()
}

func (s *scheduler) Shutdown() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: shutting down")
	}

	s.asynqScheduler.Shutdown()
}
