package notify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/arachnolog/broodkeeper/internal/domain"
	"github.com/arachnolog/broodkeeper/pkg/metrics"
)

const (
	defaultFeedingInterval = 24 * time.Hour
	defaultHealthInterval  = time.Hour
	defaultColonyInterval  = 24 * time.Hour
	defaultDeliveryTimeout = 10 * time.Second
	restartBackoff         = 5 * time.Second
)

// Repository is the read side of the husbandry store the scheduler polls.
type Repository interface {
	ListDueAlerts(ctx context.Context, category domain.AlertCategory) ([]domain.AlertItem, error)
}

// Sender delivers one rendered alert message to a chat.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string) error
}

// Config holds the per-category poll cadence and the per-recipient
// delivery timeout.
type Config struct {
	FeedingInterval time.Duration `mapstructure:"feeding_interval"`
	HealthInterval  time.Duration `mapstructure:"health_interval"`
	ColonyInterval  time.Duration `mapstructure:"colony_interval"`
	DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
}

func (c *Config) applyDefaults() {
	if c.FeedingInterval <= 0 {
		c.FeedingInterval = defaultFeedingInterval
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = defaultHealthInterval
	}
	if c.ColonyInterval <= 0 {
		c.ColonyInterval = defaultColonyInterval
	}
	if c.DeliveryTimeout <= 0 {
		c.DeliveryTimeout = defaultDeliveryTimeout
	}
}

// Scheduler runs one supervised periodic task per alert category. A panic
// or error in one category restarts that category only; ticks within a
// category are strictly sequential.
type Scheduler struct {
	registry *Registry
	repo     Repository
	sender   Sender
	cfg      Config
	log      *slog.Logger
	wg       sync.WaitGroup
}

// NewScheduler builds a Scheduler over the given registry, repository and
// delivery transport.
func NewScheduler(registry *Registry, repo Repository, sender Sender, cfg Config, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	cfg.applyDefaults()

	return &Scheduler{
		registry: registry,
		repo:     repo,
		sender:   sender,
		cfg:      cfg,
		log:      log,
	}
}

// Start launches the category tasks. It returns immediately; use Wait to
// block until every task has observed context cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	tasks := []struct {
		category domain.AlertCategory
		interval time.Duration
	}{
		{domain.CategoryFeeding, s.cfg.FeedingInterval},
		{domain.CategoryHealth, s.cfg.HealthInterval},
		{domain.CategoryColony, s.cfg.ColonyInterval},
	}

	for _, task := range tasks {
		s.wg.Add(1)
		go func(category domain.AlertCategory, interval time.Duration) {
			defer s.wg.Done()
			s.supervise(ctx, category, interval)
		}(task.category, task.interval)
	}

	s.log.Info("notification scheduler started", slog.Int("categories", len(tasks)))
}

// Wait blocks until all category tasks have stopped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// supervise restarts the category loop after a panic so one failing
// category never takes down its siblings.
func (s *Scheduler) supervise(ctx context.Context, category domain.AlertCategory, interval time.Duration) {
	for {
		err := s.runGuarded(ctx, category, interval)
		if err == nil {
			return
		}

		s.log.Error("alert task crashed, restarting",
			slog.String("category", string(category)),
			slog.Any("error", err),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(restartBackoff):
		}
	}
}

func (s *Scheduler) runGuarded(ctx context.Context, category domain.AlertCategory, interval time.Duration) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s task: %v\n%s", category, r, debug.Stack())
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("alert task stopped", slog.String("category", string(category)))
			return nil
		case <-ticker.C:
			s.tick(ctx, category)
		}
	}
}

// tick runs one poll-render-deliver cycle. The alert set is computed once
// per tick, not once per recipient; a failed delivery is logged and the
// loop moves on to the next recipient.
func (s *Scheduler) tick(ctx context.Context, category domain.AlertCategory) {
	recipients := s.registry.Snapshot()

	items, err := s.repo.ListDueAlerts(ctx, category)
	if err != nil {
		metrics.RecordSchedulerTick(string(category), "query_error")
		s.log.Error("alert query failed, skipping tick",
			slog.String("category", string(category)),
			slog.Any("error", err),
		)
		return
	}

	if len(items) == 0 {
		metrics.RecordSchedulerTick(string(category), "empty")
		return
	}

	text := Render(category, items)

	for _, recipient := range recipients {
		deliveryCtx, cancel := context.WithTimeout(ctx, s.cfg.DeliveryTimeout)
		err := s.sender.Send(deliveryCtx, recipient.ChatID, text)
		cancel()

		if err != nil {
			metrics.RecordDelivery(string(category), "error")
			s.log.Error("alert delivery failed",
				slog.String("category", string(category)),
				slog.Int64("chat_id", recipient.ChatID),
				slog.Any("error", err),
			)
			continue
		}

		metrics.RecordDelivery(string(category), "ok")
	}

	metrics.RecordSchedulerTick(string(category), "delivered")
}
