package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arachnolog/broodkeeper/internal/bot"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	"github.com/arachnolog/broodkeeper/internal/database"
	"github.com/arachnolog/broodkeeper/internal/health"
	"github.com/arachnolog/broodkeeper/internal/idempotency"
	"github.com/arachnolog/broodkeeper/internal/jobs"
	jobhandlers "github.com/arachnolog/broodkeeper/internal/jobs/handlers"
	"github.com/arachnolog/broodkeeper/internal/lifecycle"
	"github.com/arachnolog/broodkeeper/internal/notify"
	"github.com/arachnolog/broodkeeper/internal/ratelimit"
	"github.com/arachnolog/broodkeeper/internal/repository"
	"github.com/arachnolog/broodkeeper/pkg/config"
	"github.com/arachnolog/broodkeeper/pkg/graceful"
	"github.com/arachnolog/broodkeeper/pkg/logger"
	"github.com/arachnolog/broodkeeper/pkg/redis"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logger)
	slog.SetDefault(log)

	log.Info("starting broodkeeper",
		slog.String("env", cfg.AppEnv),
		slog.String("log_level", cfg.Logger.Level),
	)

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Error("failed to initialize sentry", slog.Any("error", err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	config.Watch(v, log, func(updated *config.Config) {
		log.Info("runtime settings refreshed", slog.String("log_level", updated.Logger.Level))
	})

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}

	if err := db.PingContext(ctx); err != nil {
		log.Error("failed to ping database", slog.Any("error", err))
		os.Exit(1)
	}

	migrator := database.NewMigrator(db, log)
	if err := migrator.ApplyDir(ctx, "migrations"); err != nil {
		log.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}

	users := repository.NewUserRepository(db, log)
	tarantulas := repository.NewTarantulaRepository(db, log)
	colonies := repository.NewColonyRepository(db, log)
	alerts := repository.NewAlertRepository(db, log)

	convStorage := conversation.NewRedisStorage(redisClient.Client, log)
	conversations := conversation.NewManager(convStorage, log)
	convCleaner := conversation.NewCleaner(convStorage, log, time.Hour, 10*time.Minute)
	go convCleaner.Run(ctx)

	registry := notify.NewRegistry(ctx, redisClient.Client, log)
	dedup := idempotency.NewDeduplicator(redisClient, log)
	limiter := ratelimit.New(20, time.Minute)
	limiterCleaner := ratelimit.NewCleaner(limiter, log, 10*time.Minute, time.Minute)
	go limiterCleaner.Run(ctx)

	tgBot, err := bot.New(*cfg, log, bot.Deps{
		Users:         users,
		Tarantulas:    tarantulas,
		Colonies:      colonies,
		Conversations: conversations,
		Registry:      registry,
		Dedup:         dedup,
		Limiter:       limiter,
	})
	if err != nil {
		log.Error("failed to build telegram bot", slog.Any("error", err))
		os.Exit(1)
	}

	alertScheduler := notify.NewScheduler(registry, alerts, tgBot.Sender(), cfg.Notify, log)
	alertScheduler.Start(ctx)

	var jobScheduler jobs.Scheduler
	var jobWorker jobs.Worker
	if cfg.Jobs.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		jobScheduler = jobs.NewScheduler(redisOpt, cfg.Jobs.PurgeCron, cfg.Jobs.RetentionDays, log)
		if err := jobScheduler.RegisterTasks(); err != nil {
			log.Error("failed to register background tasks", slog.Any("error", err))
			os.Exit(1)
		}
		jobScheduler.Run()

		jobWorker = jobs.NewWorker(redisOpt, map[string]int{jobs.QueueDefault: 2, jobs.QueueLow: 1}, log)
		jobWorker.RegisterHandler(jobs.TaskTypePurgeRecords, jobhandlers.NewRetentionHandler(alerts, log))
		go func() {
			if err := jobWorker.Run(); err != nil {
				log.Error("jobs worker stopped", slog.Any("error", err))
			}
		}()
	}

	checker := health.NewChecker(log)
	checker.AddCheck("postgres", health.NewDBChecker(db))
	checker.AddCheck("redis", health.NewRedisChecker(redisClient.Client))
	checker.AddCheck("telegram", health.NewTelegramChecker(tgBot.Telebot()))

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Handle("/healthz", checker.Handler())

		srv := graceful.NewServer(log, &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}, shutdownTimeout)

		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	go tgBot.Start()
	log.Info("broodkeeper is running")

	<-ctx.Done()

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("telegram", func(context.Context) error {
		tgBot.Stop()
		return nil
	})
	shutdown.Register("alert-scheduler", func(context.Context) error {
		alertScheduler.Wait()
		return nil
	})
	if jobScheduler != nil {
		shutdown.Register("job-scheduler", func(context.Context) error {
			jobScheduler.Shutdown()
			return nil
		})
	}
	if jobWorker != nil {
		shutdown.Register("job-worker", func(context.Context) error {
			jobWorker.Shutdown()
			return nil
		})
	}
	shutdown.Register("redis", func(context.Context) error {
		return redisClient.Close()
	})
	shutdown.Register("postgres", func(context.Context) error {
		return db.Close()
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown.Execute(shutdownCtx); err != nil {
		log.Error("shutdown finished with errors", slog.Any("error", err))
	}

	log.Info("broodkeeper stopped")
}
