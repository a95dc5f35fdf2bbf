package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/bot/handlers"
	"github.com/arachnolog/broodkeeper/internal/domain"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/idempotency"
	"github.com/arachnolog/broodkeeper/internal/ratelimit"
	"github.com/arachnolog/broodkeeper/internal/repository"
	"github.com/arachnolog/broodkeeper/pkg/logger"
	"github.com/arachnolog/broodkeeper/pkg/metrics"
)

// RecoveryMiddleware catches panics, reports them via the centralized handler, and notifies the user.
func RecoveryMiddleware(log *slog.Logger, errHandler *apperrors.Handler) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)

					userMsg := "⚠️ Something went wrong. Please try again later."
					if errHandler != nil {
						appErr := apperrors.NewDatabaseError(fmt.Errorf("panic recovered: %v", r))
						if msg, _ := errHandler.Handle(context.Background(), appErr); msg != "" {
							userMsg = msg
						}
					}

					if sendErr := c.Send(userMsg); sendErr != nil {
						log.Error("failed to notify user about panic", slog.Any("error", sendErr))
					}

					err = nil
				}
			}()

			return next(c)
		}
	}
}

// ErrorHandlingMiddleware centralizes error reporting and user messaging for handler failures.
func ErrorHandlingMiddleware(errHandler *apperrors.Handler) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			ctx := logger.WithCorrelationID(context.Background())
			userMsg, _ := errHandler.Handle(ctx, err)

			_ = c.Send(userMsg)
			return nil
		}
	}
}

// LoggingMiddleware logs basic telemetry about incoming updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			start := time.Now()

			userID := int64(0)
			if c.Sender() != nil {
				userID = c.Sender().ID
			}

			err := next(c)
			log.Info("handled update",
				slog.Int64("user_id", userID),
				slog.String("payload", updatePayload(c)),
				slog.Duration("duration", time.Since(start)),
				slog.Any("error", err),
			)

			return err
		}
	}
}

// MetricsMiddleware measures execution time and status per action or command.
func MetricsMiddleware(next handlers.Handler) handlers.Handler {
	return func(c telebot.Context) error {
		start := time.Now()
		err := next(c)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordAction(updatePayload(c), status, time.Since(start))
		return err
	}
}

// AuthMiddleware upserts the keeper row for the sender and attaches it to
// the context for downstream handlers.
func AuthMiddleware(users repository.UserRepository, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			user, err := users.EnsureUser(context.Background(), &domain.User{
				TelegramID: sender.ID,
				FirstName:  sender.FirstName,
				LastName:   sender.LastName,
				Username:   sender.Username,
			})
			if err != nil {
				log.Error("failed to ensure user", slog.Int64("telegram_id", sender.ID), slog.Any("error", err))
				return apperrors.NewDatabaseError(err)
			}

			handlers.WithUser(c, user)
			return next(c)
		}
	}
}

// RateLimitMiddleware throttles per-sender update rates.
func RateLimitMiddleware(limiter *ratelimit.Limiter, log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			if err := limiter.Allow(fmt.Sprintf("user:%d", sender.ID)); err != nil {
				log.Warn("rate limit hit", slog.Int64("user_id", sender.ID))
				return c.Send("⏳ Slow down a little, please.")
			}

			return next(c)
		}
	}
}

// IdempotencyMiddleware drops duplicate deliveries of the same callback tap.
func IdempotencyMiddleware(dedup *idempotency.Deduplicator) handlers.Middleware {
	return func(next handlers.Handler) handlers.Handler {
		return func(c telebot.Context) error {
			cb := c.Callback()
			if cb == nil {
				return next(c)
			}

			if dedup.Seen(context.Background(), cb.ID) {
				return c.Respond(&telebot.CallbackResponse{})
			}

			return next(c)
		}
	}
}

func updatePayload(c telebot.Context) string {
	if cb := c.Callback(); cb != nil && cb.Data != "" {
		return cb.Data
	}

	if text := c.Text(); text != "" {
		return text
	}

	return "unknown"
}
