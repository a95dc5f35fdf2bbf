// Package bot wires the Telegram transport to the application's handlers.
package bot

import (
	"context"
	"fmt"
	"log/slog"

	telebot "gopkg.in/telebot.v3"

	"github.com/arachnolog/broodkeeper/internal/action"
	"github.com/arachnolog/broodkeeper/internal/bot/handlers"
	"github.com/arachnolog/broodkeeper/internal/bot/keyboard"
	"github.com/arachnolog/broodkeeper/internal/conversation"
	apperrors "github.com/arachnolog/broodkeeper/internal/errors"
	"github.com/arachnolog/broodkeeper/internal/idempotency"
	"github.com/arachnolog/broodkeeper/internal/notify"
	"github.com/arachnolog/broodkeeper/internal/ratelimit"
	"github.com/arachnolog/broodkeeper/internal/repository"
	"github.com/arachnolog/broodkeeper/pkg/config"
)

// Deps carries the application services the bot handlers depend on.
type Deps struct {
	Users         repository.UserRepository
	Tarantulas    repository.TarantulaRepository
	Colonies      repository.ColonyRepository
	Conversations *conversation.Manager
	Registry      *notify.Registry
	Dedup         *idempotency.Deduplicator
	Limiter       *ratelimit.Limiter
}

// Bot wraps telebot.Bot with the routing stack.
type Bot struct {
	telebot    *telebot.Bot
	log        *slog.Logger
	router     *Router
	dispatcher *Dispatcher
	keyboard   *keyboard.Builder
	errHandler *apperrors.Handler
}

// New builds a telegram bot instance configured according to the application settings.
func New(cfg config.Config, log *slog.Logger, deps Deps) (*Bot, error) {
	settings := telebot.Settings{
		Token:   cfg.Bot.Token,
		Offline: cfg.Bot.Offline,
		Poller: &telebot.LongPoller{
			Timeout: cfg.Bot.PollTimeout,
		},
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	kb := keyboard.NewBuilder(log)
	dispatcher := NewDispatcher(log)
	router := NewRouter(dispatcher, deps.Conversations, log)
	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	b := &Bot{
		telebot:    tb,
		log:        log,
		router:     router,
		dispatcher: dispatcher,
		keyboard:   kb,
		errHandler: errHandler,
	}

	b.setupRouter(deps)

	tb.Handle(telebot.OnText, router.Route)
	tb.Handle(telebot.OnCallback, router.Route)

	return b, nil
}

// Start runs the telegram bot event loop.
func (b *Bot) Start() {
	b.telebot.Start()
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	b.log.Info("stopping telegram bot...")
	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for integrations such as health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

// Sender returns a notify.Sender that delivers alerts through this bot.
func (b *Bot) Sender() notify.Sender {
	tb := b.telebot
	return &telegramSender{
		send: func(chatID int64, text string) error {
			_, err := tb.Send(&telebot.Chat{ID: chatID}, text)
			return err
		},
	}
}

func (b *Bot) setupRouter(deps Deps) {
	r := b.router
	kb := b.keyboard
	log := b.log

	r.Use(RecoveryMiddleware(log, b.errHandler))
	r.Use(IdempotencyMiddleware(deps.Dedup))
	r.Use(RateLimitMiddleware(deps.Limiter, log))
	r.Use(ErrorHandlingMiddleware(b.errHandler))
	r.Use(LoggingMiddleware(log))
	r.Use(AuthMiddleware(deps.Users, log))
	r.Use(MetricsMiddleware)

	r.RegisterCommand(CommandStart, handlers.NewStartHandler(deps.Registry, kb, log))
	r.RegisterCommand(CommandHelp, handlers.NewHelpHandler())
	r.RegisterCommand(CommandMenu, handlers.NewMenuCommandHandler(kb))
	r.RegisterCommand(CommandCancel, handlers.NewCancelHandler(deps.Conversations, kb, log))
	r.RegisterCommand(CommandAddTarantula, handlers.NewAddTarantulaHandler(deps.Tarantulas, kb, log))
	r.RegisterCommand(CommandAddColony, handlers.NewAddColonyHandler(deps.Colonies, kb, log))

	r.RegisterCompletion(conversation.KindMoltSize, handlers.NewMoltSizeCompletion(deps.Tarantulas, kb, log))
	r.RegisterCompletion(conversation.KindColonyDelta, handlers.NewColonyDeltaCompletion(deps.Colonies, kb, log))

	r.SetDefault(handlers.NewMenuCommandHandler(kb))

	d := b.dispatcher
	d.Register(action.MainMenu{}.Tag(), handlers.HandleMainMenu(kb))
	d.Register(action.Maintenance{}.Tag(), handlers.HandleMaintenance(kb))
	d.Register(action.StatusOverview{}.Tag(), handlers.HandleStatusOverview(deps.Tarantulas, deps.Colonies, kb))

	d.Register(action.ListTarantulas{}.Tag(), handlers.HandleListTarantulas(deps.Tarantulas, kb))
	d.Register(action.FeedingSchedule{}.Tag(), handlers.HandleFeedingSchedule(deps.Tarantulas, kb))
	d.Register(action.HealthAlerts{}.Tag(), handlers.HandleHealthAlerts(deps.Tarantulas, kb))

	d.Register(action.RecordFeeding{}.Tag(), handlers.HandleRecordFeeding(deps.Tarantulas, kb))
	d.Register(action.FeedTarantula{}.Tag(), handlers.HandleFeedTarantula(deps.Colonies, kb))
	d.Register(action.FeedSelectColony{}.Tag(), handlers.HandleFeedSelectColony(kb))
	d.Register(action.FeedConfirm{}.Tag(), handlers.HandleFeedConfirm(deps.Tarantulas, kb, log))

	d.Register(action.RecordHealthCheck{}.Tag(), handlers.HandleRecordHealthCheck(deps.Tarantulas, kb))
	d.Register(action.HealthCheck{}.Tag(), handlers.HandleHealthCheck(kb))
	d.Register(action.HealthStatus{}.Tag(), handlers.HandleHealthStatus(deps.Tarantulas, kb))

	d.Register(action.RecordMolt{}.Tag(), handlers.HandleRecordMolt(deps.Tarantulas, kb))
	d.Register(action.MoltSimple{}.Tag(), handlers.HandleMoltSimple(deps.Conversations))
	d.Register(action.MoltHistory{}.Tag(), handlers.HandleMoltHistory(deps.Tarantulas, kb))

	d.Register(action.Colonies{}.Tag(), handlers.HandleColonies(deps.Colonies, kb))
	d.Register(action.ColonyMaintenance{}.Tag(), handlers.HandleColonyMaintenance(deps.Colonies, kb))
	d.Register(action.ColonyMaintenanceMenu{}.Tag(), handlers.HandleColonyMaintenanceMenu(deps.Colonies, kb))
	d.Register(action.ColonyCount{}.Tag(), handlers.HandleColonyCount(deps.Conversations))
	d.Register(action.ColonyCountUpdate{}.Tag(), handlers.HandleColonyCountUpdate(deps.Colonies, kb))

	d.Register(action.ViewRecords{}.Tag(), handlers.HandleViewRecords(kb))
	d.Register(action.ViewFeedingRecords{}.Tag(), handlers.HandleViewFeedingRecords(deps.Tarantulas, kb))
	d.Register(action.ViewHealthRecords{}.Tag(), handlers.HandleViewHealthRecords(deps.Tarantulas, kb))
	d.Register(action.ViewMoltRecords{}.Tag(), handlers.HandleViewMoltRecords(deps.Tarantulas, kb))
}

// telegramSender adapts telebot to the notification scheduler's Sender.
// Telebot calls cannot observe a context, so the delivery runs in its own
// goroutine and the caller is released when the context deadline passes.
type telegramSender struct {
	send func(chatID int64, text string) error
}

func (s *telegramSender) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.send(chatID, text)
	}()

	select {
	case <-ctx.Done():
		return apperrors.NewTelegramError(ctx.Err())
	case err := <-done:
		if err != nil {
			return apperrors.NewTelegramError(err)
		}
		return nil
	}
}
