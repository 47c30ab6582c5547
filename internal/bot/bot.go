package bot

import (
	"context"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("brainrot-bot/bot")

// Config holds the bot's collaborators. Metrics and Clock are optional.
type Config struct {
	Usecases *usecase.Usecases
	Sender   domain.Sender
	Sessions domain.SessionStore
	Metrics  *metrics.MetricsManager
	Clock    usecase.Clock
	Logger   *logger.Logger
}

// Bot turns inbound chat events into usecase calls and replies.
type Bot struct {
	uc       *usecase.Usecases
	sender   domain.Sender
	sessions domain.SessionStore
	metrics  *metrics.MetricsManager
	now      usecase.Clock
	logger   *logger.Logger
}

func New(cfg Config) *Bot {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Bot{
		uc:       cfg.Usecases,
		sender:   cfg.Sender,
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		now:      now,
		logger:   cfg.Logger.Named("Bot"),
	}
}

// sessionCounter is implemented by session stores that can report how
// many browse cursors they hold.
type sessionCounter interface {
	TrackedSessions(ctx context.Context) (int, error)
}

// Dispatch handles one event to completion. Errors and panics are
// contained here: the user always gets an answer and the caller never
// sees a failure.
func (b *Bot) Dispatch(ctx context.Context, ev Event) {
	updateID := uuid.NewString()
	log := b.logger.With(
		zap.String("update_id", updateID),
		zap.Int64("user_id", ev.UserID()),
		zap.String("kind", string(ev.Kind)),
	)
	ctx, span := tracer.Start(ctx, "Bot.Dispatch."+string(ev.Kind), trace.WithAttributes(
		attribute.String("update_id", updateID),
		attribute.Int64("user_id", ev.UserID()),
		attribute.String("command", ev.Command),
	))
	defer span.End()

	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while handling event", zap.Any("panic", r), zap.Stack("stack"))
			span.SetStatus(codes.Error, "panic")
			outcome = "panic"
			b.reply(ctx, ev, msgInternal, nil)
		}
		if b.metrics != nil {
			b.metrics.EventsHandledTotal.WithLabelValues(string(ev.Kind), outcome).Inc()
			b.metrics.EventHandlingLatency.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
		}
	}()

	if _, err := b.uc.Users.Touch(ctx, ev.From); err != nil {
		log.Warn("Failed to register user", zap.Error(err))
	}

	var err error
	switch ev.Kind {
	case EventCommand:
		err = b.onCommand(ctx, ev)
	case EventText:
		err = b.onText(ctx, ev)
	case EventCallback:
		err = b.onCallback(ctx, ev)
	default:
		log.Warn("Unknown event kind")
		return
	}
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		b.fail(ctx, log, ev, err)
	}
	log.Debug("Event handled", zap.Duration("took", time.Since(start)))
}

func (b *Bot) reply(ctx context.Context, ev Event, text string, markup *domain.Markup) {
	b.send(ctx, ev.chat(), text, markup)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup *domain.Markup) {
	if err := b.sender.Send(ctx, domain.Message{ChatID: chatID, Text: text, Markup: markup}); err != nil {
		b.logger.Warn("Failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) answer(ctx context.Context, ev Event, text string) {
	if ev.CallbackID == "" {
		return
	}
	if err := b.sender.AnswerCallback(ctx, ev.CallbackID, text); err != nil {
		b.logger.Debug("Failed to answer callback", zap.String("callback_id", ev.CallbackID), zap.Error(err))
	}
}

func (b *Bot) isAdmin(userID int64) bool { return b.uc.Admin.IsAdmin(userID) }

func (b *Bot) welcome(ctx context.Context, ev Event) {
	b.reply(ctx, ev, "🎮 Steal A Brainrot Shop\n\nChoose your role:", mainMenu(b.isAdmin(ev.UserID())))
}
