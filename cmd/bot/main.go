package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	// Adapters
	"github.com/gget5897-gif/brainrot-bot/internal/adapter/email"
	natsAdapter "github.com/gget5897-gif/brainrot-bot/internal/adapter/messaging/nats"
	"github.com/gget5897-gif/brainrot-bot/internal/adapter/repository/sqldb"
	memorySession "github.com/gget5897-gif/brainrot-bot/internal/adapter/session/memory"
	redisSession "github.com/gget5897-gif/brainrot-bot/internal/adapter/session/redis"
	"github.com/gget5897-gif/brainrot-bot/internal/adapter/telegram"

	"github.com/gget5897-gif/brainrot-bot/internal/bot"
	"github.com/gget5897-gif/brainrot-bot/internal/config"
	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/usecase"
	"github.com/gget5897-gif/brainrot-bot/internal/worker"

	// Platform
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/metrics"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	dispatchQueueSize = 64
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig(appLogger)
	if errors.Is(err, config.ErrMissingToken) {
		appLogger.Fatal("Bot token is required, refusing to start", zap.Error(err))
	}
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTExporterOTLPEndpoint != "" {
		tp := tracer.InitTracer(cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("OpenTelemetry Tracer not initialized (OTEL_EXPORTER_OTLP_ENDPOINT not set).")
	}

	db, err := sqldb.Connect(ctx, cfg.DatabaseURL, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	var sessions domain.SessionStore
	if cfg.RedisAddress != "" {
		redisClient, err := redisSession.NewClient(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		sessions = redisSession.NewStore(redisClient, cfg.SessionTTL)
		appLogger.Info("Using Redis session store", zap.String("addr", cfg.RedisAddress))
	} else {
		sessions = memorySession.NewStore()
		appLogger.Info("Using in-memory session store")
	}

	var publisher usecase.EventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS publisher", zap.Error(err))
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	var alerter usecase.Alerter
	if cfg.SMTP.Enabled() && len(cfg.AdminEmails) > 0 {
		smtpAlerter, err := email.NewSMTPAlerter(cfg.SMTP, cfg.AdminEmails, appLogger)
		if err != nil {
			appLogger.Fatal("Failed to initialize SMTP alerter", zap.Error(err))
		}
		alerter = smtpAlerter
	}

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	metricsServer := metrics.NewServer(cfg.MetricsPort, metrics.NewRouter(metricsManager.Registry, db.PingContext), appLogger)
	if metricsServer != nil {
		metricsServer.Start()
	}

	client, err := telegram.NewClient(cfg.BotToken, false, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	uc := usecase.New(usecase.Deps{
		Listings:  sqldb.NewListingRepository(db, appLogger),
		Users:     sqldb.NewUserRepository(db, appLogger),
		Reviews:   sqldb.NewReviewRepository(db, appLogger),
		Actions:   sqldb.NewAdminActionRepository(db, appLogger),
		Sessions:  sessions,
		Sender:    client,
		Publisher: publisher,
		Alerter:   alerter,
		Metrics:   metricsManager,
		Admins:    usecase.NewAdminSet(cfg.AdminIDs),
		Logger:    appLogger,
	}, usecase.Settings{
		ListingTTL:          cfg.Lifecycle.ListingTTL,
		RenewalCooldown:     cfg.Lifecycle.RenewalCooldown,
		ExpiryWarningWindow: cfg.Lifecycle.ExpiryWarningWindow,
		RelevanceMaxAge:     cfg.Lifecycle.RelevanceMaxAge,
		DailyListingLimit:   cfg.DailyListingLimit,
	})

	chatBot := bot.New(bot.Config{
		Usecases: uc,
		Sender:   client,
		Sessions: sessions,
		Metrics:  metricsManager,
		Logger:   appLogger,
	})

	dispatcher := bot.NewDispatcher(chatBot.Dispatch, cfg.DispatchWorkers, dispatchQueueSize, appLogger)
	dispatcher.Start(ctx)

	loopsDone := make(chan struct{})
	go func() {
		defer close(loopsDone)
		worker.RunAll(ctx,
			worker.NewLoop("expiry", cfg.Lifecycle.ExpiryCheckInterval, worker.Batch(uc.Lifecycle.NotifyExpiring), metricsManager, appLogger),
			worker.NewLoop("relevance", cfg.Lifecycle.RelevanceCheckInterval, worker.Batch(uc.Lifecycle.CheckRelevance), metricsManager, appLogger),
		)
	}()

	appLogger.Info("Bot is running", zap.Int("dispatch_workers", cfg.DispatchWorkers), zap.Int("admins", len(cfg.AdminIDs)))
	client.Run(ctx, dispatcher.Submit)

	appLogger.Info("Received shutdown signal, draining...")
	dispatcher.Stop()
	<-loopsDone

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	appLogger.Info("Application shut down")
}
