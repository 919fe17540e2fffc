package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cpghub_cleanup/internal/app"
	"cpghub_cleanup/internal/domain/job"
	"cpghub_cleanup/internal/domain/profile"
	"cpghub_cleanup/internal/infra/claims"
	"cpghub_cleanup/internal/infra/config"
	idb "cpghub_cleanup/internal/infra/database"
	"cpghub_cleanup/internal/infra/httpserver"
	"cpghub_cleanup/internal/infra/logger"
	"cpghub_cleanup/internal/infra/postgrest"
	"cpghub_cleanup/internal/infra/resend"
	"cpghub_cleanup/internal/infra/scheduler"
	"cpghub_cleanup/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("CPG Hub expired job cleanup starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	mainLogger := logger.Component("main")
	mainLogger.WithField("environment", cfg.Environment).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Data store: direct Postgres when DATABASE_URL is set, REST API otherwise.
	var (
		jobRepo     job.Repository
		profileRepo profile.Repository
	)
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		jobRepo = idb.NewPostgresJobRepository(db)
		profileRepo = idb.NewPostgresProfileRepository(db)
		mainLogger.Info("Using direct Postgres data store")
	} else {
		restClient := postgrest.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.HTTPClientTimeout)
		jobRepo = postgrest.NewJobRepository(restClient)
		profileRepo = postgrest.NewProfileRepository(restClient)
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			mainLogger.Warn("Data store URL or service key is not set; cleanup runs will fail until configured")
		} else {
			mainLogger.Info("Using REST data store")
		}
	}

	mailer := resend.NewClient(resend.Config{
		APIKey:  cfg.ResendAPIKey,
		BaseURL: cfg.ResendAPIURL,
		Timeout: cfg.HTTPClientTimeout,
	})

	opts := app.Options{
		Jobs:      jobRepo,
		Profiles:  profileRepo,
		Mailer:    mailer,
		FromEmail: cfg.FromEmail,
		Logger:    logger.Component("cleanup"),
	}
	if cfg.RedisURL != "" {
		redisClient, err := claims.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to Redis")
		}
		defer redisClient.Close()
		claimer, err := claims.NewRedisClaimer(redisClient, cfg.ClaimTTL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create job claimer")
		}
		opts.Claimer = claimer
		mainLogger.Info("Per-job claims enabled")
	}
	cleanupService := app.NewCleanupService(opts)

	// Optional operator bot: run summaries and the /run_cleanup command.
	var (
		bot      *telebot.Bot
		reporter scheduler.RunReporter
	)
	if cfg.TelegramToken != "" {
		botLogger := logger.Component("telegram")
		bot, err = telebot.NewBot(telebot.Settings{
			Token:  cfg.TelegramToken,
			Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
			OnError: func(err error, c telebot.Context) {
				entry := botLogger.WithError(err)
				if c != nil && c.Sender() != nil {
					entry = entry.WithField("sender_id", c.Sender().ID)
				}
				entry.Error("Telegram handler error")
			},
		})
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not create Telegram bot")
		}
		telegram.RegisterAdminHandlers(ctx, bot, cleanupService, cfg.AdminTelegramID, botLogger)
		reporter = telegram.NewRunReporter(telegram.NewTelebotAdapter(bot), cfg.AdminTelegramID, botLogger)
		go bot.Start()
		mainLogger.Info("Telegram operator bot started")
	}

	cleanupScheduler := scheduler.NewCleanupScheduler(cleanupService, reporter, logger.Component("scheduler"), cfg.CronSpecCleanup)
	if err := cleanupScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start scheduler")
	}

	server := httpserver.NewServer(cleanupService, logger.Component("http"), cfg.HTTPAddr, cfg.Environment == "production")
	if err := server.Run(ctx); err != nil {
		mainLogger.WithError(err).Error("HTTP server stopped with error")
	}

	mainLogger.Info("Shutting down application...")
	cleanupScheduler.Stop()
	if bot != nil {
		bot.Stop()
	}
	mainLogger.Info("Application shut down gracefully.")
}
