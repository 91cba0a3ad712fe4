package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anonbot/internal/config"
	"anonbot/internal/domain"
	"anonbot/internal/handler"
	"anonbot/internal/logger"
	"anonbot/internal/middleware"
	"anonbot/internal/ratelimit"
	"anonbot/internal/repository/sqlstore"
	"anonbot/internal/scheduler"
	"anonbot/internal/service"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	telemw "gopkg.in/telebot.v3/middleware"
)

// requestTimeout bounds the storage work of a single update
const requestTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting anonymous question bot",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Bool("shared_rate_limit", cfg.RedisURL != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database with retries
	db, err := sqlstore.Connect(ctx, cfg.Database.Driver, cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Database connection established")

	if err := sqlstore.Migrate(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	clock := clockwork.NewRealClock()

	// Initialize repositories
	stateRepo := sqlstore.NewStateRepo(db)
	sessionRepo := sqlstore.NewSessionRepo(db)
	questionRepo := sqlstore.NewQuestionRepo(db)
	settingsRepo := sqlstore.NewSettingsRepo(db)

	// Initialize services
	defaults := domain.Settings{
		QuestionsPerHour:  cfg.Limits.QuestionsPerHour,
		CooldownSeconds:   cfg.Limits.CooldownSeconds,
		MinQuestionLength: cfg.Limits.MinQuestionLength,
		MaxQuestionLength: cfg.Limits.MaxQuestionLength,
	}
	settingsService := service.NewSettingsService(settingsRepo, defaults, clock, log)
	stateService := service.NewUserStateService(stateRepo, clock, log)
	sessionService := service.NewSessionService(sessionRepo, questionRepo, clock, cfg.Limits.AnswerSessionTTL, log)
	questionService := service.NewQuestionService(questionRepo, settingsService, clock)

	// Rate limiting
	store, closeStore, err := newRateLimitStore(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("Failed to initialize rate limit store", zap.Error(err))
	}
	defer closeStore()

	questionLimiter := ratelimit.NewLimiter(store, settingsService, clock, log)
	callbackLimiter := middleware.NewCallbackLimiter(middleware.CallbackLimitOptions{
		Interval: cfg.Limits.CallbackInterval,
		AdminID:  cfg.AdminID,
		Exempt:   []string{"ask_another"},
		Clock:    clock,
		Logger:   log,
	})

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: cfg.PollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Error("Unhandled bot error", zap.Error(err))
		},
	})
	if err != nil {
		log.Fatal("Failed to create bot", zap.Error(err))
	}

	log.Info("Telegram bot initialized", zap.String("username", bot.Me.Username))

	// Middleware must be installed before handlers are registered
	bot.Use(
		telemw.Recover(),
		middleware.RequestLogger(log, requestTimeout),
		callbackLimiter.Middleware,
		middleware.QuestionRateLimit(middleware.QuestionLimitOptions{
			AdminID: cfg.AdminID,
			States:  stateService,
			Limiter: questionLimiter,
			Logger:  log,
		}),
	)

	h := handler.NewHandler(bot, cfg.AdminID, stateService, sessionService, questionService, settingsService, log)
	h.RegisterHandlers(bot)

	log.Info("Handlers registered")

	// Periodic maintenance
	cleanup := service.NewCleanupService(
		stateService,
		sessionService,
		cfg.Limits.StateIdleAfter,
		cfg.Limits.RateLimitIdleAfter,
		log,
		questionLimiter,
		callbackLimiter,
	)
	jobs, err := scheduler.Start(ctx, scheduler.Tasks(cleanup, db), log)
	if err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// Start bot in background
	go func() {
		log.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	if err := jobs.Shutdown(); err != nil {
		log.Warn("Failed to stop scheduler", zap.Error(err))
	}

	log.Info("Bot stopped gracefully")
}

// newRateLimitStore returns a Redis store when url is set, otherwise an in-memory one
func newRateLimitStore(ctx context.Context, url string, log *zap.Logger) (ratelimit.Store, func(), error) {
	if url == "" {
		return ratelimit.NewMemoryStore(), func() {}, nil
	}

	store, err := ratelimit.NewRedisStore(url)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	log.Info("Using Redis for rate limits")
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn("Failed to close Redis client", zap.Error(err))
		}
	}, nil
}
