package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/api/handler"
	"github.com/Freeeeeet/lesson_calendar/internal/api/router"
	"github.com/Freeeeeet/lesson_calendar/internal/app"
	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/client"
	"github.com/Freeeeeet/lesson_calendar/internal/config"
	"github.com/Freeeeeet/lesson_calendar/internal/controller"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
	"github.com/Freeeeeet/lesson_calendar/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting lesson calendar",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.Bool("bot_enabled", cfg.BotEnabled()),
	)

	// 1. Хранилище
	docs, enrollments, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	cachedDocs := repository.NewCachedDocumentStore(docs, cfg.CacheTTL())

	// 2. Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetrics(registry)

	// 3. Бот создаётся до сервисов: он же отправляет уведомления преподавателю
	var (
		botInstance *bot.Bot
		notifier    service.Notifier
	)
	if cfg.BotEnabled() {
		botInstance, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return fmt.Errorf("create telegram bot: %w", err)
		}
		notifier = controller.NewNotifier(botInstance)
	}

	// 4. Сервисы
	classifier := availability.NewClassifier(cfg.LessonDuration)
	lessons := service.NewLessonService(cachedDocs, cfg.LessonDuration, logger)
	availabilitySvc := service.NewAvailabilityService(cachedDocs, lessons, classifier,
		model.WorkHours{Start: cfg.WorkDayStart, End: cfg.WorkDayEnd}, logger)
	students := service.NewStudentService(enrollments, lessons, availabilitySvc, classifier,
		service.StudentOptions{
			UpcomingLimit: cfg.UpcomingLimit,
			WeeksAhead:    cfg.WeeksAhead,
			Location:      cfg.Location(),
		},
		notifier, metrics, logger)

	// 5. HTTP
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handler.NewHandler(handler.Services{
		Lessons:        lessons,
		Availability:   availabilitySvc,
		Students:       students,
		LessonDuration: cfg.LessonDuration,
	})
	engine := router.Setup(h, registry, logger)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         86400,
	}).Handler(engine)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 6. Очистка прошедших свободных окон
	scheduler := app.NewScheduler(availabilitySvc, cfg.PurgeCron, cfg.Location(), logger)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer scheduler.Stop()

	// 7. Telegram
	if botInstance != nil {
		var collab reschedule.Collaborator = students
		if cfg.PublicURL != "" {
			collab = client.New(cfg.PublicURL, &http.Client{Timeout: 10 * time.Second})
		}

		botController := controller.NewBotController(botInstance, controller.Deps{
			Students:       students,
			Availability:   availabilitySvc,
			Lessons:        lessons,
			Driver:         reschedule.NewDriver(collab, cfg.WeeksAhead, logger),
			LessonDuration: cfg.LessonDuration,
			Location:       cfg.Location(),
		}, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Failed to register bot commands", zap.Error(err))
		}
		go botController.Start(ctx)
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	logger.Info("Service stopped")
	return nil
}

// openStorage подключает PostgreSQL с миграциями или память для разработки
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DocumentStore, repository.EnrollmentStore, func(), error) {
	if cfg.Storage == config.StorageMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return repository.NewMemoryDocumentStore(), repository.NewMemoryEnrollmentStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}
	logger.Info("Database connected")

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	return repository.NewDocumentRepository(pool), repository.NewEnrollmentRepository(pool), pool.Close, nil
}
