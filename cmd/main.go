package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/pickleball-ladder/config"
	"github.com/Dosada05/pickleball-ladder/db"
	"github.com/Dosada05/pickleball-ladder/handlers"
	"github.com/Dosada05/pickleball-ladder/ladder"
	"github.com/Dosada05/pickleball-ladder/middleware"
	"github.com/Dosada05/pickleball-ladder/repositories"
	api "github.com/Dosada05/pickleball-ladder/routes"
	"github.com/Dosada05/pickleball-ladder/services"
	"github.com/Dosada05/pickleball-ladder/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

const (
	schedulerInterval = 5 * time.Minute // How often idle matches and rate limiter entries are swept
	uploadsURLPrefix  = "/uploads"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.String("log_level", cfg.LogLevel.String()))

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	migrateCtx, cancelMigrate := context.WithTimeout(ctx, 30*time.Second)
	err = db.Migrate(migrateCtx, dbConn)
	cancelMigrate()
	if err != nil {
		logger.Error("failed to apply database migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Хранилище аватаров: Cloudflare R2 или локальная папка
	var uploader storage.FileUploader
	var uploadsDir string
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		uploader, err = storage.NewLocalUploader(cfg.UploadsDir, uploadsURLPrefix)
		if err != nil {
			logger.Error("failed to initialize local uploader", slog.Any("error", err))
			os.Exit(1)
		}
		uploadsDir = cfg.UploadsDir
		logger.Info("local uploader initialized", slog.String("dir", cfg.UploadsDir))
	}

	// Инициализация WebSocket Hub
	wsHub := ladder.NewHub()
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	setupRepo := repositories.NewPostgresMatchSetupRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, uploader)
	userService := services.NewUserService(userRepo, uploader, logger)
	matchService := services.NewMatchService(setupRepo, userService, wsHub, logger)

	var mailer services.EmailSender
	if cfg.SMTPEnabled() {
		mailer = services.NewEmailService(services.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		})
		logger.Info("SMTP delivery enabled", slog.String("host", cfg.SMTPHost))
	}
	shareService := services.NewShareService(matchService, mailer, cfg.PublicURL, logger)
	logger.Info("Services initialized")

	authLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit)

	// Периодическая очистка заброшенных матчей и счётчиков лимитера
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("cleanup scheduler started",
			slog.Duration("interval", schedulerInterval),
			slog.Duration("match_idle_ttl", cfg.MatchIdleTTL))

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				matchService.PruneIdle(ctx, cfg.MatchIdleTTL)
				authLimiter.Cleanup(10 * time.Minute)
			}
		}
	}()

	// Инициализация обработчиков HTTP
	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		User:      handlers.NewUserHandler(userService),
		Match:     handlers.NewMatchHandler(matchService),
		Share:     handlers.NewShareHandler(shareService),
		Schedule:  handlers.NewScheduleHandler(),
		WebSocket: handlers.NewWebSocketHandler(wsHub, matchService, cfg.CORSAllowedOrigins),
		Health:    handlers.NewHealthHandler(dbConn),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthLimiter:    authLimiter,
		UploadsDir:     uploadsDir,
		UploadsPrefix:  uploadsURLPrefix,
	})
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			stop()
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		// Hub closes spectator sockets; hijacked connections are not covered by Shutdown.
		stop()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
