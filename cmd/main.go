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

	"github.com/dachrisch/leaguesphere/config"
	"github.com/dachrisch/leaguesphere/db"
	"github.com/dachrisch/leaguesphere/handlers"
	"github.com/dachrisch/leaguesphere/repositories"
	api "github.com/dachrisch/leaguesphere/routes"
	"github.com/dachrisch/leaguesphere/services"
	"github.com/dachrisch/leaguesphere/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

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

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.HasR2() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Warn("R2 credentials not configured, logo endpoints disabled")
	}

	// Инициализация репозиториев
	gamedayRepo := repositories.NewPostgresGamedayRepository(dbConn)
	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	templateRepo := repositories.NewPostgresTemplateRepository(dbConn)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	loader := services.NewSnapshotLoader(gamedayRepo, gameRepo, resultRepo, teamRepo)
	standingsService := services.NewStandingsService(loader)
	resolutionService := services.NewResolutionService(loader)
	slotMatcher := services.NewPositionalSlotMatcher(templateRepo)
	scheduleService := services.NewScheduleService(loader, slotMatcher, logger)
	ruleEngine := services.NewRuleEngine(loader, templateRepo, resultRepo, gameRepo, logger)
	cascadeService := services.NewCascadeService(loader, ruleEngine, logger)
	gameService := services.NewGameService(gameRepo, resultRepo, cascadeService, logger)
	gamedayService := services.NewGamedayService(dbConn, gamedayRepo, gameRepo, resultRepo, teamRepo, logger)
	teamService := services.NewTeamService(teamRepo, uploader, logger)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	gamedayHandler := handlers.NewGamedayHandler(gamedayService, scheduleService, standingsService, resolutionService)
	gameHandler := handlers.NewGameHandler(gameService, resolutionService)
	teamHandler := handlers.NewTeamHandler(teamService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, gamedayHandler, gameHandler, teamHandler)
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
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
