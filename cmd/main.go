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

	"github.com/go-chi/chi/v5"

	"github.com/jdl-league/constructor-system/config"
	"github.com/jdl-league/constructor-system/db"
	"github.com/jdl-league/constructor-system/handlers"
	"github.com/jdl-league/constructor-system/middleware"
	"github.com/jdl-league/constructor-system/repositories"
	api "github.com/jdl-league/constructor-system/routes"
	"github.com/jdl-league/constructor-system/services"
	"github.com/jdl-league/constructor-system/storage"
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
	client, err := db.Connect(cfg.MongoURI, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")
	database := client.Database(cfg.MongoDatabase)

	// Инициализация загрузчика файлов (Cloudflare R2)
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
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
		uploader = storage.NewDisabledUploader()
		logger.Warn("R2 storage is not configured, logo uploads are disabled")
	}

	// Инициализация репозиториев
	playerRepo := repositories.NewMongoPlayerRepository(database)
	teamRepo := repositories.NewMongoTeamRepository(database)
	tournamentRepo := repositories.NewMongoTournamentRepository(database)
	classChangeRepo := repositories.NewMongoClassChangeRepository(client, database)
	permissionRepo := repositories.NewMongoTeamPermissionRepository(database)
	permissionHistoryRepo := repositories.NewMongoTeamPermissionHistoryRepository(database)
	userRepo := repositories.NewMongoUserRepository(database)
	settingRepo := repositories.NewMongoSystemSettingRepository(database)
	notificationRepo := repositories.NewMongoNotificationRepository(database)
	logger.Info("repositories initialized")

	// Инициализация сервисов
	emailService := services.NewEmailService(cfg)
	notificationService := services.NewNotificationService(notificationRepo, emailService, cfg.AdminEmail, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, logger)
	teamService := services.NewTeamService(teamRepo, playerRepo, uploader, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, playerRepo, teamRepo, logger)
	classChangeService := services.NewClassChangeService(classChangeRepo, playerRepo, notificationService, logger)
	permissionService := services.NewTeamPermissionService(permissionRepo, permissionHistoryRepo, teamRepo, logger)
	adminService := services.NewAdminService(userRepo, playerRepo, teamRepo, tournamentRepo, logger)
	settingService := services.NewSystemSettingService(settingRepo)
	integrityService := services.NewDataIntegrityService(playerRepo, teamRepo, logger)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	playerHandler := handlers.NewPlayerHandler(playerService)
	teamHandler := handlers.NewTeamHandler(teamService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	classChangeHandler := handlers.NewClassChangeHandler(classChangeService)
	permissionHandler := handlers.NewTeamPermissionHandler(permissionService)
	adminHandler := handlers.NewAdminHandler(adminService, integrityService)
	settingHandler := handlers.NewSystemSettingHandler(settingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	auth := middleware.NewAuthenticator(cfg.JWTSecretKey)
	api.SetupRoutes(
		router,
		auth,
		cfg.CORSOrigins,
		playerHandler,
		teamHandler,
		tournamentHandler,
		classChangeHandler,
		permissionHandler,
		adminHandler,
		settingHandler,
		notificationHandler,
	)
	logger.Info("routes configured")

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
		}
		logger.Info("server stopped gracefully")
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
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
