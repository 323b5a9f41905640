package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rockodragon/wonderwall-backend/internal/analytics"
	"github.com/rockodragon/wonderwall-backend/internal/config"
	"github.com/rockodragon/wonderwall-backend/internal/db"
	"github.com/rockodragon/wonderwall-backend/internal/geo"
	"github.com/rockodragon/wonderwall-backend/internal/goroutine"
	httpHandlers "github.com/rockodragon/wonderwall-backend/internal/http/handlers"
	httpRouter "github.com/rockodragon/wonderwall-backend/internal/http/router"
	"github.com/rockodragon/wonderwall-backend/internal/logger"
	"github.com/rockodragon/wonderwall-backend/internal/repository"
	"github.com/rockodragon/wonderwall-backend/internal/service"
	"github.com/rockodragon/wonderwall-backend/internal/storage"
	"github.com/rockodragon/wonderwall-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	artifactRepo := repository.NewArtifactRepository(dbConn)
	wonderingRepo := repository.NewWonderingRepository(dbConn)
	eventRepo := repository.NewEventRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	conversationRepo := repository.NewConversationRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)
	inviteRepo := repository.NewInviteRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	moderationRepo := repository.NewModerationRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Кэш и клиенты внешних сервисов.
	cacheService := service.NewCacheService()
	geocoder := geo.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderEmail, cacheService, service.GeocodeCacheKey)
	analyticsClient := analytics.NewClient(cfg.AnalyticsEndpoint, cfg.AnalyticsToken)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	notificationService := service.NewNotificationService(notificationRepo, hub)
	inviteService := service.NewInviteService(inviteRepo)
	authService := service.NewAuthService(userRepo, inviteService, tokenManager, cfg.InviteGrantCount)
	profileService := service.NewProfileService(userRepo, cacheService)
	artifactService := service.NewArtifactService(artifactRepo, cacheService)
	wonderingService := service.NewWonderingService(wonderingRepo, cfg.WonderingTTL)
	eventService := service.NewEventService(eventRepo, notificationService)
	jobService := service.NewJobService(jobRepo)
	messageService := service.NewMessageService(conversationRepo, moderationRepo, userRepo, notificationService)
	favoriteService := service.NewFavoriteService(favoriteRepo, userRepo, eventRepo)
	moderationService := service.NewModerationService(moderationRepo)

	// Фоновая чистка просроченных размышлений.
	goroutine.SafeGo(func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := wonderingService.PurgeExpired(ctx); err != nil {
					log.Printf("main: ошибка чистки размышлений: %v", err)
				}
			}
		}
	})

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService)
	artifactHandler := httpHandlers.NewArtifactHandler(artifactService)
	wonderingHandler := httpHandlers.NewWonderingHandler(wonderingService)
	eventHandler := httpHandlers.NewEventHandler(eventService)
	jobHandler := httpHandlers.NewJobHandler(jobService)
	messageHandler := httpHandlers.NewMessageHandler(messageService)
	favoriteHandler := httpHandlers.NewFavoriteHandler(favoriteService)
	inviteHandler := httpHandlers.NewInviteHandler(inviteService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	moderationHandler := httpHandlers.NewModerationHandler(moderationService)
	mediaHandler := httpHandlers.NewMediaHandler(mediaRepo, photoStorage)
	proxyHandler := httpHandlers.NewProxyHandler(geocoder, analyticsClient)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		artifactHandler,
		wonderingHandler,
		eventHandler,
		jobHandler,
		messageHandler,
		favoriteHandler,
		inviteHandler,
		notificationHandler,
		moderationHandler,
		mediaHandler,
		proxyHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
