package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/notification-hub/notification-hub/internal/api/http"
	appBox "github.com/notification-hub/notification-hub/internal/application/box"
	appCallback "github.com/notification-hub/notification-hub/internal/application/callback"
	appClient "github.com/notification-hub/notification-hub/internal/application/client"
	appDelivery "github.com/notification-hub/notification-hub/internal/application/delivery"
	appDispatch "github.com/notification-hub/notification-hub/internal/application/dispatch"
	appSweeper "github.com/notification-hub/notification-hub/internal/application/sweeper"
	"github.com/notification-hub/notification-hub/internal/config"
	"github.com/notification-hub/notification-hub/internal/infrastructure/cipher"
	"github.com/notification-hub/notification-hub/internal/infrastructure/events"
	"github.com/notification-hub/notification-hub/internal/infrastructure/gateway"
	"github.com/notification-hub/notification-hub/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	messageCipher, err := cipher.New(cfg.MessageEncryptionKey)
	if err != nil {
		log.Fatalf("cipher error: %v", err)
	}

	// repositories
	boxRepo := postgres.NewBoxRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool, messageCipher)

	if err := notificationRepo.EnsureTTL(ctx, cfg.NotificationTTL); err != nil {
		log.Fatalf("ttl declaration error: %v", err)
	}

	// outbound clients
	gatewayClient := gateway.NewClient(cfg.OutboundNotificationsURL, cfg.GatewayAuthToken, cfg.GatewayTimeout, logger)
	eventsClient := events.NewClient(cfg.APIPlatformEventsURL, cfg.GatewayTimeout, logger)

	// services
	clientSvc := appClient.NewService(clientRepo, logger)
	boxSvc := appBox.NewService(boxRepo, clientSvc, logger)
	dispatchSvc := appDispatch.NewService(clientSvc, gatewayClient, logger)
	deliverySvc := appDelivery.NewService(boxRepo, notificationRepo, dispatchSvc, cfg.NotificationsPerRequest, logger)
	callbackSvc := appCallback.NewService(boxSvc, gatewayClient, eventsClient, logger)
	sweeperSvc := appSweeper.NewService(notificationRepo, dispatchSvc, cfg.RetryIntervalSchedule, cfg.RetryWindow, cfg.SweepInterval, cfg.NotificationsPerRequest, logger)

	// API server
	apiServer := httpapi.NewServer(boxSvc, deliverySvc, callbackSvc, cfg.AllowedUserAgents)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	loopCtx, stopLoops := context.WithCancel(ctx)
	go sweeperSvc.Run(loopCtx)
	go sweeperSvc.RunTTLPurge(loopCtx)

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopLoops()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
