// File: airmax/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airmax/config"
	"airmax/cron"
	"airmax/database"
	webhookRepo "airmax/database/repository/webhook"
	"airmax/handlers"
	"airmax/middleware"
	"airmax/routes"
	makersuite "airmax/services/airmax"
	"airmax/services/flights"
	"airmax/services/notification"
	"airmax/services/relay"
	"airmax/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitCache()
	utils.InitDedupCache()

	// Webhook archive is optional; the relay runs fine without MongoDB.
	var archive webhookRepo.WebhookArchive
	if config.AppConfig.ArchiveEnabled {
		database.InitDB()
		archive = webhookRepo.NewMongoWebhookRepo()
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Notifications: Slack delivery rides on the asynq queue, with
	// inline delivery as fallback when the queue is down.
	slackNotifier := notification.NewSlackNotifier(config.AppConfig.SlackWebhookURL)
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	notifier := notification.NewAsyncNotifier(asynqClient, slackNotifier)
	cron.InitNotifyWorker(slackNotifier)

	// Relay engine and its collaborators.
	relayService := relay.NewDefaultRelayService(
		relay.NewMemoryStore(),
		relay.NewRedisLedger(utils.GetDedupCacheClient()),
		flights.NewAirmaxResolver(),
		makersuite.NewMakerSuiteClient(),
		notifier,
		config.RoundTripRetention(),
	)

	webhookHandler := handlers.NewWebhookHandler(relayService, archive, logger)

	// Register routes.
	routes.RegisterRoutes(router, webhookHandler)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetDedupCacheClient()}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
