package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/caremate-health/caremate/internal/api/router"
	"github.com/caremate-health/caremate/internal/assistant"
	"github.com/caremate-health/caremate/internal/chat"
	"github.com/caremate-health/caremate/internal/checkin"
	appconfig "github.com/caremate-health/caremate/internal/config"
	"github.com/caremate-health/caremate/internal/history"
	"github.com/caremate-health/caremate/internal/interactions"
	"github.com/caremate-health/caremate/internal/language"
	"github.com/caremate-health/caremate/internal/messaging"
	"github.com/caremate-health/caremate/internal/observability/metrics"
	"github.com/caremate-health/caremate/internal/triage"
	"github.com/caremate-health/caremate/pkg/logging"
)

func main() {
	// Load .env if present (local development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting caremate API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	store := interactions.NewStore(pool)

	// Redis-backed conversation history (optional)
	var historyStore *history.Store
	redisConfigured := false
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		historyStore = history.NewStore(redisClient, cfg.HistoryLimit)
		redisConfigured = true
	}

	// Language classifier
	var classifier chat.Classifier = language.NewHeuristic()
	if cfg.LanguageDetector == appconfig.DetectorRemote {
		classifier = language.NewRemoteDetector(cfg.DetectorBaseURL, logger)
	}

	// Assistant client
	assistantClient, err := assistant.NewClient(assistant.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: cfg.UpstreamTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to create assistant client", "error", err)
		os.Exit(1)
	}
	assistantClient = assistantClient.WithBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown)

	// Outbound WhatsApp sender
	sender := messaging.NewWhatsAppSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)

	chatMetrics := metrics.NewChatMetrics(nil)

	// Inbound-message flow
	service := chat.NewService(
		classifier,
		triage.NewScreener(),
		assistantClient,
		store,
		sender,
		historyStore,
		chat.Options{
			HistoryEnabled: cfg.HistoryEnabled,
			HistoryLimit:   cfg.HistoryLimit,
		},
		chatMetrics,
		logger,
	)
	handler := chat.NewHandler(service, classifier, cfg.TwilioWebhookSecret, chat.HealthInfo{
		GroqConfigured:     cfg.GroqAPIKey != "",
		TwilioConfigured:   cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "",
		DatabaseConfigured: cfg.DatabaseURL != "",
		RedisConfigured:    redisConfigured,
	}, logger)

	// Daily check-in scheduler
	if !cfg.CheckinDisabled {
		scheduler, err := checkin.NewScheduler(store, sender, cfg.CheckinHour, chatMetrics, logger)
		if err != nil {
			logger.Error("failed to create check-in scheduler", "error", err)
			os.Exit(1)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("failed to start check-in scheduler", "error", err)
			os.Exit(1)
		}
		defer scheduler.Stop()
	}

	// Setup router
	r := router.New(&router.Config{
		Logger:         logger,
		ChatHandler:    handler,
		MetricsHandler: promhttp.Handler(),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
