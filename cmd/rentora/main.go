package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/rentora/rentora/internal/billing"
	"github.com/rentora/rentora/internal/chat"
	"github.com/rentora/rentora/internal/config"
	"github.com/rentora/rentora/internal/hub"
	"github.com/rentora/rentora/internal/lease"
	"github.com/rentora/rentora/internal/notify"
	"github.com/rentora/rentora/internal/server"
	"github.com/rentora/rentora/internal/store/postgres"
	redisstore "github.com/rentora/rentora/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("RENTORA_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("RENTORA_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for webhook dedupe.
	dedupe, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer dedupe.Close()

	// In-memory event hub. Replays unread notifications on connect.
	eventHub := hub.New(store.Notifications())

	// Lease lifecycle service and expiry sweeper.
	leaseSvc := lease.NewService(store.Leases(), store.Notifications(), eventHub)
	sweeper := lease.NewSweeper(store.Leases(), leaseSvc, cfg.Sweep.Interval)

	// Billing: payment gateway client plus the webhook reconciler.
	gateway := billing.NewGatewayClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout)
	reconciler := billing.NewReconciler(
		store.Subscriptions(),
		store.Users(),
		store.Units(),
		store.Notifications(),
		billing.DefaultCatalog(),
		gateway,
		dedupe,
		eventHub,
	)

	// Support messages are forwarded to Slack when a bot token is configured.
	var forwarder chat.SupportForwarder
	if cfg.Slack.BotToken != "" && cfg.Slack.SupportChannel != "" {
		forwarder = notify.NewSlackForwarder(slacklib.New(cfg.Slack.BotToken), cfg.Slack.SupportChannel)
		log.Info().Str("channel", cfg.Slack.SupportChannel).Msg("slack support forwarding enabled")
	}

	chatSvc := chat.NewService(store.Chats(), store.Users(), store.Notifications(), eventHub, forwarder)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go sweeper.Run(ctx)

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, eventHub, leaseSvc, reconciler, chatSvc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
