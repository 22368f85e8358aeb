package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"audio-notebook-service/internal/app"
	"audio-notebook-service/internal/config"
	"audio-notebook-service/internal/events"
	httpapi "audio-notebook-service/internal/http"
	"audio-notebook-service/internal/identity"
	"audio-notebook-service/internal/observability"
	"audio-notebook-service/internal/observability/logging"
	"audio-notebook-service/internal/service/stt"
	"audio-notebook-service/internal/service/stt/assemblyai"
	"audio-notebook-service/internal/service/stt/mock"
	"audio-notebook-service/internal/service/transcription"
	"audio-notebook-service/internal/store"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	logger := application.Logger

	if err := application.Start(); err != nil {
		logger.Fatal().Err(err).Msg("Application startup failed")
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open store")
	}
	defer st.Close()

	// Kafka publisher with separate topics for the lifecycle events
	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicCompleted: cfg.Kafka.TopicCompleted,
		TopicFailed:    cfg.Kafka.TopicFailed,
		TopicDeleted:   cfg.Kafka.TopicDeleted,
		Principal:      cfg.Kafka.Principal,
	})
	defer publisher.Close()

	adapter := newAdapter(cfg, logger)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	// One runner per session; the identity provider is bound to the
	// session token so every session resolves its own workspace.
	registry := httpapi.NewRegistry(func(token string) *transcription.Runner {
		var provider identity.Provider
		if redisClient != nil {
			provider = identity.NewRedisProvider(redisClient, cfg.Redis.SessionPrefix, token)
		} else {
			provider = &identity.StaticProvider{}
		}
		resolver := identity.NewResolver(provider, logging.WithSession(token, ""))
		return transcription.NewRunner(resolver, st, adapter, publisher, cfg.Provider)
	})
	defer registry.Close()

	obs := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obs.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpapi.NewRouter(registry),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("API server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("API server failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	application.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}
	if err := obs.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Observability server shutdown error")
	}
}

// newAdapter selects the transcription provider. A misconfigured
// AssemblyAI provider yields a nil adapter; jobs then fail individually
// with a configuration error instead of taking the service down.
func newAdapter(cfg *config.Configuration, logger zerolog.Logger) stt.Adapter {
	switch cfg.Provider.Name {
	case "assemblyai":
		a, err := assemblyai.New(cfg.Provider.APIKey, cfg.Provider.BaseURL, cfg.Provider.SubmitTimeout)
		if err != nil {
			logger.Warn().Err(err).Msg("AssemblyAI adapter unavailable, jobs will fail until configured")
			return nil
		}
		return a
	default:
		logger.Info().Str("provider", cfg.Provider.Name).Msg("Using mock transcription provider")
		return mock.New()
	}
}
