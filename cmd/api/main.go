package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/aura-ai/aura/internal/api"
	"github.com/aura-ai/aura/internal/assistant"
	"github.com/aura-ai/aura/internal/audiocache"
	"github.com/aura-ai/aura/internal/auth"
	"github.com/aura-ai/aura/internal/clients/gemini"
	"github.com/aura-ai/aura/internal/clients/giphy"
	"github.com/aura-ai/aura/internal/clients/pexels"
	"github.com/aura-ai/aura/internal/clients/serpapi"
	"github.com/aura-ai/aura/internal/clients/tts"
	"github.com/aura-ai/aura/internal/config"
	"github.com/aura-ai/aura/internal/conversation"
	"github.com/aura-ai/aura/internal/database"
	"github.com/aura-ai/aura/internal/intent"
	"github.com/aura-ai/aura/internal/middleware"
	"github.com/aura-ai/aura/internal/nats"
	"github.com/aura-ai/aura/internal/redis"
	"github.com/aura-ai/aura/internal/resolve"
	"github.com/aura-ai/aura/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres
	pool, err := database.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(cfg.DB.DSN(), "migrations"); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// NATS is optional: without it the service runs with eventing disabled.
	var natsClient *nats.Client
	var events *nats.Publisher
	if cfg.NATS.URL != "" {
		natsClient, err = nats.NewClient(ctx, cfg.NATS)
		if err != nil {
			slog.Warn("NATS unavailable, continuing without eventing", "error", err)
		} else {
			defer natsClient.Close()
			events = nats.NewPublisher(natsClient.JetStream())
		}
	}

	// Provider clients
	geminiClient := gemini.New(gemini.Config{
		APIKey: cfg.Providers.GeminiAPIKey,
		Model:  cfg.Providers.GeminiModel,
	})
	serpClient := serpapi.New(serpapi.Config{APIKey: cfg.Providers.SerpAPIKey})
	pexelsClient := pexels.New(pexels.Config{APIKey: cfg.Providers.PexelsAPIKey})
	giphyClient := giphy.New(giphy.Config{APIKey: cfg.Providers.GiphyAPIKey})
	ttsClient := tts.New(tts.Config{BaseURL: cfg.TTS.BaseURL})

	// Core pipeline
	classifier := intent.NewClassifier(geminiClient)
	engine := resolve.NewEngine(serpClient, pexelsClient, giphyClient, geminiClient)
	audioCache := audiocache.New(redisClient)

	convoRepo := conversation.NewRepository(pool)
	convoService := conversation.NewService(convoRepo, events)
	convoHandler := conversation.NewHandler(convoService)

	sweeper := conversation.NewSweeper(convoRepo, events)
	go sweeper.Run(ctx)

	assistantService := assistant.NewService(classifier, engine, ttsClient, audioCache, convoService, events)
	assistantHandler := assistant.NewHandler(assistantService, audioCache)

	// Auth + rate limiting
	jwtManager := auth.NewJWTManager(cfg.JWT.AccessSecret)
	turnLimiter := middleware.NewRateLimiter(redisClient, 30, 60, func(r *http.Request) string {
		if id := auth.GetUserID(r.Context()); id != uuid.Nil {
			return id.String()
		}
		return r.RemoteAddr
	})

	router := api.NewRouter(pool, redisClient, natsClient, api.RouterConfig{
		CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
		TurnRateLimiter:    turnLimiter.Middleware,
	}, api.HandlerSet{
		ProcessTurn:        assistantHandler.ProcessTurn,
		FetchAudio:         assistantHandler.FetchAudio,
		StreamVideo:        assistantHandler.StreamVideo,
		ListConversations:  convoHandler.List,
		DeleteConversation: convoHandler.Delete,
		AuthMiddleware:     auth.Middleware(jwtManager),
	})

	srv := server.New(cfg.Server, router)
	if err := srv.Start(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
