package container

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"

	appMiddleware "github.com/FACorreiaa/bharat-guide/app/middleware"
	"github.com/FACorreiaa/bharat-guide/app/observability/metrics"
	"github.com/FACorreiaa/bharat-guide/config"
	"github.com/FACorreiaa/bharat-guide/internal/api/auth"
	"github.com/FACorreiaa/bharat-guide/internal/api/discovery"
	"github.com/FACorreiaa/bharat-guide/internal/api/events"
	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	llmChat "github.com/FACorreiaa/bharat-guide/internal/api/llm_chat"
	"github.com/FACorreiaa/bharat-guide/internal/api/places"
	"github.com/FACorreiaa/bharat-guide/internal/api/prompt"
	"github.com/FACorreiaa/bharat-guide/internal/api/sessions"
	"github.com/FACorreiaa/bharat-guide/internal/api/stream"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.AppMetrics
	Registry    *sessions.Registry
	RateLimiter *appMiddleware.RateLimiter
	NATS        *nats.Conn
	Router      http.Handler
}

// NewContainer wires services and handlers. sender may be nil, in which case a Gemini
// client is created from GOOGLE_GEMINI_API_KEY.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, sender generativeAI.Sender) (*Container, error) {
	m := metrics.InitAppMetrics()

	defaultLang, err := locale.Parse(cfg.Locale.Default)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale: %w", err)
	}

	if sender == nil {
		sender, err = generativeAI.NewGeminiClient(ctx, os.Getenv("GOOGLE_GEMINI_API_KEY"), generativeAI.Options{
			Model:      cfg.GenAI.Model,
			Timeout:    cfg.GenAI.RequestTimeout,
			Validation: generativeAI.ValidationMode(cfg.Discovery.ValidationMode),
		}, logger, m)
		if err != nil {
			logger.Error("Failed to initialize AI client", slog.Any("error", err))
			return nil, err
		}
	}

	tokenLifetime := cfg.Sessions.TokenTTL
	if tokenLifetime <= 0 {
		tokenLifetime = 24 * time.Hour
	}
	tokens, err := sessions.NewTokens(cfg.Sessions.Secret, cfg.Sessions.Issuer, cfg.Sessions.Audience, tokenLifetime)
	if err != nil {
		return nil, err
	}

	registry := sessions.NewRegistry(cfg.Sessions.TTL, cfg.Sessions.TTL/2, logger)
	if err := m.ObserveSessions(otel.GetMeterProvider().Meter("BharatGuide"), registry.Counts); err != nil {
		logger.Warn("Failed to register session gauge", slog.Any("error", err))
	}

	var (
		nc        *nats.Conn
		forwarder *events.Forwarder
	)
	if cfg.NATS.Enabled {
		nc, err = events.Connect(events.Config{
			URL:           cfg.NATS.URL,
			SubjectPrefix: cfg.NATS.SubjectPrefix,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: cfg.NATS.ReconnectWait,
		}, logger)
		if err != nil {
			logger.Error("Failed to connect to NATS", slog.Any("error", err))
			return nil, err
		}
		forwarder = events.NewForwarder(nc, cfg.NATS.SubjectPrefix, logger)
		logger.Info("Publishing session events to NATS", slog.String("url", cfg.NATS.URL))
	}

	builder := prompt.NewBuilder(prompt.Options{
		Model:                cfg.GenAI.Model,
		GemCount:             cfg.Discovery.Count,
		RadiusKm:             cfg.Discovery.RadiusKm,
		DiscoveryTemperature: cfg.GenAI.DiscoveryTemperature,
		ChatTemperature:      cfg.GenAI.ChatTemperature,
	})
	table := locale.NewTable()
	streamer := stream.NewStreamer(stream.DefaultConfig(), cfg.Server.AllowedOrigins, logger)

	discoveryService := discovery.NewServiceImpl(registry, tokens, sender, builder, forwarder, logger, m)
	chatService := llmChat.NewServiceImpl(registry, tokens, table, sender, builder, forwarder, logger, m)

	limiter := appMiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.Idle)

	routes := router.SetupRouter(&router.Config{
		PlacesHandler:    places.NewHandler(table, logger),
		DiscoveryHandler: discovery.NewHandlerImpl(discoveryService, streamer, defaultLang, logger),
		ChatHandler:      llmChat.NewHandlerImpl(chatService, streamer, defaultLang, logger),
		DiscoveryAuth:    auth.Authenticate(logger, tokens, sessions.KindDiscovery),
		ChatAuth:         auth.Authenticate(logger, tokens, sessions.KindChat),
		RateLimit:        limiter.Middleware(logger),
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		RequestTimeout:   cfg.Server.Timeout,
	})

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		Registry:    registry,
		RateLimiter: limiter,
		NATS:        nc,
		Router:      routes,
	}, nil
}

// Close ends every live session and drains the NATS connection.
func (c *Container) Close() {
	c.Registry.Flush()
	if c.NATS != nil {
		if err := c.NATS.Drain(); err != nil {
			c.Logger.Warn("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	c.Logger.Info("Container shut down")
}
