// Command voxpilot runs the voxpilot core service: the HTTP API, the
// WebSocket hub and the MCP tool surface for the utterance-to-prompt
// pipeline.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/voxpilot/voxpilot/internal/adapter/anthropic"
	vphttp "github.com/voxpilot/voxpilot/internal/adapter/http"
	vpmcp "github.com/voxpilot/voxpilot/internal/adapter/mcp"
	vpnats "github.com/voxpilot/voxpilot/internal/adapter/nats"
	"github.com/voxpilot/voxpilot/internal/adapter/otel"
	"github.com/voxpilot/voxpilot/internal/adapter/ristretto"
	"github.com/voxpilot/voxpilot/internal/adapter/whisper"
	"github.com/voxpilot/voxpilot/internal/adapter/ws"
	"github.com/voxpilot/voxpilot/internal/config"
	"github.com/voxpilot/voxpilot/internal/domain/usage"
	"github.com/voxpilot/voxpilot/internal/logger"
	"github.com/voxpilot/voxpilot/internal/port/eventbus"
	"github.com/voxpilot/voxpilot/internal/resilience"
	"github.com/voxpilot/voxpilot/internal/service"
)

const version = "0.1.0"

func main() {
	// Bootstrap logger until config is loaded.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logClose := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logClose.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"daily_ai_limit", cfg.Usage.DailyAILimit,
		"ai_configured", cfg.Anthropic.APIKey != "",
		"voice_configured", cfg.Whisper.URL != "",
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	var events eventbus.Publisher = eventbus.Noop{}
	if cfg.NATS.URL != "" {
		pub, err := vpnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = pub.Close() }()
		events = pub
	}

	composeCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer func() {
		slog.Info("compose cache closed", "hit_ratio", composeCache.HitRatio())
		composeCache.Close()
	}()

	// --- External services ---

	enhancerClient := anthropic.NewClient(
		cfg.Anthropic.BaseURL,
		cfg.Anthropic.APIKey,
		cfg.Anthropic.Model,
		cfg.Anthropic.MaxTokens,
		cfg.Anthropic.Timeout,
	)
	enhancerClient.SetBreaker(resilience.NewBreaker("anthropic", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	var stt *whisper.Client
	if cfg.Whisper.URL != "" {
		stt = whisper.NewClient(cfg.Whisper.URL, cfg.Whisper.APIKey, cfg.Whisper.Model, cfg.Whisper.Timeout)
		stt.SetBreaker(resilience.NewBreaker("whisper", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	}

	// --- Services ---

	hub := ws.NewHub()
	tracker := usage.NewTracker(cfg.Usage.DailyAILimit)

	deps := service.PipelineDeps{
		Tracker:  tracker,
		Enhancer: enhancerClient,
		Cache:    composeCache,
		CacheTTL: cfg.Cache.TTL,
		Events:   events,
		Hub:      hub,
		Metrics:  metrics,
	}
	if stt != nil {
		deps.Transcriber = stt
	}
	pipeline := service.NewPipelineService(deps)

	// --- HTTP ---

	handlers := vphttp.NewHandlers(pipeline, version)

	r := chi.NewRouter()
	r.Use(vphttp.CORS(cfg.Server.CORSOrigin))
	r.Use(vphttp.SecurityHeaders)
	r.Use(vphttp.RequestID)
	r.Use(vphttp.Logger)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	vphttp.MountRoutes(r, handlers, hub)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// --- MCP ---

	var mcpServer *vpmcp.Server
	if cfg.MCP.Addr != "" {
		mcpServer = vpmcp.NewServer(
			vpmcp.ServerConfig{Addr: cfg.MCP.Addr, Name: cfg.Logging.Service, Version: version},
			vpmcp.ServerDeps{Composer: pipeline, Usage: tracker},
		)
	}

	// --- Run until signal ---

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if mcpServer != nil {
		if err := mcpServer.Start(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if mcpServer != nil {
			if err := mcpServer.Stop(shutdownCtx); err != nil {
				slog.Error("mcp shutdown", "error", err)
			}
		}
		hub.Shutdown()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
