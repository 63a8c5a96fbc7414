//go:build integration

// Package integration_test runs API-level tests against the fully wired
// service: real pipeline, cache, breakers and WebSocket hub, with httptest
// stand-ins for the Anthropic and Whisper upstreams.
// Run with: go test -tags=integration ./tests/integration/...
package integration_test

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/voxpilot/voxpilot/internal/adapter/anthropic"
	vphttp "github.com/voxpilot/voxpilot/internal/adapter/http"
	"github.com/voxpilot/voxpilot/internal/adapter/ristretto"
	"github.com/voxpilot/voxpilot/internal/adapter/whisper"
	"github.com/voxpilot/voxpilot/internal/adapter/ws"
	"github.com/voxpilot/voxpilot/internal/config"
	"github.com/voxpilot/voxpilot/internal/domain/usage"
	"github.com/voxpilot/voxpilot/internal/resilience"
	"github.com/voxpilot/voxpilot/internal/service"
)

const enhancedText = "## Goal\nFix the login bug, with added technical depth."

var (
	testServer *httptest.Server
	testHub    *ws.Hub
)

// envelope matches the API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Suggestion string `json:"suggestion"`
	} `json:"error"`
}

func TestMain(m *testing.M) {
	// Stub upstreams.
	anthropicStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"content":[{"type":"text","text":%q}]}`, enhancedText)
	}))
	whisperStub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"text":"fix the broken login bug","language":"en"}`)
	}))

	cfg := config.Defaults()
	cfg.Anthropic.BaseURL = anthropicStub.URL
	cfg.Anthropic.APIKey = "test-key"
	cfg.Whisper.URL = whisperStub.URL

	composeCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cache init: %v\n", err)
		os.Exit(1)
	}

	enhancerClient := anthropic.NewClient(
		cfg.Anthropic.BaseURL, cfg.Anthropic.APIKey,
		cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, cfg.Anthropic.Timeout,
	)
	enhancerClient.SetBreaker(resilience.NewBreaker("anthropic", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	stt := whisper.NewClient(cfg.Whisper.URL, cfg.Whisper.APIKey, cfg.Whisper.Model, cfg.Whisper.Timeout)
	stt.SetBreaker(resilience.NewBreaker("whisper", cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	testHub = ws.NewHub()
	tracker := usage.NewTracker(cfg.Usage.DailyAILimit)

	pipeline := service.NewPipelineService(service.PipelineDeps{
		Tracker:     tracker,
		Enhancer:    enhancerClient,
		Transcriber: stt,
		Cache:       composeCache,
		CacheTTL:    cfg.Cache.TTL,
		Hub:         testHub,
	})

	handlers := vphttp.NewHandlers(pipeline, "integration-test")

	r := chi.NewRouter()
	r.Use(vphttp.SecurityHeaders)
	r.Use(vphttp.RequestID)
	r.Use(vphttp.Logger)
	vphttp.MountRoutes(r, handlers, testHub)

	testServer = httptest.NewServer(r)

	code := m.Run()

	testServer.Close()
	composeCache.Close()
	anthropicStub.Close()
	whisperStub.Close()

	os.Exit(code)
}

// testAudio returns base64 audio large enough to pass the size check.
func testAudio() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 2048))
}
