package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/voxpilot/voxpilot/internal/domain"
	"github.com/voxpilot/voxpilot/internal/domain/usage"
	"github.com/voxpilot/voxpilot/internal/port/enhancer"
	"github.com/voxpilot/voxpilot/internal/port/transcriber"
	"github.com/voxpilot/voxpilot/internal/service"
)

type fakeEnhancer struct{ available bool }

func (f fakeEnhancer) Enhance(_ context.Context, req enhancer.Request) enhancer.Result {
	return enhancer.Result{EnhancedPrompt: "ENHANCED " + req.RuleBasedPrompt, WasEnhanced: true, Model: "test-model"}
}

func (f fakeEnhancer) Available() bool { return f.available }

type fakeTranscriber struct {
	text string
	err  error
}

func (f fakeTranscriber) Transcribe(context.Context, string) (transcriber.Transcription, error) {
	if f.err != nil {
		return transcriber.Transcription{}, f.err
	}
	return transcriber.Transcription{RawText: f.text, Confidence: 0.9, Language: "en"}, nil
}

func newTestRouter(t *testing.T, deps service.PipelineDeps) http.Handler {
	t.Helper()
	if deps.Tracker == nil {
		deps.Tracker = usage.NewTracker(30)
	}
	pipeline := service.NewPipelineService(deps)
	h := NewHandlers(pipeline, "test")

	r := chi.NewRouter()
	MountRoutes(r, h, nil)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code       string `json:"code"`
		Message    string `json:"message"`
		Suggestion string `json:"suggestion"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestTextToPrompt(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{Enhancer: fakeEnhancer{available: false}})

	rec := doRequest(t, r, http.MethodPost, "/v1/text-to-prompt",
		`{"text":"um so I want to add a save button","context":{"activeFile":"app.tsx","ideType":"cursor"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("success = false: %s", rec.Body.String())
	}

	var result service.Result
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.Intent != "add_feature" {
		t.Fatalf("intent = %q", result.Intent)
	}
	if result.AIEnhanced {
		t.Fatal("aiEnhanced should be false without an available enhancer")
	}
	if !strings.Contains(result.StructuredPrompt, "## Goal") {
		t.Fatalf("structuredPrompt missing goal section:\n%s", result.StructuredPrompt)
	}
}

func TestTextToPromptCursorLineZero(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	// An explicit cursorLine of 0 is a real position and must render.
	rec := doRequest(t, r, http.MethodPost, "/v1/text-to-prompt",
		`{"text":"fix the broken null check","context":{"activeFile":"app.tsx","cursorLine":0}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}

	var result service.Result
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if !strings.Contains(result.StructuredPrompt, "Current line: 0") {
		t.Fatalf("explicit line 0 should render:\n%s", result.StructuredPrompt)
	}

	// Omitting cursorLine means no cursor position at all.
	rec = doRequest(t, r, http.MethodPost, "/v1/text-to-prompt",
		`{"text":"fix the broken null check","context":{"activeFile":"app.tsx"}}`)
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if strings.Contains(result.StructuredPrompt, "Current line:") {
		t.Fatalf("omitted cursor should not render a line:\n%s", result.StructuredPrompt)
	}
}

func TestTextToPromptMissingText(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	rec := doRequest(t, r, http.MethodPost, "/v1/text-to-prompt", `{"text":"","context":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("success should be false")
	}
	if env.Error.Code != "INVALID_REQUEST" {
		t.Fatalf("error code = %q", env.Error.Code)
	}
}

func TestTextToPromptInvalidBody(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	rec := doRequest(t, r, http.MethodPost, "/v1/text-to-prompt", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestVoiceToPrompt(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{
		Transcriber: fakeTranscriber{text: "fix the broken login"},
	})

	rec := doRequest(t, r, http.MethodPost, "/v1/voice-to-prompt",
		`{"audio":"UklGRg==","context":{"ideType":"vscode"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	var result service.Result
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if result.RawSpeech != "fix the broken login" {
		t.Fatalf("rawSpeech = %q", result.RawSpeech)
	}
	if result.Intent != "bug_fix" {
		t.Fatalf("intent = %q", result.Intent)
	}
}

func TestVoiceToPromptTranscriptionFailure(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{
		Transcriber: fakeTranscriber{err: domain.NewAudioEmpty()},
	})

	rec := doRequest(t, r, http.MethodPost, "/v1/voice-to-prompt", `{"audio":"UklGRg==","context":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error.Code != "AUDIO_EMPTY" {
		t.Fatalf("error code = %q", env.Error.Code)
	}
	if env.Error.Suggestion == "" {
		t.Fatal("suggestion should be set for empty audio")
	}
}

func TestGetUsage(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{Enhancer: fakeEnhancer{available: true}})

	// One enhanced request consumes one AI slot.
	doRequest(t, r, http.MethodPost, "/v1/text-to-prompt", `{"text":"add a button","context":{}}`)

	rec := doRequest(t, r, http.MethodGet, "/v1/usage", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data struct {
		AIPromptsUsed      int  `json:"aiPromptsUsed"`
		AIPromptsRemaining int  `json:"aiPromptsRemaining"`
		DailyLimit         int  `json:"dailyLimit"`
		AIAvailable        bool `json:"aiAvailable"`
		ResetIn            struct {
			Formatted string `json:"formatted"`
		} `json:"resetIn"`
	}
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.AIPromptsUsed != 1 || data.AIPromptsRemaining != 29 {
		t.Fatalf("usage = %+v", data)
	}
	if data.DailyLimit != 30 {
		t.Fatalf("dailyLimit = %d", data.DailyLimit)
	}
	if !data.AIAvailable {
		t.Fatal("aiAvailable should be true")
	}
	if data.ResetIn.Formatted == "" {
		t.Fatal("resetIn.formatted missing")
	}
}

func TestGetUsageLimit(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	rec := doRequest(t, r, http.MethodGet, "/v1/usage/limit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data usageLimitResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.DailyLimit != 30 || data.AIPromptsRemaining != 30 || data.IsAtLimit {
		t.Fatalf("limit view = %+v", data)
	}
}

func TestDispatchEndpoint(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	rec := doRequest(t, r, http.MethodPost, "/v1/dispatch",
		`{"target":"cursor","prompt":"## Goal","metadata":{"intent":"bug_fix","confidence":0.8,"ideType":"cursor"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, r, http.MethodPost, "/v1/dispatch", `{"target":"emacs","prompt":"## Goal"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown target status = %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !strings.Contains(env.Error.Message, "emacs") {
		t.Fatalf("error = %q, should name the target", env.Error.Message)
	}
}

func TestListProviders(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{})

	rec := doRequest(t, r, http.MethodGet, "/v1/providers?ideType=windsurf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data providersResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(data.Providers) != 5 {
		t.Fatalf("providers = %d, want 5", len(data.Providers))
	}
	if data.Suggested != "windsurf" {
		t.Fatalf("suggested = %q", data.Suggested)
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, service.PipelineDeps{Enhancer: fakeEnhancer{available: true}})

	rec := doRequest(t, r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data healthResponse
	env := decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Status != "ok" || data.Version != "test" || !data.AIAvailable {
		t.Fatalf("health = %+v", data)
	}
}
