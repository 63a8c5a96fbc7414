package http

import (
	"net/http"

	"github.com/voxpilot/voxpilot/internal/domain"
	"github.com/voxpilot/voxpilot/internal/domain/dispatch"
	"github.com/voxpilot/voxpilot/internal/domain/intent"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
	"github.com/voxpilot/voxpilot/internal/service"
)

const maxRequestBodySize = 1 << 20   // 1 MB for text requests
const maxAudioBodySize = 25 << 20    // 25 MB for base64 audio payloads

// Handlers bundles the dependencies shared by all HTTP handlers.
type Handlers struct {
	Pipeline *service.PipelineService
	Version  string
}

// NewHandlers constructs the handler set.
func NewHandlers(pipeline *service.PipelineService, version string) *Handlers {
	return &Handlers{Pipeline: pipeline, Version: version}
}

// ideContextBody is the wire form of the editor context sent by the client.
// CursorLine is a pointer so an explicit line 0 is distinguishable from an
// omitted cursor position.
type ideContextBody struct {
	ActiveFile   string `json:"activeFile"`
	IDEType      string `json:"ideType"`
	SelectedCode string `json:"selectedCode"`
	CursorLine   *int   `json:"cursorLine"`
	LanguageID   string `json:"languageId"`
}

func (b ideContextBody) toDomain() prompt.IDEContext {
	ide := prompt.IDEContext{
		ActiveFile:   b.ActiveFile,
		SelectedCode: b.SelectedCode,
		IDEType:      prompt.ParseIDEType(b.IDEType),
		LanguageID:   b.LanguageID,
	}
	if b.CursorLine != nil {
		ide.CursorLine = *b.CursorLine
		ide.HasCursorLine = true
	}
	return ide
}

type textToPromptRequest struct {
	Text    string         `json:"text"`
	Context ideContextBody `json:"context"`
}

// TextToPrompt handles POST /v1/text-to-prompt: runs the pipeline on text the
// client already has (typed, or transcribed on-device).
func (h *Handlers) TextToPrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[textToPromptRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Text, "text") {
		return
	}

	result := h.Pipeline.ProcessText(r.Context(), req.Text, req.Context.toDomain())
	writeData(w, http.StatusOK, result)
}

type voiceToPromptRequest struct {
	Audio   string         `json:"audio"`
	Context ideContextBody `json:"context"`
}

// VoiceToPrompt handles POST /v1/voice-to-prompt: transcribes base64 audio
// and runs the pipeline on the recognized text.
func (h *Handlers) VoiceToPrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[voiceToPromptRequest](w, r, maxAudioBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Audio, "audio") {
		return
	}

	result, err := h.Pipeline.ProcessVoice(r.Context(), req.Audio, req.Context.toDomain())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeData(w, http.StatusOK, result)
}

type usageResponse struct {
	Date               string               `json:"date"`
	AIPromptsUsed      int                  `json:"aiPromptsUsed"`
	TotalPrompts       int                  `json:"totalPrompts"`
	AIPromptsRemaining int                  `json:"aiPromptsRemaining"`
	DailyLimit         int                  `json:"dailyLimit"`
	IsAtLimit          bool                 `json:"isAtLimit"`
	ResetIn            usageResetBody       `json:"resetIn"`
	AIAvailable        bool                 `json:"aiAvailable"`
}

type usageResetBody struct {
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

// GetUsage handles GET /v1/usage: full quota stats plus the countdown to the
// next daily reset.
func (h *Handlers) GetUsage(w http.ResponseWriter, _ *http.Request) {
	tracker := h.Pipeline.UsageTracker()
	stats := tracker.Stats()
	reset := tracker.TimeUntilReset()

	writeData(w, http.StatusOK, usageResponse{
		Date:               stats.Date,
		AIPromptsUsed:      stats.AIPromptsUsed,
		TotalPrompts:       stats.TotalPrompts,
		AIPromptsRemaining: stats.AIPromptsRemaining,
		DailyLimit:         stats.DailyLimit,
		IsAtLimit:          stats.IsAtLimit,
		ResetIn: usageResetBody{
			Hours:     reset.Hours,
			Minutes:   reset.Minutes,
			Formatted: reset.Formatted,
		},
		AIAvailable: h.Pipeline.AIAvailable(),
	})
}

type usageLimitResponse struct {
	AIPromptsRemaining int  `json:"aiPromptsRemaining"`
	IsAtLimit          bool `json:"isAtLimit"`
	DailyLimit         int  `json:"dailyLimit"`
}

// GetUsageLimit handles GET /v1/usage/limit: the compact quota view the
// client polls between prompts.
func (h *Handlers) GetUsageLimit(w http.ResponseWriter, _ *http.Request) {
	stats := h.Pipeline.UsageTracker().Stats()
	writeData(w, http.StatusOK, usageLimitResponse{
		AIPromptsRemaining: stats.AIPromptsRemaining,
		IsAtLimit:          stats.IsAtLimit,
		DailyLimit:         stats.DailyLimit,
	})
}

type dispatchRequest struct {
	Target   string `json:"target"`
	Prompt   string `json:"prompt"`
	Metadata struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
		IDEType    string  `json:"ideType"`
	} `json:"metadata"`
}

// DispatchPrompt handles POST /v1/dispatch: decides how a composed prompt
// reaches the chosen AI tool.
func (h *Handlers) DispatchPrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[dispatchRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}
	if !requireField(w, req.Target, "target") || !requireField(w, req.Prompt, "prompt") {
		return
	}

	result := dispatch.Dispatch(req.Target, req.Prompt, dispatch.Metadata{
		Intent:     intent.Type(req.Metadata.Intent),
		Confidence: req.Metadata.Confidence,
		IDEType:    req.Metadata.IDEType,
	})
	if !result.Success {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, result.Error,
			"Use GET /v1/providers for the list of valid targets")
		return
	}
	writeData(w, http.StatusOK, result)
}

type providersResponse struct {
	Providers []dispatch.Provider `json:"providers"`
	Suggested string              `json:"suggested,omitempty"`
}

// ListProviders handles GET /v1/providers: the dispatch target table, with a
// suggestion for the client's IDE when given ?ideType=.
func (h *Handlers) ListProviders(w http.ResponseWriter, r *http.Request) {
	resp := providersResponse{Providers: dispatch.Providers()}
	if ideType := r.URL.Query().Get("ideType"); ideType != "" {
		resp.Suggested = dispatch.SuggestTarget(prompt.ParseIDEType(ideType))
	}
	writeData(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	AIAvailable bool   `json:"aiAvailable"`
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Version:     h.Version,
		AIAvailable: h.Pipeline.AIAvailable(),
	})
}
