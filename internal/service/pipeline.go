// Package service orchestrates the utterance-to-prompt pipeline.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/voxpilot/voxpilot/internal/adapter/otel"
	"github.com/voxpilot/voxpilot/internal/adapter/ws"
	"github.com/voxpilot/voxpilot/internal/domain"
	"github.com/voxpilot/voxpilot/internal/domain/compose"
	"github.com/voxpilot/voxpilot/internal/domain/intent"
	"github.com/voxpilot/voxpilot/internal/domain/normalize"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
	"github.com/voxpilot/voxpilot/internal/domain/usage"
	"github.com/voxpilot/voxpilot/internal/port/broadcast"
	"github.com/voxpilot/voxpilot/internal/port/cache"
	"github.com/voxpilot/voxpilot/internal/port/enhancer"
	"github.com/voxpilot/voxpilot/internal/port/eventbus"
	"github.com/voxpilot/voxpilot/internal/port/transcriber"
)

// Result is the final outcome of one pipeline run.
type Result struct {
	RequestID          string      `json:"requestId"`
	RawSpeech          string      `json:"rawSpeech"`
	StructuredPrompt   string      `json:"structuredPrompt"`
	Intent             intent.Type `json:"intent"`
	Confidence         float64     `json:"confidence"`
	ProcessingTimeMs   int64       `json:"processingTimeMs"`
	AIEnhanced         bool        `json:"aiEnhanced"`
	AIModel            string      `json:"aiModel,omitempty"`
	AIPromptsRemaining int         `json:"aiPromptsRemaining"`
	IsAtLimit          bool        `json:"isAtLimit"`
}

// PipelineService sequences normalization, classification, composition and
// the quota-gated AI enhancement. Normalization through composition is pure
// and synchronous; the only suspension points are the two external calls
// (transcription and enhancement), both single-attempt with the caller's
// context timeout.
type PipelineService struct {
	tracker     *usage.Tracker
	enhancer    enhancer.Enhancer
	transcriber transcriber.Transcriber
	cache       cache.Cache
	cacheTTL    time.Duration
	events      eventbus.Publisher
	hub         broadcast.Broadcaster
	metrics     *otel.Metrics
	now         func() time.Time // for testing

	// flight dedupes identical concurrent enhancement calls so a burst of
	// repeated utterances costs one upstream request.
	flight singleflight.Group
}

// PipelineDeps carries the collaborators of a PipelineService. Transcriber,
// Cache, Events, Hub and Metrics are optional; nil disables the concern.
type PipelineDeps struct {
	Tracker     *usage.Tracker
	Enhancer    enhancer.Enhancer
	Transcriber transcriber.Transcriber
	Cache       cache.Cache
	CacheTTL    time.Duration
	Events      eventbus.Publisher
	Hub         broadcast.Broadcaster
	Metrics     *otel.Metrics
}

// NewPipelineService wires a pipeline from its collaborators.
func NewPipelineService(deps PipelineDeps) *PipelineService {
	events := deps.Events
	if events == nil {
		events = eventbus.Noop{}
	}
	return &PipelineService{
		tracker:     deps.Tracker,
		enhancer:    deps.Enhancer,
		transcriber: deps.Transcriber,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		events:      events,
		hub:         deps.Hub,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

// ProcessText runs the full pipeline on typed (or already transcribed) text:
// normalize, classify, compose, then attempt quota-gated AI enhancement.
func (s *PipelineService) ProcessText(ctx context.Context, text string, ide prompt.IDEContext) Result {
	requestID := uuid.NewString()
	ctx, span := otel.StartPipelineSpan(ctx, requestID, "text")
	defer span.End()

	return s.process(ctx, requestID, text, ide)
}

// ProcessVoice transcribes base64 audio and runs the text pipeline on the
// result. Transcription failure aborts: it is the only upstream failure
// surfaced to the caller.
func (s *PipelineService) ProcessVoice(ctx context.Context, audioBase64 string, ide prompt.IDEContext) (Result, error) {
	requestID := uuid.NewString()
	ctx, span := otel.StartPipelineSpan(ctx, requestID, "voice")
	defer span.End()

	if s.transcriber == nil {
		return Result{}, domain.NewServiceBusy("Voice transcription")
	}

	tctx, tspan := otel.StartTranscribeSpan(ctx)
	transcription, err := s.transcriber.Transcribe(tctx, audioBase64)
	tspan.End()
	if err != nil {
		return Result{}, err
	}

	slog.Debug("transcription complete",
		"request_id", requestID,
		"text_length", len(transcription.RawText),
		"language", transcription.Language,
	)

	return s.process(ctx, requestID, transcription.RawText, ide), nil
}

func (s *PipelineService) process(ctx context.Context, requestID, text string, ide prompt.IDEContext) Result {
	start := s.now()

	norm := normalize.Normalize(text)
	cls := intent.Classify(norm.CleanText)
	markdown := s.composeCached(ctx, norm, cls, ide)

	slog.Debug("prompt composed",
		"request_id", requestID,
		"intent", cls.Type,
		"confidence", cls.Confidence,
		"tone", norm.Tone,
	)

	structured, enhanced, model := s.maybeEnhance(ctx, text, cls, markdown, ide)

	stats := s.tracker.Stats()
	if s.metrics != nil {
		s.metrics.PromptsComposed.Add(ctx, 1)
		s.metrics.PipelineDuration.Record(ctx, s.now().Sub(start).Seconds())
	}

	result := Result{
		RequestID:          requestID,
		RawSpeech:          text,
		StructuredPrompt:   structured,
		Intent:             cls.Type,
		Confidence:         cls.Confidence,
		ProcessingTimeMs:   s.now().Sub(start).Milliseconds(),
		AIEnhanced:         enhanced,
		AIModel:            model,
		AIPromptsRemaining: stats.AIPromptsRemaining,
		IsAtLimit:          stats.IsAtLimit,
	}

	s.publish(ctx, result, stats)
	return result
}

// composeCached returns the rule-based markdown for this request, consulting
// the cache first. Composition is deterministic, so identical text and
// context always produce identical markdown.
func (s *PipelineService) composeCached(ctx context.Context, norm normalize.Result, cls intent.Classification, ide prompt.IDEContext) string {
	if s.cache == nil {
		return compose.Compose(norm, cls, ide, s.now()).Markdown
	}

	key := composeKey(norm.CleanText, ide)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return string(data)
	}

	markdown := compose.Compose(norm, cls, ide, s.now()).Markdown
	if err := s.cache.Set(ctx, key, []byte(markdown), s.cacheTTL); err != nil {
		slog.Debug("compose cache set failed", "error", err)
	}
	return markdown
}

func composeKey(cleanText string, ide prompt.IDEContext) string {
	h := sha256.New()
	h.Write([]byte(cleanText))
	h.Write([]byte{0})
	h.Write([]byte(ide.ActiveFile))
	h.Write([]byte{0})
	h.Write([]byte(ide.SelectedCode))
	h.Write([]byte{0})
	if ide.HasCursorLine {
		h.Write([]byte(strconv.Itoa(ide.CursorLine)))
	}
	h.Write([]byte{0})
	h.Write([]byte(ide.IDEType))
	return "compose:" + hex.EncodeToString(h.Sum(nil))
}

// maybeEnhance attempts AI enhancement when the enhancer is available and a
// quota slot can be claimed. The claim and the increment are one atomic step
// (usage.Tracker.TryAcquireAI); on enhancement failure the slot is released
// and the request is recorded as rule-based instead. Enhancement failure is
// never surfaced to the caller.
func (s *PipelineService) maybeEnhance(ctx context.Context, originalText string, cls intent.Classification, markdown string, ide prompt.IDEContext) (structured string, enhanced bool, model string) {
	if s.enhancer == nil || !s.enhancer.Available() {
		s.tracker.RecordRuleBasedPromptUsed()
		return markdown, false, ""
	}

	if !s.tracker.TryAcquireAI() {
		slog.Info("daily ai limit reached, using rule-based prompt")
		if s.metrics != nil {
			s.metrics.QuotaRejections.Add(ctx, 1)
		}
		s.tracker.RecordRuleBasedPromptUsed()
		return markdown, false, ""
	}

	ectx, span := otel.StartEnhanceSpan(ctx, string(cls.Type))
	res := s.enhanceDeduped(ectx, enhancer.Request{
		OriginalText:    originalText,
		Intent:          cls.Type,
		RuleBasedPrompt: markdown,
		Context:         ide,
	})
	span.End()

	if s.metrics != nil {
		s.metrics.EnhanceLatency.Record(ctx, float64(res.LatencyMs)/1000)
	}

	if !res.WasEnhanced {
		// Slot goes back; this request still counts as one rule-based prompt.
		s.tracker.ReleaseAI()
		s.tracker.RecordRuleBasedPromptUsed()
		if s.metrics != nil {
			s.metrics.EnhanceFallbacks.Add(ctx, 1)
		}
		return markdown, false, ""
	}

	if s.metrics != nil {
		s.metrics.PromptsEnhanced.Add(ctx, 1)
	}
	s.logQuotaProgress()
	return res.EnhancedPrompt, true, res.Model
}

// enhanceDeduped collapses identical concurrent enhancement calls into one
// upstream request.
func (s *PipelineService) enhanceDeduped(ctx context.Context, req enhancer.Request) enhancer.Result {
	key := composeKey(req.OriginalText, req.Context)
	v, _, _ := s.flight.Do(key, func() (any, error) {
		return s.enhancer.Enhance(ctx, req), nil
	})
	res, ok := v.(enhancer.Result)
	if !ok {
		return enhancer.Result{EnhancedPrompt: req.RuleBasedPrompt, Model: "rule-based-fallback"}
	}
	return res
}

func (s *PipelineService) logQuotaProgress() {
	stats := s.tracker.Stats()
	switch {
	case stats.IsAtLimit:
		slog.Warn("daily ai limit reached",
			"limit", stats.DailyLimit,
			"total_prompts", stats.TotalPrompts,
		)
	case s.tracker.NearLimit():
		slog.Info("approaching daily ai limit", "remaining", stats.AIPromptsRemaining)
	}
}

// publish emits pipeline telemetry on the event bus and to connected
// WebSocket clients. Both are best-effort.
func (s *PipelineService) publish(ctx context.Context, result Result, stats usage.Stats) {
	if data, err := json.Marshal(result); err == nil {
		if err := s.events.Publish(ctx, eventbus.SubjectPromptComposed, data); err != nil {
			slog.Debug("event publish failed", "subject", eventbus.SubjectPromptComposed, "error", err)
		}
	}
	if data, err := json.Marshal(stats); err == nil {
		if err := s.events.Publish(ctx, eventbus.SubjectUsageUpdated, data); err != nil {
			slog.Debug("event publish failed", "subject", eventbus.SubjectUsageUpdated, "error", err)
		}
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(ctx, ws.EventPromptComposed, ws.PromptComposedEvent{
			RequestID:  result.RequestID,
			Intent:     string(result.Intent),
			Confidence: result.Confidence,
			AIEnhanced: result.AIEnhanced,
		})
		s.hub.BroadcastEvent(ctx, ws.EventUsageUpdated, ws.UsageUpdatedEvent{
			AIPromptsUsed:      stats.AIPromptsUsed,
			AIPromptsRemaining: stats.AIPromptsRemaining,
			TotalPrompts:       stats.TotalPrompts,
			IsAtLimit:          stats.IsAtLimit,
		})
	}
}

// UsageTracker exposes the tracker for the usage endpoints.
func (s *PipelineService) UsageTracker() *usage.Tracker {
	return s.tracker
}

// AIAvailable reports whether the enhancement service is configured.
func (s *PipelineService) AIAvailable() bool {
	return s.enhancer != nil && s.enhancer.Available()
}
