package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Event type constants for WebSocket messages.
const (
	EventConnected      = "connected"
	EventPromptComposed = "prompt.composed"
	EventUsageUpdated   = "usage.updated"
)

// ConnectedEvent greets a client right after its connection is registered.
type ConnectedEvent struct {
	ConnectedAt time.Time `json:"connectedAt"`
}

// PromptComposedEvent is broadcast when a pipeline run produces a prompt.
type PromptComposedEvent struct {
	RequestID  string  `json:"request_id"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	AIEnhanced bool    `json:"ai_enhanced"`
}

// UsageUpdatedEvent is broadcast after every recorded prompt, so the desktop
// client can display the remaining quota live.
type UsageUpdatedEvent struct {
	AIPromptsUsed      int  `json:"ai_prompts_used"`
	AIPromptsRemaining int  `json:"ai_prompts_remaining"`
	TotalPrompts       int  `json:"total_prompts"`
	IsAtLimit          bool `json:"is_at_limit"`
}

// BroadcastEvent is a convenience method that marshals a typed event and broadcasts it.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
