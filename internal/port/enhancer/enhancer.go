// Package enhancer defines the AI prompt-enhancement port (interface).
package enhancer

import (
	"context"

	"github.com/voxpilot/voxpilot/internal/domain/intent"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
)

// Request carries everything the enhancement service needs to improve a
// rule-based prompt.
type Request struct {
	OriginalText    string
	Intent          intent.Type
	RuleBasedPrompt string
	Context         prompt.IDEContext
}

// Result is the enhancement outcome. When WasEnhanced is false,
// EnhancedPrompt holds the unchanged rule-based prompt and Err carries the
// cause for internal logging. Enhancement failure is never fatal.
type Result struct {
	EnhancedPrompt string
	WasEnhanced    bool
	Model          string
	LatencyMs      int64
	Err            error
}

// Enhancer is the port interface for the external AI enhancement service.
type Enhancer interface {
	// Enhance calls the service once. Implementations must degrade
	// gracefully: any failure returns the rule-based prompt with
	// WasEnhanced=false rather than an error.
	Enhance(ctx context.Context, req Request) Result

	// Available reports whether the service credential is configured.
	Available() bool
}
