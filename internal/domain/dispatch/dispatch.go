// Package dispatch maps a requested assistant target to provider metadata
// and produces delivery instructions. It makes no network call and touches
// no clipboard: delivery mechanics belong to the caller.
package dispatch

import (
	"fmt"

	"github.com/voxpilot/voxpilot/internal/domain/intent"
	"github.com/voxpilot/voxpilot/internal/domain/prompt"
)

// Method is how a prompt reaches its target assistant.
type Method string

const (
	MethodClipboard Method = "clipboard"
	MethodAPI       Method = "api"
	MethodCommand   Method = "command"
)

// Metadata accompanies a dispatch request for logging and routing decisions.
type Metadata struct {
	Intent     intent.Type `json:"intent"`
	Confidence float64     `json:"confidence"`
	IDEType    string      `json:"ideType"`
}

// Result is the routing decision for one dispatch call.
type Result struct {
	Success      bool   `json:"success"`
	Target       string `json:"target"`
	Method       Method `json:"method"`
	Instructions string `json:"instructions,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Dispatch validates target against the provider table and returns delivery
// instructions. Unknown targets and unavailable providers both fail with a
// descriptive error.
func Dispatch(target, promptText string, meta Metadata) Result {
	p, ok := providerByName(target)
	if !ok {
		return Result{
			Success: false,
			Target:  target,
			Method:  MethodClipboard,
			Error:   fmt.Sprintf("unknown dispatch target: %s", target),
		}
	}

	if !p.Available {
		return Result{
			Success: false,
			Target:  target,
			Method:  p.Method,
			Error:   fmt.Sprintf("%s is not yet available. %s", p.DisplayName, p.Description),
		}
	}

	_ = promptText // routing decision only; delivery happens in the caller

	return Result{
		Success:      true,
		Target:       target,
		Method:       p.Method,
		Instructions: instructions(p.Method, target),
	}
}

func instructions(method Method, target string) string {
	switch method {
	case MethodClipboard:
		return fmt.Sprintf("Prompt copied to clipboard. Paste in %s to execute.", target)
	case MethodAPI:
		return fmt.Sprintf("Sending to %s API...", target)
	case MethodCommand:
		return fmt.Sprintf("Opening %s...", target)
	default:
		return "Ready to send."
	}
}

// SuggestTarget picks the most natural target for the given IDE.
func SuggestTarget(ide prompt.IDEType) string {
	switch ide {
	case prompt.IDECursor:
		return "cursor"
	case prompt.IDEWindsurf:
		return "windsurf"
	default:
		return "copilot"
	}
}
