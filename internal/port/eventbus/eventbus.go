// Package eventbus defines the event publishing port (interface).
package eventbus

import "context"

// Publisher is the port interface for emitting pipeline telemetry events.
// Events are transient notifications, not durable state: nothing in the
// pipeline depends on them being delivered.
type Publisher interface {
	// Publish sends a JSON-encoded event to the given subject.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close shuts down the publisher connection.
	Close() error
}

// Subject constants for pipeline events.
const (
	SubjectPromptComposed = "prompts.composed"
	SubjectPromptEnhanced = "prompts.enhanced"
	SubjectUsageUpdated   = "usage.updated"
)

// Noop is a Publisher that discards everything. Used when no message broker
// is configured.
type Noop struct{}

// Publish discards the event.
func (Noop) Publish(context.Context, string, []byte) error { return nil }

// Close is a no-op.
func (Noop) Close() error { return nil }
