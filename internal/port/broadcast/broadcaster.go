// Package broadcast defines the port for pushing events to connected clients.
package broadcast

import "context"

// Broadcaster pushes typed events to all connected clients.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}
