package logger

import (
	"context"
	"log/slog"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores a request correlation ID on the context. The HTTP
// RequestID middleware sets it; handlers and the request logger read it back.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the correlation ID stored on the context, or an empty
// string when the request did not pass through the RequestID middleware.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDAttr returns the correlation ID as a slog attribute for
// request-scoped log records.
func RequestIDAttr(ctx context.Context) slog.Attr {
	return slog.String("request_id", RequestID(ctx))
}
