package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "voxpilot"

// StartPipelineSpan starts a span covering one pipeline run.
func StartPipelineSpan(ctx context.Context, requestID, source string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "pipeline",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
			attribute.String("request.source", source), // "text" or "voice"
		),
	)
}

// StartEnhanceSpan starts a span for the AI enhancement call.
func StartEnhanceSpan(ctx context.Context, intent string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "enhance",
		trace.WithAttributes(
			attribute.String("prompt.intent", intent),
		),
	)
}

// StartTranscribeSpan starts a span for the speech-to-text call.
func StartTranscribeSpan(ctx context.Context) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "transcribe")
}
