// Package otel provides OpenTelemetry instrumentation for the prompt pipeline.
package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "voxpilot"

// Metrics holds all voxpilot metric instruments.
type Metrics struct {
	PromptsComposed   metric.Int64Counter
	PromptsEnhanced   metric.Int64Counter
	EnhanceFallbacks  metric.Int64Counter
	QuotaRejections   metric.Int64Counter
	PipelineDuration  metric.Float64Histogram
	EnhanceLatency    metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.PromptsComposed, err = meter.Int64Counter("voxpilot.prompts.composed",
		metric.WithDescription("Number of prompts composed"))
	if err != nil {
		return nil, err
	}

	m.PromptsEnhanced, err = meter.Int64Counter("voxpilot.prompts.enhanced",
		metric.WithDescription("Number of prompts enhanced by the AI service"))
	if err != nil {
		return nil, err
	}

	m.EnhanceFallbacks, err = meter.Int64Counter("voxpilot.enhance.fallbacks",
		metric.WithDescription("Number of enhancement attempts that fell back to rule-based output"))
	if err != nil {
		return nil, err
	}

	m.QuotaRejections, err = meter.Int64Counter("voxpilot.quota.rejections",
		metric.WithDescription("Number of enhancement attempts skipped because the daily quota was reached"))
	if err != nil {
		return nil, err
	}

	m.PipelineDuration, err = meter.Float64Histogram("voxpilot.pipeline.duration_seconds",
		metric.WithDescription("End-to-end pipeline duration in seconds"))
	if err != nil {
		return nil, err
	}

	m.EnhanceLatency, err = meter.Float64Histogram("voxpilot.enhance.latency_seconds",
		metric.WithDescription("AI enhancement round-trip latency in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
