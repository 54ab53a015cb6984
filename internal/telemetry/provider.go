package telemetry

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/tungetti/wizardnav/internal/constants"
	"github.com/tungetti/wizardnav/internal/logging"
)

// Provider owns the tracer provider of a session.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider creates a tracer provider tagged with sessionID whose spans
// are logged through logger. Extra processors receive the same spans.
func NewProvider(sessionID string, logger logging.Logger, extra ...sdktrace.SpanProcessor) *Provider {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", constants.AppName),
			attribute.String(SessionKey, sessionID),
		)),
		sdktrace.WithSpanProcessor(NewLogProcessor(logger)),
	}
	for _, p := range extra {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	return &Provider{provider: sdktrace.NewTracerProvider(opts...)}
}

// Tracer returns a named tracer. A nil Provider falls back to the global
// tracer provider.
func (p *Provider) Tracer(name string) trace.Tracer {
	if p == nil || p.provider == nil {
		return otel.Tracer(name)
	}
	return p.provider.Tracer(name)
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}

// LogProcessor writes span starts and ends to a logger: plans at info,
// hops at debug, failures at error.
type LogProcessor struct {
	logger logging.Logger
}

// NewLogProcessor creates a span processor logging through logger.
func NewLogProcessor(logger logging.Logger) *LogProcessor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &LogProcessor{logger: logger}
}

func (p *LogProcessor) OnStart(_ context.Context, span sdktrace.ReadWriteSpan) {
	if span.Parent().IsValid() {
		p.logger.Debug("hop started", "step", span.Name())
		return
	}

	planJSON := attributeValue(span.Attributes(), PlanJSONKey)
	if strings.TrimSpace(planJSON) == "" {
		p.logger.Debug("operation started", "op", span.Name())
		return
	}
	var plan Plan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return
	}
	ids := make([]string, len(plan.Hops))
	for i, hop := range plan.Hops {
		ids[i] = hop.ID
	}
	p.logger.Info("planned path", "op", span.Name(), "from", plan.From, "to", plan.To,
		"hops", len(plan.Hops), "path", strings.Join(ids, " -> "))
}

func (p *LogProcessor) OnEnd(span sdktrace.ReadOnlySpan) {
	elapsed := span.EndTime().Sub(span.StartTime()).Round(time.Millisecond)
	kind := "operation"
	if span.Parent().IsValid() {
		kind = "hop"
	}

	status := span.Status()
	if status.Code == codes.Error {
		p.logger.Error(kind+" failed", "name", span.Name(), "elapsed", elapsed, "error", status.Description)
		return
	}
	p.logger.Debug(kind+" finished", "name", span.Name(), "elapsed", elapsed)
}

func (p *LogProcessor) Shutdown(context.Context) error {
	return nil
}

func (p *LogProcessor) ForceFlush(context.Context) error {
	return nil
}

func attributeValue(attrs []attribute.KeyValue, key string) string {
	for _, attr := range attrs {
		if string(attr.Key) == key {
			return attr.Value.AsString()
		}
	}
	return ""
}
