// Package telemetry records navigation as OpenTelemetry spans. A multi-hop
// operation emits its planned path on a root span and runs each hop in a
// child span, so a trace shows which screen a failed run stopped at.
package telemetry

import (
	"context"
	"encoding/json"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tungetti/wizardnav/internal/errors"
)

const (
	PlanEventName  = "wizardnav.plan"
	PlanVersion    = "1"
	PlanVersionKey = "wizardnav.plan.version"
	PlanJSONKey    = "wizardnav.plan.json"
	FromKey        = "wizardnav.from"
	ToKey          = "wizardnav.to"
	HiddenKey      = "wizardnav.hidden"
	SessionKey     = "wizardnav.session"

	defaultOperation = "navigate"
)

// PlannedHop is one step of a planned path.
type PlannedHop struct {
	ID     string `json:"id"`
	Hidden bool   `json:"hidden,omitempty"`
}

// Plan is the path a navigation operation intends to take.
type Plan struct {
	From string       `json:"from"`
	To   string       `json:"to"`
	Hops []PlannedHop `json:"hops"`
}

// Operation is an in-flight traced navigation operation.
type Operation struct {
	ctx    context.Context
	tracer trace.Tracer
	span   trace.Span
}

// EmitPlan starts the root span of operation and attaches plan to it.
func EmitPlan(ctx context.Context, tracer trace.Tracer, operation string, plan Plan) (*Operation, error) {
	const op = "telemetry.EmitPlan"
	if tracer == nil {
		return nil, errors.New(errors.Validation, "tracer is required").WithOp(op)
	}
	for i, hop := range plan.Hops {
		if strings.TrimSpace(hop.ID) == "" {
			return nil, errors.Newf(errors.Validation, "hop %d has empty id", i).WithOp(op)
		}
	}

	operation = strings.TrimSpace(operation)
	if operation == "" {
		operation = defaultOperation
	}

	planJSON, err := json.Marshal(plan)
	if err != nil {
		return nil, errors.Wrap(errors.Unknown, "marshal plan", err).WithOp(op)
	}

	attrs := []attribute.KeyValue{
		attribute.String(PlanVersionKey, PlanVersion),
		attribute.String(PlanJSONKey, string(planJSON)),
		attribute.String(FromKey, plan.From),
		attribute.String(ToKey, plan.To),
	}
	spanCtx, span := tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	span.AddEvent(PlanEventName, trace.WithAttributes(attrs[:2]...))

	return &Operation{ctx: spanCtx, tracer: tracer, span: span}, nil
}

// Context returns the context carrying the root span.
func (o *Operation) Context() context.Context {
	if o == nil {
		return context.Background()
	}
	return o.ctx
}

// RunHop runs fn inside a child span named after the hop.
func (o *Operation) RunHop(ctx context.Context, hop PlannedHop, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	if o == nil || o.tracer == nil {
		return fn(ctx)
	}
	if ctx == nil {
		ctx = o.ctx
	}

	hopCtx, span := o.tracer.Start(ctx, hop.ID, trace.WithAttributes(attribute.Bool(HiddenKey, hop.Hidden)))
	defer span.End()

	if err := fn(hopCtx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// End closes the root span, marking it failed when err is non-nil.
func (o *Operation) End(err error) {
	if o == nil || o.span == nil {
		return
	}
	if err != nil {
		recordError(o.span, err)
	}
	o.span.End()
}

// Run traces a single-step operation as a root span without a plan.
func Run(ctx context.Context, tracer trace.Tracer, name string, attrs []attribute.KeyValue, fn func(context.Context) error) error {
	if tracer == nil {
		return fn(ctx)
	}
	spanCtx, span := tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	defer span.End()

	if err := fn(spanCtx); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, strings.TrimSpace(err.Error()))
}
