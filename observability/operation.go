package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanDurableGet    = "kvstore.get"
	SpanDurableSet    = "kvstore.set"
	SpanDurableRemove = "kvstore.remove"
)

// Attribute keys.
const (
	AttrServiceName  = "service.name"
	AttrBackend      = "kvstore.backend"
	AttrOperation    = "kvstore.operation"
	AttrKey          = "kvstore.key"
	AttrStatus       = "status"
	AttrErrorMessage = "error.message"
)

// Status attribute values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// DurableOpName names a durable-tier call.
type DurableOpName string

const (
	OpGet    DurableOpName = "get"
	OpSet    DurableOpName = "set"
	OpRemove DurableOpName = "remove"
)

func (o DurableOpName) spanName() string {
	switch o {
	case OpSet:
		return SpanDurableSet
	case OpRemove:
		return SpanDurableRemove
	default:
		return SpanDurableGet
	}
}

// DurableOp tracks one durable-tier call: a span plus a duration sample.
type DurableOp struct {
	ctx     context.Context
	span    trace.Span
	metrics *CacheMetrics
	backend string
	op      DurableOpName
	start   time.Time
}

// StartDurableOp opens a span for a durable-tier call.
// If metrics is nil, metric recording is skipped.
func StartDurableOp(ctx context.Context, metrics *CacheMetrics, backend string, op DurableOpName, key string) *DurableOp {
	ctx, span := StartSpan(ctx, op.spanName(), trace.WithAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String(AttrOperation, string(op)),
		attribute.String(AttrKey, key),
	))
	return &DurableOp{
		ctx:     ctx,
		span:    span,
		metrics: metrics,
		backend: backend,
		op:      op,
		start:   time.Now(),
	}
}

// Context returns the context carrying the span; pass it to the backend.
func (d *DurableOp) Context() context.Context { return d.ctx }

// Duration returns the elapsed time since the call started.
func (d *DurableOp) Duration() time.Duration { return time.Since(d.start) }

// End closes the span and records the call outcome.
func (d *DurableOp) End(err error) {
	duration := d.Duration()
	if err != nil {
		d.span.RecordError(err)
		d.span.SetStatus(codes.Error, err.Error())
		d.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	}
	d.span.End()

	if d.metrics != nil {
		d.metrics.RecordDurable(d.ctx, d.backend, d.op, duration, err)
	}
}
