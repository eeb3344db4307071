// Package observability wires OpenTelemetry tracing and metrics for the deck
// URL cache and its durable backends.
//
// Both providers are optional. Until InitTracer or InitMeter is called the
// global otel providers are no-ops, so instrumented code pays almost nothing.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("deckurl"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("deckurl"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewCacheMetrics(observability.Meter("deckcache"))
//	metrics.RecordHit(ctx, "memory")
//
// Durable calls:
//
//	op := observability.StartDurableOp(ctx, metrics, "redis", observability.OpGet, key)
//	v, ok, err := store.Get(op.Context(), key)
//	op.End(err)
package observability
