package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/deckurl/logger"
)

// MeterConfig configures the meter provider.
type MeterConfig struct {
	Identity
	Exporter
	// Interval is how often metrics are pushed.
	Interval time.Duration
}

// DefaultMeterConfig pushes to a local collector every 15 seconds.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		Identity: devIdentity(serviceName),
		Exporter: Exporter{Endpoint: "localhost:4318", Insecure: true},
		Interval: 15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the otel global.
// Callers shut the provider down on exit, which flushes pending points.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := cfg.resource()
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("metrics enabled", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// CacheMetrics holds the instruments recorded by the deck URL cache.
type CacheMetrics struct {
	hits       metric.Int64Counter
	misses     metric.Int64Counter
	promotions metric.Int64Counter
	writes     metric.Int64Counter
	clears     metric.Int64Counter
	errors     metric.Int64Counter
	durable    metric.Float64Histogram
}

// NewCacheMetrics creates the cache instruments on the given meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	m := &CacheMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.hits, "deckcache.hits", "Reads served by the memory tier"},
		{&m.misses, "deckcache.misses", "Reads absent from both tiers"},
		{&m.promotions, "deckcache.promotions", "Reads served by the durable tier and copied into memory"},
		{&m.writes, "deckcache.writes", "Successful deck URL writes"},
		{&m.clears, "deckcache.clears", "Successful deck URL clears"},
		{&m.errors, "deckcache.errors", "Durable tier failures by operation"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	durable, err := meter.Float64Histogram("deckcache.durable.duration",
		metric.WithDescription("Duration of durable tier calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating deckcache.durable.duration histogram: %w", err)
	}
	m.durable = durable
	return m, nil
}

func backendAttr(backend string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String(AttrBackend, backend))
}

// RecordHit counts a memory-tier hit.
func (m *CacheMetrics) RecordHit(ctx context.Context, backend string) {
	m.hits.Add(ctx, 1, backendAttr(backend))
}

// RecordMiss counts a read that found nothing in either tier.
func (m *CacheMetrics) RecordMiss(ctx context.Context, backend string) {
	m.misses.Add(ctx, 1, backendAttr(backend))
}

// RecordPromotion counts a durable-tier read copied into memory.
func (m *CacheMetrics) RecordPromotion(ctx context.Context, backend string) {
	m.promotions.Add(ctx, 1, backendAttr(backend))
}

// RecordWrite counts a completed set.
func (m *CacheMetrics) RecordWrite(ctx context.Context, backend string) {
	m.writes.Add(ctx, 1, backendAttr(backend))
}

// RecordClear counts a completed clear.
func (m *CacheMetrics) RecordClear(ctx context.Context, backend string) {
	m.clears.Add(ctx, 1, backendAttr(backend))
}

// RecordDurable samples the duration of a durable-tier call. A non-nil err
// also counts towards deckcache.errors.
func (m *CacheMetrics) RecordDurable(ctx context.Context, backend string, op DurableOpName, d time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrBackend, backend),
		attribute.String(AttrOperation, string(op)),
	}
	status := StatusOK
	if err != nil {
		status = StatusError
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	m.durable.Record(ctx, d.Seconds(), metric.WithAttributes(append(attrs, attribute.String(AttrStatus, status))...))
}
