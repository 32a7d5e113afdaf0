package spotly

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/spotly/spotly-go"
	meterName  = "github.com/spotly/spotly-go"
)

// clientMetrics holds the OpenTelemetry metric instruments.
type clientMetrics struct {
	CallCount          metric.Int64Counter
	CallDuration       metric.Float64Histogram
	CallErrors         metric.Int64Counter
	CacheHits          metric.Int64Counter
	CacheMisses        metric.Int64Counter
	CacheInvalidations metric.Int64Counter
}

// observability holds tracing and metrics configuration. Everything is
// optional and nil-safe; the default client carries none of it.
type observability struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *clientMetrics
}

func defaultObservability() *observability {
	return &observability{}
}

// WithTracer sets the OpenTelemetry tracer for the client.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.obs.Tracer = tracer
	}
}

// WithDefaultTracer uses the global OpenTelemetry tracer.
func WithDefaultTracer() Option {
	return func(c *Client) {
		c.obs.Tracer = otel.Tracer(tracerName)
	}
}

// WithMeter sets the OpenTelemetry meter for metrics.
func WithMeter(meter metric.Meter) Option {
	return func(c *Client) {
		c.obs.Meter = meter
		c.obs.Metrics = initMetrics(meter)
	}
}

// WithDefaultMeter uses the global OpenTelemetry meter.
func WithDefaultMeter() Option {
	return func(c *Client) {
		meter := otel.Meter(meterName)
		c.obs.Meter = meter
		c.obs.Metrics = initMetrics(meter)
	}
}

// initMetrics creates all metric instruments.
func initMetrics(meter metric.Meter) *clientMetrics {
	callCount, _ := meter.Int64Counter("spotly.call.count",
		metric.WithDescription("Total number of API calls issued"),
		metric.WithUnit("{call}"),
	)

	callDuration, _ := meter.Float64Histogram("spotly.call.duration",
		metric.WithDescription("API call duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	callErrors, _ := meter.Int64Counter("spotly.call.errors",
		metric.WithDescription("Total number of failed API calls"),
		metric.WithUnit("{error}"),
	)

	cacheHits, _ := meter.Int64Counter("spotly.cache.hits",
		metric.WithDescription("Query cache reads served without a fetch"),
		metric.WithUnit("{read}"),
	)

	cacheMisses, _ := meter.Int64Counter("spotly.cache.misses",
		metric.WithDescription("Query cache reads that triggered a fetch"),
		metric.WithUnit("{read}"),
	)

	cacheInvalidations, _ := meter.Int64Counter("spotly.cache.invalidations",
		metric.WithDescription("Cache keys marked stale by mutations"),
		metric.WithUnit("{key}"),
	)

	return &clientMetrics{
		CallCount:          callCount,
		CallDuration:       callDuration,
		CallErrors:         callErrors,
		CacheHits:          cacheHits,
		CacheMisses:        cacheMisses,
		CacheInvalidations: cacheInvalidations,
	}
}

// spanWrapper wraps a trace.Span to handle nil spans gracefully.
type spanWrapper struct {
	span trace.Span
}

func (w spanWrapper) End() {
	if w.span != nil {
		w.span.End()
	}
}

func (w spanWrapper) RecordError(err error) {
	if w.span != nil {
		w.span.RecordError(err)
	}
}

func (w spanWrapper) SetStatus(code codes.Code, description string) {
	if w.span != nil {
		w.span.SetStatus(code, description)
	}
}

func (w spanWrapper) SetAttributes(kv ...attribute.KeyValue) {
	if w.span != nil {
		w.span.SetAttributes(kv...)
	}
}

// startSpan starts a new span if tracing is enabled.
func (o *observability) startSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, spanWrapper) {
	if o.Tracer == nil {
		return ctx, spanWrapper{nil}
	}
	ctx, span := o.Tracer.Start(ctx, name, opts...)
	return ctx, spanWrapper{span}
}

// recordCall records per-call metrics if metrics are enabled.
func (o *observability) recordCall(ctx context.Context, operation string, duration time.Duration, err error) {
	if o.Metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("spotly.operation", operation),
	)

	o.Metrics.CallCount.Add(ctx, 1, attrs)
	o.Metrics.CallDuration.Record(ctx, float64(duration.Milliseconds()), attrs)

	if err != nil {
		o.Metrics.CallErrors.Add(ctx, 1, attrs)
	}
}

func (o *observability) recordCacheHit(ctx context.Context, key string) {
	if o.Metrics == nil {
		return
	}
	o.Metrics.CacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("spotly.cache.key", key)))
}

func (o *observability) recordCacheMiss(ctx context.Context, key string) {
	if o.Metrics == nil {
		return
	}
	o.Metrics.CacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("spotly.cache.key", key)))
}

func (o *observability) recordCacheInvalidation(ctx context.Context, n int64) {
	if o.Metrics == nil {
		return
	}
	o.Metrics.CacheInvalidations.Add(ctx, n)
}
