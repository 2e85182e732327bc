package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Options configures where telemetry goes. Zero values are valid: metrics go to
// the default prometheus registry and spans are created but not exported.
type Options struct {
	Registerer    promclient.Registerer
	SpanProcessor sdktrace.SpanProcessor
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	batchCounter   otelmetric.Int64Counter
	batchDuration  otelmetric.Float64Histogram
	courseCounter  otelmetric.Int64Counter
}

func New(serviceName string, opts Options) (*Observability, error) {
	reg := opts.Registerer
	if reg == nil {
		reg = promclient.DefaultRegisterer
	}

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	batchCounter, err := meter.Int64Counter(
		"batches.processed",
		otelmetric.WithDescription("Number of duplication batches processed"),
	)
	if err != nil {
		return nil, err
	}

	batchDuration, err := meter.Float64Histogram(
		"batches.duration",
		otelmetric.WithDescription("Batch duplication duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	courseCounter, err := meter.Int64Counter(
		"courses.processed",
		otelmetric.WithDescription("Number of courses submitted for duplication"),
	)
	if err != nil {
		return nil, err
	}

	tpOpts := []sdktrace.TracerProviderOption{}
	if opts.SpanProcessor != nil {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(opts.SpanProcessor))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
		batchCounter:   batchCounter,
		batchDuration:  batchDuration,
		courseCounter:  courseCounter,
	}, nil
}

// StartSpan starts a span named name as a child of any span in ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordBatch(ctx context.Context, status string, courses int, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("status", status))
	o.batchCounter.Add(ctx, 1, attrs)
	o.courseCounter.Add(ctx, int64(courses), attrs)
	o.batchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.tracerProvider.Shutdown(ctx)
	_ = o.meterProvider.Shutdown(ctx)
}
