package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability owns the otel meter and tracer providers for one process.
// A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider   *metric.MeterProvider
	tracerProvider  *sdktrace.TracerProvider
	meter           otelmetric.Meter
	tracer          trace.Tracer
	attemptCounter  otelmetric.Int64Counter
	attemptDuration otelmetric.Float64Histogram
}

// New registers the prometheus exporter on the default registerer and installs global providers.
func New(serviceName string) *Observability {
	o := NewWithRegisterer(serviceName, promclient.DefaultRegisterer)
	if o.meterProvider != nil {
		otel.SetMeterProvider(o.meterProvider)
	}
	otel.SetTracerProvider(o.tracerProvider)
	return o
}

// NewWithRegisterer builds providers without touching otel globals.
func NewWithRegisterer(serviceName string, reg promclient.Registerer) *Observability {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))

	o := &Observability{
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
	}

	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	meter := provider.Meter(serviceName)

	attemptCounter, _ := meter.Int64Counter(
		"evaluation.attempts",
		otelmetric.WithDescription("Number of evaluation attempts by outcome"),
	)

	attemptDuration, _ := meter.Float64Histogram(
		"evaluation.duration",
		otelmetric.WithDescription("Evaluation attempt duration"),
		otelmetric.WithUnit("ms"),
	)

	o.meterProvider = provider
	o.meter = meter
	o.attemptCounter = attemptCounter
	o.attemptDuration = attemptDuration
	return o
}

// Tracer returns the process tracer, or a no-op tracer for a nil receiver.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.tracer
}

func (o *Observability) RecordAttempt(ctx context.Context, outcome, errorCode string) {
	if o == nil || o.attemptCounter == nil {
		return
	}
	o.attemptCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("error_code", errorCode),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, duration time.Duration, outcome string) {
	if o == nil || o.attemptDuration == nil {
		return
	}
	o.attemptDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
