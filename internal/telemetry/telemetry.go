// Package telemetry wires the engine's logging, tracing, and metrics onto
// OpenTelemetry, following the OTel stack declared (but never wired) by the
// teacher's runtime module. When no OTLP collector endpoint is configured it
// falls back to a plain slog.JSONHandler over stdout, the same shape
// runtime/app.go builds its logger with.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles the logger, tracer, and the single histogram the
// Engine Driver instruments itself with: a per-step duration measurement
// (spec.md §4.6's "top-level loop" is the one place latency is
// structurally interesting, given steps never run concurrently).
type Telemetry struct {
	Logger *slog.Logger
	Tracer trace.Tracer
	Meter  metric.Meter

	StepDuration metric.Float64Histogram

	shutdown []func(context.Context) error
}

// Config selects where telemetry is exported. Endpoint empty means "no
// OTLP collector" — logs go to stdout JSON and tracing/metrics become
// no-ops, so every call site behaves identically whether or not a
// collector is configured.
type Config struct {
	ServiceName string
	Endpoint    string // OTLP gRPC collector address, e.g. "localhost:4317"
}

// New builds a Telemetry bundle. Call Shutdown(ctx) on it during process
// teardown to flush any OTLP exporters.
func New(ctx context.Context, cfg Config) (*Telemetry, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "movatalk-pipeline"
	}

	if cfg.Endpoint == "" {
		return &Telemetry{
			Logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
			Tracer: otel.Tracer(cfg.ServiceName),
			Meter:  otel.Meter(cfg.ServiceName),
		}, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)))
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	t := &Telemetry{}

	logExporter, err := otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(cfg.Endpoint), otlploggrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("building OTLP log exporter: %w", err)
	}
	loggerProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	t.shutdown = append(t.shutdown, loggerProvider.Shutdown)
	t.Logger = otelslog.NewLogger(cfg.ServiceName, otelslog.WithLoggerProvider(loggerProvider))

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.Endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("building OTLP trace exporter: %w", err)
	}
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	t.shutdown = append(t.shutdown, tracerProvider.Shutdown)
	t.Tracer = tracerProvider.Tracer(cfg.ServiceName)

	metricExporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("building OTLP metric exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	t.shutdown = append(t.shutdown, meterProvider.Shutdown)
	t.Meter = meterProvider.Meter(cfg.ServiceName)

	histogram, err := t.Meter.Float64Histogram(
		"pipeline.step.duration",
		metric.WithDescription("Duration of a single dispatched step"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("building step duration histogram: %w", err)
	}
	t.StepDuration = histogram

	return t, nil
}

// Shutdown flushes and closes any OTLP exporters. Safe to call on a
// stdout-only Telemetry (a no-op in that case).
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, fn := range t.shutdown {
		if err := fn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RecordStepDuration instruments a single step dispatch, the way the
// Engine Driver's run loop should call it around dispatchStep.
func (t *Telemetry) RecordStepDuration(ctx context.Context, stepName string, start time.Time) {
	if t.StepDuration == nil {
		return
	}
	t.StepDuration.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("step.name", stepName)))
}
