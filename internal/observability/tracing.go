// Package observability provides OpenTelemetry tracing setup.
//
// Spans are exported over OTLP HTTP to whatever collector the endpoint
// points at (an OpenTelemetry Collector, a vendor agent, Jaeger with
// OTLP ingestion enabled). The exporter runs without TLS; the expected
// deployment is a collector on localhost.
//
// Configuration (~/.parley/config.yaml):
//
//	otlp_endpoint: "localhost:4318"
//	environment: "dev"
//	service_name: "parley"
package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// DefaultEndpoint is the default OTLP HTTP endpoint.
const DefaultEndpoint = "localhost:4318"

// Config for OTLP trace export.
type Config struct {
	// Endpoint is the OTLP HTTP collector endpoint (default: localhost:4318).
	Endpoint string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// ServiceName is the service name attached to every span.
	ServiceName string
}

// Setup creates an OTLP-exporting TracerProvider, registers it as the
// global provider, and returns a tracer for database spans plus a
// shutdown function that flushes pending spans.
//
// If the exporter cannot be created, tracing is disabled rather than
// failing startup: a no-op tracer and shutdown are returned.
func Setup(ctx context.Context, cfg Config) (trace.Tracer, func(context.Context) error, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "parley"
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		slog.Warn("failed to create OTLP exporter, tracing disabled", "error", err)
		return noop.NewTracerProvider().Tracer("parley"),
			func(context.Context) error { return nil }, nil
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		)),
	)
	otel.SetTracerProvider(provider)

	slog.Debug("tracing enabled",
		"endpoint", endpoint,
		"service", serviceName,
		"environment", cfg.Environment,
	)

	return provider.Tracer("parley"), provider.Shutdown, nil
}
