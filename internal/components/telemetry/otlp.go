package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type OtlpConfig struct {
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

// SetupTracing installs a global tracer provider exporting spans over OTLP/HTTP.
// When no endpoint is configured tracing stays a no-op and the returned shutdown
// function does nothing.
func SetupTracing(ctx context.Context, serviceName string, config OtlpConfig) (func(context.Context) error, error) {
	if config.HttpEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	r, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	exportCtx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	exporter, err := otlptracehttp.New(
		exportCtx,
		otlptracehttp.WithEndpointURL(config.HttpEndpoint),
		otlptracehttp.WithHeaders(config.Headers),
	)
	if err != nil {
		return nil, err
	}
	slog.Info(
		"tracer export initialized",
		"type", "http",
		"endpoint", config.HttpEndpoint,
		"headers", len(config.Headers) > 0,
	)

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
