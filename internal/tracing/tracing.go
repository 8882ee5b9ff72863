// Package tracing wires the OpenTelemetry SDK: it installs a TracerProvider
// with the exporter selected by config, or leaves the global no-op provider
// in place when tracing is off.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Setup configures the global TracerProvider. exporter is "off", "stdout",
// or "otlp"; endpoint only applies to otlp (host:port, no scheme). The
// returned shutdown func flushes pending spans and must be called on exit.
func Setup(ctx context.Context, exporter, endpoint string) (func(context.Context) error, error) {
	switch exporter {
	case "", "off":
		return func(context.Context) error { return nil }, nil

	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout exporter: %w", err)
		}
		return install(exp), nil

	case "otlp":
		opts := []otlptracehttp.Option{otlptracehttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp exporter: %w", err)
		}
		return install(exp), nil

	default:
		return nil, fmt.Errorf("unknown trace exporter %q", exporter)
	}
}

func install(exp sdktrace.SpanExporter) func(context.Context) error {
	res, _ := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", "taskstate"),
	))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
