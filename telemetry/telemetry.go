// Package telemetry traces dataset loads and view renders. Until Setup is
// called the global provider is the OpenTelemetry no-op one, so the spans
// opened by the storage and web packages are free.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ServiceName identifies the dashboard in exported traces.
const ServiceName = "vehicles-dashboard"

// String and Int build span attributes without importing otel/attribute.
func String(key, value string) attribute.KeyValue { return attribute.String(key, value) }

func Int(key string, value int) attribute.KeyValue { return attribute.Int(key, value) }

// Setup sends every span to the OTLP/gRPC collector at endpoint and makes
// that the global provider. The returned func flushes pending spans and
// closes the connection; call it on shutdown.
func Setup(ctx context.Context, version, endpoint string) (func(context.Context) error, error) {
	conn, err := grpc.DialContext(ctx, endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("telemetry: dial %s: %w", endpoint, err)
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("telemetry: trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(version),
	))
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("telemetry: resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return func(ctx context.Context) error {
		defer conn.Close()
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: flush spans: %w", err)
		}
		return nil
	}, nil
}

// Tracer returns the tracer of a package, e.g. "storage" or "web".
func Tracer(pkg string) trace.Tracer {
	return otel.Tracer(ServiceName + "/" + pkg)
}

// Fail marks span as failed at stage and records err on it.
func Fail(span trace.Span, stage string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
}
