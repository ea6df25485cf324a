package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestFailMarksSpan(t *testing.T) {
	rec := useRecorder(t)

	_, span := Tracer("storage").Start(context.Background(), "dataset.load")
	Fail(span, "read", errors.New("csv: broken"))
	span.End()

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "read", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
	assert.Equal(t, ServiceName+"/storage", spans[0].InstrumentationScope().Name)
}

func TestAttributes(t *testing.T) {
	rec := useRecorder(t)

	_, span := Tracer("web").Start(context.Background(), "view.render")
	span.SetAttributes(String("view", "price"), Int("view.rows", 3))
	span.End()

	attrs := rec.Ended()[0].Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, "price", attrs[0].Value.AsString())
	assert.Equal(t, int64(3), attrs[1].Value.AsInt64())
}
