package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/rybuild/internal/adapters/telemetry"
	"go.trai.ch/rybuild/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func newRecordedTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(provider, "test"), rec
}

func TestOTelTracer_Span(t *testing.T) {
	tracer, rec := newRecordedTracer(t)

	ctx, span := tracer.Start(t.Context(), "module UI", ports.WithAttribute("files", 3))
	tracer.EmitPlan(ctx, []string{"Core", "UI"})
	span.SetAttribute("full_rebuild", true)
	_, err := span.Write([]byte("Button.cpp: warning: unused\n"))
	require.NoError(t, err)
	span.RecordError(errors.New("compile failed"))
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	got := ended[0]

	assert.Equal(t, "module UI", got.Name())
	assert.Contains(t, got.Attributes(), attribute.Int("files", 3))
	assert.Contains(t, got.Attributes(), attribute.Bool("full_rebuild", true))
	assert.Equal(t, "compile failed", got.Status().Description)

	var names []string
	for _, e := range got.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "plan_emitted")
	assert.Contains(t, names, "log")
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	_, span := tracer.Start(t.Context(), "test-span")
	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	span.End()
}

func TestTimingProcessor(t *testing.T) {
	timings := telemetry.NewTimingProcessor()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(timings))
	defer func() { _ = provider.Shutdown(context.Background()) }()
	tracer := telemetry.NewOTelTracerWithProvider(provider, "test")

	_, ok := tracer.Start(t.Context(), "generating-code")
	ok.End()
	_, bad := tracer.Start(t.Context(), "building-modules")
	bad.RecordError(errors.New("boom"))
	bad.End()

	got := timings.Timings()
	require.Len(t, got, 2)
	assert.Equal(t, "generating-code", got[0].Name)
	assert.False(t, got[0].Failed)
	assert.Equal(t, "building-modules", got[1].Name)
	assert.True(t, got[1].Failed)
	assert.GreaterOrEqual(t, int64(got[1].Duration), int64(0))
}
