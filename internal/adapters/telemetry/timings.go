package telemetry

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Timing is the duration of one ended span.
type Timing struct {
	Name     string
	Duration time.Duration
	Failed   bool
}

// TimingProcessor implements sdktrace.SpanProcessor and keeps the duration of
// every ended span.
type TimingProcessor struct {
	mu      sync.Mutex
	timings []Timing
}

// NewTimingProcessor returns a new TimingProcessor.
func NewTimingProcessor() *TimingProcessor {
	return &TimingProcessor{}
}

// OnStart does nothing.
func (p *TimingProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd records the span's duration.
func (p *TimingProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.timings = append(p.timings, Timing{
		Name:     s.Name(),
		Duration: s.EndTime().Sub(s.StartTime()),
		Failed:   s.Status().Code == codes.Error,
	})
}

// Timings returns the recorded timings in end order.
func (p *TimingProcessor) Timings() []Timing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.timings)
}

// ForceFlush does nothing.
func (p *TimingProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *TimingProcessor) Shutdown(_ context.Context) error {
	return nil
}

// NewProvider creates an SDK tracer provider that feeds the given processors
// and installs it as the global provider.
func NewProvider(processors ...sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	provider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(provider)
	return provider
}
