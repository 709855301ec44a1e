package provider

import (
	"context"
	"time"

	"github.com/kbukum/meetscribe/observability"
)

// WithMetrics returns a Middleware that records one operation sample per
// Execute call, plus an error sample on failure.
func WithMetrics[I, O any](metrics *observability.Metrics, operation string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics, operation: operation}
	}
}

type metricsRR[I, O any] struct {
	inner     RequestResponse[I, O]
	metrics   *observability.Metrics
	operation string
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.RecordError(ctx, "provider", m.inner.Name())
	}
	m.metrics.RecordOperation(ctx, m.inner.Name(), m.operation, status, time.Since(start))

	return output, err
}
