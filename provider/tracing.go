package provider

import (
	"context"

	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
)

// WithTracing returns a Middleware that wraps each Execute call in a span
// named "{operation}.{provider}".
func WithTracing[I, O any](operation string) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, operation: operation}
	}
}

type tracingRR[I, O any] struct {
	inner     RequestResponse[I, O]
	operation string
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	ctx, span := observability.StartSpan(ctx, t.operation+"."+t.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, observability.AttrOperationName, t.operation)
	observability.SetSpanAttribute(ctx, observability.AttrProvider, t.inner.Name())
	if id := logger.RequestIDFromContext(ctx); id != "" {
		observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
	}

	output, err := t.inner.Execute(ctx, input)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return output, err
}
