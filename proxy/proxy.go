// Package proxy forwards accepted requests to the configured providers and
// maps provider failures onto the service error taxonomy.
package proxy

import (
	"context"
	"time"

	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/provider"
)

const defaultTimeout = 60 * time.Second

// Options configures a proxy.
type Options struct {
	// Timeout bounds each provider call. Defaults to 60s.
	Timeout time.Duration
	// Metrics is optional; nil disables metric recording.
	Metrics *observability.Metrics
	Logger  *logger.Logger
}

func (o *Options) applyDefaults() {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Logger == nil {
		o.Logger = logger.GetGlobalLogger()
	}
}

// wrap composes the provider middleware used by both proxies.
func wrap[I, O any](p provider.RequestResponse[I, O], operation string, opts Options) provider.RequestResponse[I, O] {
	mws := []provider.Middleware[I, O]{
		provider.WithLogging[I, O](opts.Logger.WithFields(map[string]any{logger.FieldOperation: operation})),
		provider.WithTracing[I, O](operation),
	}
	if opts.Metrics != nil {
		mws = append(mws, provider.WithMetrics[I, O](opts.Metrics, operation))
	}
	return provider.Chain(mws...)(p)
}

// detach returns a context that survives client disconnects but still ends
// after timeout. Request-scoped values such as the request ID are kept.
func detach(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}
