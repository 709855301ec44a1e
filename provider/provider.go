// Package provider defines the contract for outbound service clients and
// the middleware (logging, tracing, metrics) composed around them.
package provider

import "context"

// Provider is the base interface all providers implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable reports whether the provider is configured to take
	// requests. It must not perform network calls.
	IsAvailable(ctx context.Context) bool
}

// RequestResponse is a provider that takes one input and returns one output.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}
