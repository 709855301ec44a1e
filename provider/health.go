package provider

import (
	"context"

	"github.com/kbukum/meetscribe/component"
)

// HealthCheck adapts a Provider to component.Checker so it is listed in
// /health. An unavailable provider reports degraded: the service still
// answers, but calls to it fail.
type HealthCheck struct {
	p Provider
}

// NewHealthCheck wraps p.
func NewHealthCheck(p Provider) HealthCheck {
	return HealthCheck{p: p}
}

// Name returns the provider name.
func (h HealthCheck) Name() string { return h.p.Name() }

// Health reports the provider's availability.
func (h HealthCheck) Health(ctx context.Context) component.Health {
	if h.p.IsAvailable(ctx) {
		return component.Health{Name: h.p.Name(), Status: component.StatusHealthy}
	}
	return component.Health{
		Name:    h.p.Name(),
		Status:  component.StatusDegraded,
		Message: "credential not configured",
	}
}
